package web

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/a-h/templ"
)

// indexData is what the upload page shows.
type indexData struct {
	MaxUploadBytes int64
	OutputName     string
	HistoryEnabled bool
	Runs           []core.RunSummary
}

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:52rem;margin:2rem auto;padding:0 1rem;color:#1f2937}
h1{font-size:1.5rem}fieldset{border:1px solid #d1d5db;border-radius:.5rem;padding:1rem;margin-bottom:1rem}
label{display:block;margin:.5rem 0 .25rem;font-weight:600}small{color:#6b7280}
button{background:#1d4ed8;color:#fff;border:0;border-radius:.375rem;padding:.5rem 1rem;cursor:pointer}
table{border-collapse:collapse;width:100%;font-size:.875rem}th,td{text-align:left;padding:.25rem .5rem;border-bottom:1px solid #e5e7eb}
.alert{border-left:4px solid #b91c1c;background:#fef2f2;padding:1rem}.code{font-family:monospace;color:#6b7280}`

// layout wraps body in the page chrome.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// indexPage renders the upload form and the recent runs.
func indexPage(data indexData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString("<h1>Museum object counts</h1>")
		b.WriteString("<p>Counts objects by region, country, creation decade and medium group.</p>")
		b.WriteString(`<form method="post" action="/api/counts" enctype="multipart/form-data">`)

		b.WriteString(`<fieldset><legend>Step 1</legend>`)
		b.WriteString(`<label for="master">Master objects CSV</label>`)
		b.WriteString(`<input type="file" id="master" name="master" accept=".csv,.tsv,.txt" required>`)
		b.WriteString(`<small> e.g. combinedMuseumObjects.csv</small></fieldset>`)

		b.WriteString(`<fieldset><legend>Step 2 (optional)</legend>`)
		b.WriteString(`<label for="lookup">Country to region lookup CSV</label>`)
		b.WriteString(`<input type="file" id="lookup" name="lookup" accept=".csv,.tsv,.txt">`)
		b.WriteString(`<small> Skip this if you don't want regions.</small></fieldset>`)

		fmt.Fprintf(&b, `<p><small>Maximum upload size %s. The summary downloads as %s.</small></p>`,
			templ.EscapeString(formatBytes(data.MaxUploadBytes)), templ.EscapeString(data.OutputName))
		b.WriteString(`<button type="submit">Build counts</button></form>`)

		if data.HistoryEnabled {
			b.WriteString("<h2>Recent runs</h2>")
			writeRunsTable(&b, data.Runs)
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout("Museum object counts", body)
}

func writeRunsTable(b *strings.Builder, runs []core.RunSummary) {
	if len(runs) == 0 {
		b.WriteString("<p><small>No runs yet.</small></p>")
		return
	}

	b.WriteString("<table><thead><tr><th>Started</th><th>Status</th><th>Records</th><th>Kept</th><th>Groups</th><th>Error</th></tr></thead><tbody>")
	for _, run := range runs {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td></tr>",
			templ.EscapeString(run.StartedAt.Local().Format(time.DateTime)),
			templ.EscapeString(string(run.Status)),
			run.RecordsRead, run.RecordsKept, run.Groups,
			templ.EscapeString(run.Error),
		)
	}
	b.WriteString("</tbody></table>")
}

// errorPage renders a mapped error for browser clients.
func errorPage(msg core.UserMessage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<h1>Museum object counts</h1><div class="alert" role="alert"><p><strong>%s</strong></p><p>%s</p><p class="code">Code: %s</p></div><p><a href="/">Back</a></p>`,
			templ.EscapeString(msg.Message),
			templ.EscapeString(msg.Action),
			templ.EscapeString(msg.Code),
		)
		return err
	})
	return layout("Error", body)
}

// formatBytes renders n as a short human-readable size.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.0f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
