package operator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/logging"
)

// Preset is a non-interactive operator. Paths are fixed before the run starts;
// an empty Master declines the master prompt and an empty Lookup skips region
// mapping. An empty Output accepts the suggested name in the working directory.
type Preset struct {
	Master string
	Lookup string
	Output string

	// Out receives notices. Nil discards them.
	Out io.Writer

	// Quiet drops info notices from Out. They are still logged at debug level.
	Quiet bool
}

// RequestInputPath returns the preset path for purpose.
func (p *Preset) RequestInputPath(ctx context.Context, purpose core.Purpose) (string, bool) {
	var path string
	switch purpose {
	case core.PurposeMaster:
		path = cleanPath(p.Master)
	case core.PurposeLookup:
		path = cleanPath(p.Lookup)
	}
	return path, path != ""
}

// RequestOutputPath returns the preset output path, falling back to suggested.
func (p *Preset) RequestOutputPath(ctx context.Context, purpose core.Purpose, suggested string) (string, bool) {
	return resolveOutput(p.Output, suggested), true
}

// Notify logs the notice and prints it to Out.
func (p *Preset) Notify(ctx context.Context, kind core.NoticeKind, title, message string) {
	logger := logging.FromContext(ctx)
	switch kind {
	case core.NoticeError:
		logger.Error(title, "message", message)
	case core.NoticeWarning:
		logger.Warn(title, "message", message)
	default:
		logger.Debug(title, "message", message)
	}

	if p.Out == nil || (p.Quiet && kind == core.NoticeInfo) {
		return
	}
	fmt.Fprintln(p.Out, formatNotice(kind, title, message))
}

// formatNotice renders a notice as a heading line followed by the message.
func formatNotice(kind core.NoticeKind, title, message string) string {
	heading := title
	switch kind {
	case core.NoticeError:
		heading = "ERROR: " + title
	case core.NoticeWarning:
		heading = "WARNING: " + title
	}
	if message == "" {
		return heading
	}
	return heading + "\n  " + strings.ReplaceAll(message, "\n", "\n  ")
}

var _ core.Operator = (*Preset)(nil)
