package operator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/JonMunkholm/museumcounts/internal/core"
)

// Prompt asks for paths on a terminal.
//
// A blank answer (or end of input) on the master prompt cancels the run, on
// the lookup prompt skips region mapping, and on the output prompt accepts
// the suggested file name. Input paths that do not exist are asked for again.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading answers from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// RequestInputPath asks for an existing file.
func (p *Prompt) RequestInputPath(ctx context.Context, purpose core.Purpose) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	question := "Path to master CSV (blank to cancel): "
	if purpose == core.PurposeLookup {
		question = "Path to region lookup CSV (blank to skip): "
	}

	for {
		answer, ok := p.ask(ctx, question)
		if !ok {
			return "", false
		}
		path := cleanPath(answer)
		if path == "" {
			return "", false
		}

		info, err := os.Stat(path)
		switch {
		case err != nil:
			fmt.Fprintf(p.out, "File not found: %s\n", path)
		case info.IsDir():
			fmt.Fprintf(p.out, "%s is a directory, not a file\n", path)
		default:
			return path, true
		}
	}
}

// RequestOutputPath asks where to save, offering suggested as the default.
func (p *Prompt) RequestOutputPath(ctx context.Context, purpose core.Purpose, suggested string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	answer, ok := p.ask(ctx, fmt.Sprintf("Save as [%s]: ", suggested))
	if !ok {
		if ctx.Err() != nil {
			return "", false
		}
		answer = ""
	}
	return resolveOutput(answer, suggested), true
}

// Notify prints the notice.
func (p *Prompt) Notify(ctx context.Context, kind core.NoticeKind, title, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\n%s\n", formatNotice(kind, title, message))
}

// ask writes question and reads one line. ok is false at end of input or
// when ctx is done.
func (p *Prompt) ask(ctx context.Context, question string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}

	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return "", false
	}
	return line, true
}

var _ core.Operator = (*Prompt)(nil)
