package web

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/logging"
)

// uploadOperator answers the run prompts from an HTTP upload. The files are
// already saved; the output goes into the same scratch directory.
type uploadOperator struct {
	master string
	lookup string
	dir    string

	mu       sync.Mutex
	warnings []string
}

// RequestInputPath returns the saved upload for purpose. A missing lookup
// upload skips region mapping.
func (o *uploadOperator) RequestInputPath(ctx context.Context, purpose core.Purpose) (string, bool) {
	switch purpose {
	case core.PurposeMaster:
		return o.master, o.master != ""
	case core.PurposeLookup:
		return o.lookup, o.lookup != ""
	default:
		return "", false
	}
}

// RequestOutputPath places the summary in the scratch directory.
func (o *uploadOperator) RequestOutputPath(ctx context.Context, purpose core.Purpose, suggested string) (string, bool) {
	return filepath.Join(o.dir, filepath.Base(suggested)), true
}

// Notify logs notices and keeps warnings for the response headers. Errors
// reach the client through the returned run error instead.
func (o *uploadOperator) Notify(ctx context.Context, kind core.NoticeKind, title, message string) {
	logger := logging.FromContext(ctx)
	switch kind {
	case core.NoticeWarning:
		logger.Warn(title, "message", message)
		o.mu.Lock()
		o.warnings = append(o.warnings, title+": "+message)
		o.mu.Unlock()
	default:
		logger.Debug(title, "message", message)
	}
}

// Warnings returns the warnings noticed during the run.
func (o *uploadOperator) Warnings() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.warnings...)
}

var _ core.Operator = (*uploadOperator)(nil)
