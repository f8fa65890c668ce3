package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted as JSON for API clients and as a page for browsers
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status code is derived from the error type
//  4. Error is mapped via core.MapError to get user-friendly message
//  5. Technical error + context is logged with request ID for correlation

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/logging"
	"github.com/a-h/templ"
)

var (
	// errNoMasterFile is returned when the upload has no master part.
	errNoMasterFile = errors.New("no file provided: the master objects CSV is required")

	// errFileTooLarge is returned when the request body exceeds UPLOAD_MAX_FILE_SIZE.
	errFileTooLarge = errors.New("file too large")

	// errInvalidUpload is returned when the multipart body cannot be parsed.
	errInvalidUpload = errors.New("invalid csv upload")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	RunID   string `json:"runId,omitempty"`
}

// statusFor picks the HTTP status for a run or upload error.
func statusFor(err error) int {
	var (
		readErr   *core.ReadError
		schemaErr *core.SchemaError
	)

	switch {
	case errors.Is(err, ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoMasterFile), errors.Is(err, errInvalidUpload), errors.Is(err, core.ErrCancelled):
		return http.StatusBadRequest
	case errors.As(err, &readErr):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr), errors.Is(err, core.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError handles error responses with user-friendly messages.
// runID is included in the response when the failure happened inside a run.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, runID string) {
	statusCode := statusFor(err)
	userMsg := core.MapError(err)

	// Log the technical error with context (request id comes from the context)
	logger := logging.FromContext(r.Context())
	logArgs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if runID != "" {
		logArgs = append(logArgs, "run_id", runID)
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", logArgs...)
	} else {
		logger.Warn("request error", logArgs...)
	}

	if errors.Is(err, ErrTooManyRuns) {
		w.Header().Set("Retry-After", retryAfter(s.limiter.maxWait))
	}

	if wantsJSON(r) {
		writeJSON(w, r, statusCode, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
			RunID:   runID,
		})
		return
	}

	templ.Handler(errorPage(userMsg), templ.WithStatus(statusCode)).ServeHTTP(w, r)
}

// wantsJSON checks if the client prefers a JSON response. Browsers posting
// the upload form ask for HTML; API routes default to JSON otherwise.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")

	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(accept, "text/html") {
		return false
	}

	return strings.HasPrefix(r.URL.Path, "/api/")
}
