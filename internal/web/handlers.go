package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/logging"
	"github.com/a-h/templ"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		MaxUploadBytes: s.cfg.Upload.MaxFileSize,
		OutputName:     s.service.OutputName(),
	}

	if h := s.service.History(); h != nil {
		runs, err := h.ListRuns(r.Context(), s.cfg.History.ListLimit)
		if err != nil {
			// The form is still usable without the run list.
			logging.FromContext(r.Context()).Warn("failed to list runs", "error", err)
		}
		data.HistoryEnabled = true
		data.Runs = runs
	}

	templ.Handler(indexPage(data)).ServeHTTP(w, r)
}

// handleHealth reports liveness and run slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"runs":   s.limiter.Status(),
	})
}

// handleListRuns returns recent runs as JSON. Without history the list is empty.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.History.ListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
				Error:   "limit must be a positive integer",
				Message: "limit must be a positive integer",
				Code:    "VAL001",
			})
			return
		}
		limit = min(n, s.cfg.History.ListLimit)
	}

	runs := []core.RunSummary{}
	if h := s.service.History(); h != nil {
		var err error
		runs, err = h.ListRuns(r.Context(), limit)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("list runs: %w", err), "")
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"enabled": s.service.History() != nil,
		"runs":    runs,
	})
}

// handleCounts runs the pipeline on an uploaded master table (form field
// "master") and optional lookup table (form field "lookup") and returns the
// summary CSV as a download.
func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	defer release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
			s.respondError(w, r, fmt.Errorf("%w: limit is %d bytes", errFileTooLarge, s.cfg.Upload.MaxFileSize), "")
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidUpload, err), "")
		return
	}
	defer r.MultipartForm.RemoveAll()

	dir, err := os.MkdirTemp("", "museumcounts-*")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("create scratch directory: %w", err), "")
		return
	}
	defer os.RemoveAll(dir)

	masterPath, err := saveUpload(r, "master", dir)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	if masterPath == "" {
		s.respondError(w, r, errNoMasterFile, "")
		return
	}
	lookupPath, err := saveUpload(r, "lookup", dir)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	logging.WithFields(ctx, "master", filepath.Base(masterPath), "lookup", filepath.Base(lookupPath)).
		Info("upload received")

	op := &uploadOperator{master: masterPath, lookup: lookupPath, dir: dir}
	summary, err := s.service.Run(ctx, op)
	if err != nil {
		s.respondError(w, r, err, summary.RunID)
		return
	}

	out, err := os.Open(summary.OutputPath)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("could not read %s: %w", summary.OutputPath, err), summary.RunID)
		return
	}
	defer out.Close()

	h := w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(summary.OutputPath)))
	h.Set("X-Run-Id", summary.RunID)
	h.Set("X-Run-Groups", strconv.Itoa(summary.Groups))
	h.Set("X-Run-Records-Kept", strconv.Itoa(summary.RecordsKept))
	for _, warning := range op.Warnings() {
		h.Add("X-Run-Warning", strings.ReplaceAll(warning, "\n", " "))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, out); err != nil {
		logging.FromContext(ctx).Warn("failed to stream summary", "error", err, "run_id", summary.RunID)
	}
}

// saveUpload copies the form file field into dir, keeping the uploaded file
// name so the extension still selects the delimiter. Returns "" when the
// field is absent or empty.
func saveUpload(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errInvalidUpload, field, err)
	}
	defer file.Close()

	if header.Size == 0 && header.Filename == "" {
		return "", nil
	}

	sub := filepath.Join(dir, field)
	if err := os.Mkdir(sub, 0o700); err != nil {
		return "", fmt.Errorf("save %s upload: %w", field, err)
	}
	path := filepath.Join(sub, uploadName(header, field))

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save %s upload: %w", field, err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return "", fmt.Errorf("save %s upload: %w", field, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("save %s upload: %w", field, err)
	}
	return path, nil
}

// uploadName is the client file name without any directory part.
func uploadName(header *multipart.FileHeader, field string) string {
	name := filepath.Base(strings.ReplaceAll(header.Filename, `\`, "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		return field + ".csv"
	}
	return name
}
