package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testMasterCSV = "origin_country_std,creation_start_year_std,creation_end_year_std,classification_std,medium_std\n" +
		"France,1875,,Painting,oil on canvas\n" +
		"France,1876,,Print,engraving\n" +
		"Japan,1630,,,porcelain\n"

	testLookupCSV = "origin_country,region\nFrance,Europe\n"

	testCountsCSV = "region,country,decade,medium_group,n_objects\n" +
		"Europe,France,1870,Paintings,1\n" +
		"Europe,France,1870,Prints,1\n" +
		"Unknown,Japan,1630,Decorative arts,1\n"
)

type notice struct {
	kind  NoticeKind
	title string
}

// fakeOperator answers prompts from fixed values; an empty path declines.
type fakeOperator struct {
	master string
	lookup string
	output string

	outputAsked bool
	suggested   string
	notices     []notice
}

func (f *fakeOperator) RequestInputPath(_ context.Context, purpose Purpose) (string, bool) {
	switch purpose {
	case PurposeMaster:
		return f.master, f.master != ""
	case PurposeLookup:
		return f.lookup, f.lookup != ""
	}
	return "", false
}

func (f *fakeOperator) RequestOutputPath(_ context.Context, _ Purpose, suggested string) (string, bool) {
	f.outputAsked = true
	f.suggested = suggested
	return f.output, f.output != ""
}

func (f *fakeOperator) Notify(_ context.Context, kind NoticeKind, title, _ string) {
	f.notices = append(f.notices, notice{kind, title})
}

func (f *fakeOperator) has(kind NoticeKind, title string) bool {
	for _, n := range f.notices {
		if n.kind == kind && n.title == title {
			return true
		}
	}
	return false
}

type fakeHistory struct {
	mu   sync.Mutex
	runs []RunSummary
	err  error
}

func (h *fakeHistory) RecordRun(_ context.Context, run RunSummary) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)
	return h.err
}

func (h *fakeHistory) ListRuns(_ context.Context, _ int) ([]RunSummary, error) {
	return h.runs, nil
}

type fakePublisher struct {
	runID string
	rows  []AggregateRow
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, runID string, rows []AggregateRow) error {
	p.runID = runID
	p.rows = rows
	return p.err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestService(opts ...Option) *Service {
	s := NewService(NewPipeline(DefaultColumns()), opts...)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 250 * time.Millisecond)
	}
	return s
}

func TestService_Run_Success(t *testing.T) {
	dir := t.TempDir()
	history := &fakeHistory{}
	publisher := &fakePublisher{}
	svc := newTestService(WithHistory(history), WithPublisher(publisher))

	op := &fakeOperator{
		master: writeFile(t, dir, "master.csv", testMasterCSV),
		lookup: writeFile(t, dir, "lookup.csv", testLookupCSV),
		output: filepath.Join(dir, "out.csv"),
	}

	run, err := svc.Run(context.Background(), op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(op.output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testCountsCSV {
		t.Errorf("output =\n%s\nwant\n%s", data, testCountsCSV)
	}

	if run.Status != RunSucceeded {
		t.Errorf("Status = %q, want %q", run.Status, RunSucceeded)
	}
	if run.RecordsRead != 3 || run.RecordsKept != 3 || run.Groups != 3 {
		t.Errorf("read/kept/groups = %d/%d/%d, want 3/3/3", run.RecordsRead, run.RecordsKept, run.Groups)
	}
	if run.Duration != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", run.Duration)
	}
	if run.RunID == "" || run.LookupPath != op.lookup || run.OutputPath != op.output {
		t.Errorf("run = %+v", run)
	}
	if op.suggested != DefaultOutputName {
		t.Errorf("suggested = %q, want %q", op.suggested, DefaultOutputName)
	}
	if !op.has(NoticeInfo, "Done") {
		t.Errorf("notices = %v, want a Done notice", op.notices)
	}

	if len(history.runs) != 1 || history.runs[0].RunID != run.RunID {
		t.Errorf("history = %+v, want the run recorded once", history.runs)
	}
	if publisher.runID != run.RunID || len(publisher.rows) != 3 {
		t.Errorf("published run %q with %d rows", publisher.runID, len(publisher.rows))
	}
}

func TestService_Run_SkipLookup(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(WithOutputName("summary.csv"))
	op := &fakeOperator{
		master: writeFile(t, dir, "master.csv", testMasterCSV),
		output: filepath.Join(dir, "summary.csv"),
	}

	run, err := svc.Run(context.Background(), op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, r := range run.Rows {
		if r.Region != Unknown {
			t.Errorf("row %+v: region = %q, want %q", r, r.Region, Unknown)
		}
	}
	if run.LookupPath != "" {
		t.Errorf("LookupPath = %q, want empty", run.LookupPath)
	}
	if op.suggested != "summary.csv" {
		t.Errorf("suggested = %q, want summary.csv", op.suggested)
	}
}

func TestService_Run_LookupWarning(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()
	op := &fakeOperator{
		master: writeFile(t, dir, "master.csv", testMasterCSV),
		lookup: writeFile(t, dir, "lookup.csv", "country,area\nFrance,Europe\n"),
		output: filepath.Join(dir, "out.csv"),
	}

	run, err := svc.Run(context.Background(), op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !op.has(NoticeWarning, "Lookup columns missing") {
		t.Errorf("notices = %v, want lookup warning", op.notices)
	}
	if len(run.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", run.Warnings)
	}
}

func TestService_Run_Failures(t *testing.T) {
	tests := []struct {
		name       string
		master     string // file content; "" declines the prompt
		lookup     string // file content; "" skips the prompt
		output     bool
		wantStatus RunStatus
		wantErr    func(error) bool
		wantNotice notice
		wantOutput bool // output prompt reached
	}{
		{
			name:       "master declined",
			wantStatus: RunCancelled,
			wantErr:    func(err error) bool { return errors.Is(err, ErrCancelled) },
			wantNotice: notice{NoticeWarning, "Cancelled"},
		},
		{
			name:       "output declined",
			master:     testMasterCSV,
			wantStatus: RunCancelled,
			wantErr:    func(err error) bool { return errors.Is(err, ErrCancelled) },
			wantNotice: notice{NoticeWarning, "Cancelled"},
			wantOutput: true,
		},
		{
			name:       "missing columns",
			master:     "country,year\nFrance,1875\n",
			output:     true,
			wantStatus: RunFailed,
			wantErr: func(err error) bool {
				var schemaErr *SchemaError
				return errors.As(err, &schemaErr)
			},
			wantNotice: notice{NoticeError, "Missing columns in master file"},
		},
		{
			name:       "no dated records",
			master:     "origin_country_std,creation_start_year_std,creation_end_year_std\nFrance,,\n",
			output:     true,
			wantStatus: RunEmpty,
			wantErr:    func(err error) bool { return errors.Is(err, ErrEmptyResult) },
			wantNotice: notice{NoticeWarning, "No data"},
		},
		{
			name:       "unreadable master",
			master:     "a,b\n1,2,3\n",
			output:     true,
			wantStatus: RunFailed,
			wantErr: func(err error) bool {
				var readErr *ReadError
				return errors.As(err, &readErr)
			},
			wantNotice: notice{NoticeError, "Error"},
		},
		{
			name:       "unreadable lookup",
			master:     testMasterCSV,
			lookup:     "\n\n",
			output:     true,
			wantStatus: RunFailed,
			wantErr: func(err error) bool {
				var readErr *ReadError
				return errors.As(err, &readErr)
			},
			wantNotice: notice{NoticeError, "Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			history := &fakeHistory{}
			svc := newTestService(WithHistory(history))

			op := &fakeOperator{}
			if tt.master != "" {
				op.master = writeFile(t, dir, "master.csv", tt.master)
			}
			if tt.lookup != "" {
				op.lookup = writeFile(t, dir, "lookup.csv", tt.lookup)
			}
			if tt.output {
				op.output = filepath.Join(dir, "out.csv")
			}

			run, err := svc.Run(context.Background(), op)

			if err == nil || !tt.wantErr(err) {
				t.Fatalf("Run() error = %v", err)
			}
			if run.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", run.Status, tt.wantStatus)
			}
			if run.Error == "" {
				t.Error("Error is empty")
			}
			if !op.has(tt.wantNotice.kind, tt.wantNotice.title) {
				t.Errorf("notices = %v, want %v", op.notices, tt.wantNotice)
			}
			if op.outputAsked != tt.wantOutput {
				t.Errorf("output prompt reached = %v, want %v", op.outputAsked, tt.wantOutput)
			}
			if len(history.runs) != 1 || history.runs[0].Status != tt.wantStatus {
				t.Errorf("history = %+v, want one %q run", history.runs, tt.wantStatus)
			}
			if _, err := os.Stat(filepath.Join(dir, "out.csv")); !os.IsNotExist(err) {
				t.Errorf("output file exists after a failed run (stat err = %v)", err)
			}
		})
	}
}

func TestService_Run_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()
	op := &fakeOperator{
		master: writeFile(t, dir, "master.csv", testMasterCSV),
		output: filepath.Join(dir, "out.csv"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := svc.Run(ctx, op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if run.Status != RunFailed {
		t.Errorf("Status = %q, want %q", run.Status, RunFailed)
	}
	if op.outputAsked {
		t.Error("output prompt reached after cancellation")
	}
}

func TestService_Run_SideEffectFailuresAreNonFatal(t *testing.T) {
	dir := t.TempDir()
	history := &fakeHistory{err: errors.New("database is locked")}
	publisher := &fakePublisher{err: errors.New("connection refused")}
	svc := newTestService(WithHistory(history), WithPublisher(publisher))

	op := &fakeOperator{
		master: writeFile(t, dir, "master.csv", testMasterCSV),
		output: filepath.Join(dir, "out.csv"),
	}

	run, err := svc.Run(context.Background(), op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Status != RunSucceeded {
		t.Errorf("Status = %q, want %q", run.Status, RunSucceeded)
	}
	if !op.has(NoticeWarning, "Publish failed") {
		t.Errorf("notices = %v, want publish warning", op.notices)
	}
	if _, err := os.Stat(op.output); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestService_Run_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	publisher := &fakePublisher{}
	svc := newTestService(WithPublisher(publisher))
	op := &fakeOperator{
		master: writeFile(t, dir, "master.csv", testMasterCSV),
		output: filepath.Join(dir, "missing", "out.csv"),
	}

	run, err := svc.Run(context.Background(), op)

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Run() error = %v, want *WriteError", err)
	}
	if run.Status != RunFailed {
		t.Errorf("Status = %q, want %q", run.Status, RunFailed)
	}
	if publisher.runID != "" {
		t.Error("rows were published although the write failed")
	}
}

func TestEmptyNotice(t *testing.T) {
	if got := emptyNotice(fmt.Errorf("transform: %w", errNoGroups)); !strings.HasPrefix(got, "No rows produced") {
		t.Errorf("emptyNotice(groups) = %q", got)
	}
	if got := emptyNotice(errNoDecades); !strings.HasPrefix(got, "No rows remain") {
		t.Errorf("emptyNotice(decades) = %q", got)
	}
}
