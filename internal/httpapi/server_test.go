package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/tube2book/internal/logger"
	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/processor"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
)

type countingController struct {
	requests []pipeline.Request
}

func (c *countingController) Summarize(_ context.Context, req pipeline.Request) *pipeline.Run {
	c.requests = append(c.requests, req)
	return &pipeline.Run{Success: true}
}

type fakeProcessor struct {
	refs  []string
	texts []processor.TextRequest
	out   *processor.Outcome
	err   error
}

func (f *fakeProcessor) Process(_ context.Context, ref string) (*processor.Outcome, error) {
	f.refs = append(f.refs, ref)
	return f.out, f.err
}

func (f *fakeProcessor) ProcessRemote(_ context.Context, ref string) (*processor.Outcome, error) {
	f.refs = append(f.refs, ref)
	return f.out, f.err
}

func (f *fakeProcessor) ProcessText(_ context.Context, req processor.TextRequest) (*processor.Outcome, error) {
	f.texts = append(f.texts, req)
	return f.out, f.err
}

func (f *fakeProcessor) ProcessBatch(context.Context, []string) []processor.BatchResult {
	return nil
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/summaries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(&fakeProcessor{}, logger.NewNop())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSummary(t *testing.T) {
	fp := &fakeProcessor{out: &processor.Outcome{Ref: "dQw4w9WgXcQ", Title: "Song", Run: &pipeline.Run{Success: true}}}
	s := New(fp, logger.NewNop())

	rec := post(t, s.Handler(), `{"ref":"dQw4w9WgXcQ"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got processor.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Song" || got.Run == nil || !got.Run.Success {
		t.Errorf("response = %+v", got)
	}
	if len(fp.refs) != 1 || fp.refs[0] != "dQw4w9WgXcQ" {
		t.Errorf("ProcessRemote called with %v", fp.refs)
	}

	rec = post(t, s.Handler(), `{"text":"some words","title":"Pasted","language":"fr"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(fp.texts) != 1 || fp.texts[0].Language != "fr" || fp.texts[0].Text != "some words" {
		t.Errorf("ProcessText called with %+v", fp.texts)
	}
}

func TestCreateSummaryBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"ref":`},
		{name: "empty", body: `{}`},
		{name: "both", body: `{"ref":"abc","text":"words"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeProcessor{}
			rec := post(t, New(fp, logger.NewNop()).Handler(), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(fp.refs)+len(fp.texts) != 0 {
				t.Error("processor called for a bad request")
			}
		})
	}
}

func TestCreateSummaryErrors(t *testing.T) {
	failed := func(kind pipeline.ErrorKind) *processor.Outcome {
		return &processor.Outcome{Run: &pipeline.Run{ErrKind: kind}}
	}
	tests := []struct {
		name     string
		out      *processor.Outcome
		err      error
		want     int
		wantKind string
	}{
		{"bad ref", nil, fmt.Errorf("fetch transcript: %w", transcript.ErrInvalidRef), http.StatusBadRequest, "input"},
		{"no captions", nil, fmt.Errorf("fetch transcript: %w", transcript.ErrNotAvailable), http.StatusNotFound, "input"},
		{"fetch failed", nil, errors.New("dial tcp: timeout"), http.StatusBadGateway, ""},
		{"empty text", failed(pipeline.KindInput), processor.ErrSummarize, http.StatusUnprocessableEntity, "input"},
		{"rate limited", failed(pipeline.KindRateLimited), processor.ErrSummarize, http.StatusTooManyRequests, "rate_limited"},
		{"fatal", failed(pipeline.KindFatal), processor.ErrSummarize, http.StatusBadGateway, "fatal"},
		{"cancelled", failed(pipeline.KindCancelled), processor.ErrSummarize, http.StatusServiceUnavailable, "cancelled"},
		{"render", &processor.Outcome{Run: &pipeline.Run{Success: true}}, errors.New("render: disk full"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeProcessor{out: tt.out, err: tt.err}
			rec := post(t, New(fp, logger.NewNop()).Handler(), `{"ref":"abc"}`)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Kind != tt.wantKind || body.Error == "" {
				t.Errorf("body = %+v, want kind %q", body, tt.wantKind)
			}
		})
	}
}

func TestCreateSummaryRejectsLocalPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("server private notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctrl := &countingController{}
	proc := processor.New(processor.Deps{
		Source:   transcript.New(transcript.Config{BaseURL: "http://127.0.0.1:1"}, nil, logger.NewNop()),
		Pipeline: ctrl,
		Logger:   logger.NewNop(),
	}, processor.Options{
		InputDir:   dir,
		ArchiveDir: filepath.Join(dir, "archived"),
	})
	h := New(proc, logger.NewNop()).Handler()

	for _, ref := range []string{path, "notes.txt", "../" + filepath.Base(dir) + "/notes.txt"} {
		body, _ := json.Marshal(map[string]string{"ref": ref})
		rec := post(t, h, string(body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("ref %q: status = %d, want 400", ref, rec.Code)
		}
	}
	if len(ctrl.requests) != 0 {
		t.Errorf("file contents reached the pipeline: %+v", ctrl.requests)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "server private notes" {
		t.Errorf("local file was moved or changed: %v", err)
	}
}
