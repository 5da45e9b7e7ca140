package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/document/store"
	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(context.Background(), "mem://")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, st, logger)
}

// doJSON runs one request against the handler and returns the recorder.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Handler()

	w := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestGridEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	w := doJSON(t, h, http.MethodPost, "/api/v1/grid", pipeline.Options{Format: "A4"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}

	summary := decodeBody[gridio.Summary](t, w)
	if summary.Format != "A4" {
		t.Errorf("format = %q, want A4", summary.Format)
	}
	if summary.Settings.GridCols != 9 || summary.Settings.GridRows != 9 {
		t.Errorf("grid = %dx%d, want 9x9",
			summary.Settings.GridCols, summary.Settings.GridRows)
	}
	if summary.PageSize.Width != 595.276 {
		t.Errorf("page width = %v, want 595.276", summary.PageSize.Width)
	}
}

func TestGridEndpoint_InvalidFormat(t *testing.T) {
	h := newTestServer(t).Handler()

	w := doJSON(t, h, http.MethodPost, "/api/v1/grid", pipeline.Options{Format: "A9"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[errorBody](t, w)
	if body.Code != string(errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %q, want INVALID_FORMAT", body.Code)
	}
}

func TestPlanEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	grid, err := geometry.Derive(geometry.Params{
		Format:       geometry.FormatA4,
		Orientation:  geometry.Portrait,
		Cols:         6,
		Rows:         9,
		MarginMethod: geometry.MarginProgressive,
	})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	doc := document.NewDefault(grid)

	w := doJSON(t, h, http.MethodPost, "/api/v1/plan", planRequest{
		Document: doc,
		Grid:     pipeline.Options{Cols: 3, Rows: 9},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}

	resp := decodeBody[planResponse](t, w)
	if resp.Moved != 1 {
		t.Errorf("moved = %d, want 1", resp.Moved)
	}
	if resp.Document.Grid.Cols != 3 {
		t.Errorf("grid cols = %d, want 3", resp.Document.Grid.Cols)
	}
	body, ok := resp.Document.Block("body-1")
	if !ok {
		t.Fatal("body-1 missing from response")
	}
	if body.Position.Col != 0 || body.Position.Row != 21 {
		t.Errorf("body at (%d, %g), want (0, 21)", body.Position.Col, body.Position.Row)
	}
}

func TestPlanEndpoint_NoDocument(t *testing.T) {
	h := newTestServer(t).Handler()

	w := doJSON(t, h, http.MethodPost, "/api/v1/plan", planRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[errorBody](t, w)
	if body.Code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want INVALID_INPUT", body.Code)
	}
}

func TestFitEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	grid, err := geometry.Derive(geometry.DefaultParams())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	doc := document.NewDefault(grid)

	w := doJSON(t, h, http.MethodPost, "/api/v1/fit", fitRequest{
		Document: doc,
		Block:    "body-1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}

	resp := decodeBody[fitResponse](t, w)
	if resp.Lines < 1 {
		t.Errorf("lines = %d, want at least 1", resp.Lines)
	}
	if resp.Span < 1 || resp.Span > grid.Cols {
		t.Errorf("span = %d, want within [1, %d]", resp.Span, grid.Cols)
	}
}

func TestFitEndpoint_UnknownBlock(t *testing.T) {
	h := newTestServer(t).Handler()

	grid, err := geometry.Derive(geometry.DefaultParams())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	w := doJSON(t, h, http.MethodPost, "/api/v1/fit", fitRequest{
		Document: document.NewDefault(grid),
		Block:    "nope",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404\nbody: %s", w.Code, w.Body.String())
	}
	body := decodeBody[errorBody](t, w)
	if body.Code != string(errors.ErrCodeNotFound) {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()

	grid, err := geometry.Derive(geometry.DefaultParams())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	doc := document.NewDefault(grid)
	doc.ID = "" // the server assigns the ID

	w := doJSON(t, h, http.MethodPost, "/api/v1/documents", doc)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201\nbody: %s", w.Code, w.Body.String())
	}
	created := decodeBody[document.Document](t, w)
	if created.ID == "" {
		t.Fatal("server did not assign a document ID")
	}
	if len(created.Blocks) != len(doc.Blocks) {
		t.Errorf("stored %d blocks, want %d", len(created.Blocks), len(doc.Blocks))
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/documents", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	list := decodeBody[listResponse](t, w)
	if list.Count != 1 || len(list.Documents) != 1 {
		t.Fatalf("list count = %d (%d entries), want 1", list.Count, len(list.Documents))
	}
	if list.Documents[0].ID != created.ID {
		t.Errorf("listed ID = %q, want %q", list.Documents[0].ID, created.ID)
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/documents/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", w.Code)
	}
	fetched := decodeBody[document.Document](t, w)
	if fetched.ID != created.ID {
		t.Errorf("fetched ID = %q, want %q", fetched.ID, created.ID)
	}

	w = doJSON(t, h, http.MethodDelete, "/api/v1/documents/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/documents/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", w.Code)
	}
	body := decodeBody[errorBody](t, w)
	if body.Code != string(errors.ErrCodeDocumentNotFound) {
		t.Errorf("code = %q, want DOCUMENT_NOT_FOUND", body.Code)
	}
}

func TestDocumentPreview(t *testing.T) {
	h := newTestServer(t).Handler()

	grid, err := geometry.Derive(geometry.DefaultParams())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	w := doJSON(t, h, http.MethodPost, "/api/v1/documents", document.NewDefault(grid))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201\nbody: %s", w.Code, w.Body.String())
	}
	created := decodeBody[document.Document](t, w)

	w = doJSON(t, h, http.MethodGet, "/api/v1/documents/"+created.ID+"/preview", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("display-1")) {
		t.Error("preview does not label the display block")
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/documents/absent/preview", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing document preview status = %d, want 404", w.Code)
	}
}

func TestNoStore(t *testing.T) {
	logger := log.New(io.Discard)
	srv := New(pipeline.NewRunner(nil, logger), nil, logger)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodGet, "/api/v1/documents", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	body := decodeBody[errorBody](t, w)
	if body.Code != string(errors.ErrCodeStoreUnavailable) {
		t.Errorf("code = %q, want STORE_UNAVAILABLE", body.Code)
	}
}

func TestSession_ReusesSite(t *testing.T) {
	s := newTestServer(t)

	a, aok := s.session("editor-1").(siteExecutor)
	b, bok := s.session("editor-1").(siteExecutor)
	if !aok || !bok {
		t.Fatal("session with an ID should return a site executor")
	}
	if a.site != b.site {
		t.Error("same session ID should reuse one site")
	}

	if s.session("") != s.runner.Executor {
		t.Error("empty session should use the shared executor")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeDocumentNotFound, http.StatusNotFound},
		{errors.ErrCodeCanceled, http.StatusConflict},
		{errors.ErrCodeStoreUnavailable, http.StatusServiceUnavailable},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
