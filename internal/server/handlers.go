package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/longplay45/swissgrid/pkg/buildinfo"
	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/document/store"
	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/pipeline"
	"github.com/longplay45/swissgrid/pkg/render"
	"github.com/longplay45/swissgrid/pkg/typography"
)

// planRequest reflows a document onto the grid the options describe.
type planRequest struct {
	Document *document.Document `json:"document"`
	Grid     pipeline.Options   `json:"grid"`
}

// planResponse is the reflowed document and how many blocks moved.
type planResponse struct {
	Document *document.Document `json:"document"`
	Moved    int                `json:"moved"`
}

// fitRequest resolves one block's span against its text.
type fitRequest struct {
	Document  *document.Document `json:"document"`
	Block     string             `json:"block"`
	Syllables bool               `json:"syllables"`
}

// fitResponse carries the resolved span and the updated document.
type fitResponse struct {
	Document *document.Document `json:"document"`
	Span     int                `json:"span"`
	Lines    int                `json:"lines"`
	Applied  bool               `json:"applied"`
}

// listResponse is the document listing.
type listResponse struct {
	Documents []store.Info `json:"documents"`
	Count     int          `json:"count"`
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleGrid derives a grid from the posted options and returns the full
// parameter summary.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(r, &opts); err != nil {
		respondError(w, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		respondError(w, err)
		return
	}

	grid, err := geometry.Derive(opts.Params())
	if err != nil {
		respondError(w, err)
		return
	}
	system := typography.Scale(grid.ScaleFactor, grid.BaselineUnit, string(grid.Format))
	respondJSON(w, http.StatusOK, gridio.BuildSummary(grid, system))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Document == nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "plan request carries no document"))
		return
	}

	moved, err := s.sessionRunner(r).Reflow(r.Context(), req.Document, req.Grid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, planResponse{Document: req.Document, Moved: moved})
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Document == nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "fit request carries no document"))
		return
	}
	if req.Block == "" {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "fit request names no block"))
		return
	}

	res, applied, err := s.sessionRunner(r).Fit(r.Context(), req.Document, req.Block, req.Syllables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fitResponse{
		Document: req.Document,
		Span:     res.Span,
		Lines:    res.Lines,
		Applied:  applied,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	st, err := s.documentStore()
	if err != nil {
		respondError(w, err)
		return
	}
	infos, err := st.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Documents: infos, Count: len(infos)})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	st, err := s.documentStore()
	if err != nil {
		respondError(w, err)
		return
	}

	var doc document.Document
	if err := decodeJSON(r, &doc); err != nil {
		respondError(w, err)
		return
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := st.Put(r.Context(), &doc); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, &doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	st, err := s.documentStore()
	if err != nil {
		respondError(w, err)
		return
	}
	doc, err := st.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// handlePreviewDocument renders a stored document's placed blocks over
// its grid and returns the sheet as SVG.
func (s *Server) handlePreviewDocument(w http.ResponseWriter, r *http.Request) {
	st, err := s.documentStore()
	if err != nil {
		respondError(w, err)
		return
	}
	doc, err := st.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.PreviewSheet(doc))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	st, err := s.documentStore()
	if err != nil {
		respondError(w, err)
		return
	}
	if err := st.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// documentStore returns the configured store or a coded error when the
// server runs without one.
func (s *Server) documentStore() (store.Store, error) {
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "no document store configured")
	}
	return s.store, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	respondJSON(w, statusFor(code), errorBody{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

// statusFor maps error codes onto HTTP status codes. Unknown codes are
// internal errors.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidOrientation, errors.ErrCodeInvalidDimensions,
		errors.ErrCodeInvalidMargin, errors.ErrCodeInvalidBaseline,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDocumentNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCanceled:
		return http.StatusConflict
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
