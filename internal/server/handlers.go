package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lineascope/lineascope/pkg/buildinfo"
	apperrors "github.com/lineascope/lineascope/pkg/errors"
	"github.com/lineascope/lineascope/pkg/extract"
	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/pipeline"
	"github.com/lineascope/lineascope/pkg/store"
)

// renderRequest is the request body for layout and render endpoints.
type renderRequest struct {
	SQL     string          `json:"sql,omitempty"`
	Dialect string          `json:"dialect,omitempty"`
	Model   string          `json:"model,omitempty"`
	Graph   json.RawMessage `json:"graph,omitempty"`
	Width   float64         `json:"width,omitempty"`
	Height  float64         `json:"height,omitempty"`
	Theme   string          `json:"theme,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// createDocumentRequest is the request body for document creation.
type createDocumentRequest struct {
	Name    string          `json:"name"`
	SQL     string          `json:"sql,omitempty"`
	Dialect string          `json:"dialect,omitempty"`
	Model   string          `json:"model,omitempty"`
	Graph   json.RawMessage `json:"graph,omitempty"`
}

// documentSummary is a document without its graph payload.
type documentSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}

	opts := s.pipelineOptions(req)
	if err := opts.ValidateForIngest(); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "%s", err))
		return
	}
	g, err := s.runner.Ingest(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	l := s.runner.ComputeLayout(r.Context(), g, opts)
	writeJSON(w, http.StatusOK, pipeline.Snapshot(l))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "unsupported format"))
		return
	}

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}

	opts := s.pipelineOptions(req)
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "%s", err))
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeArtifact(w, format, result.Artifacts[format])
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "document storage is not configured"))
		return
	}

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}
	if req.Name == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "name is required"))
		return
	}

	opts := s.pipelineOptions(renderRequest{
		SQL:     req.SQL,
		Dialect: req.Dialect,
		Model:   req.Model,
		Graph:   req.Graph,
	})
	if err := opts.ValidateForIngest(); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "%s", err))
		return
	}
	g, err := s.runner.Ingest(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := store.NewDocument(req.Name, req.SQL, g)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "document storage is not configured"))
		return
	}

	docs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	summaries := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, summarize(d))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "document storage is not configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDocumentLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := doc.DecodeGraph()
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "stored graph is unreadable"))
		return
	}

	opts := pipeline.Options{
		Width:  queryFloat(r, "width"),
		Height: queryFloat(r, "height"),
		Logger: s.logger,
	}
	l := s.runner.ComputeLayout(r.Context(), g, opts)
	writeJSON(w, http.StatusOK, pipeline.Snapshot(l))
}

func (s *Server) handleDocumentRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "unsupported format"))
		return
	}

	doc, err := s.document(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := doc.DecodeGraph()
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "stored graph is unreadable"))
		return
	}
	graphData, err := lineage.MarshalGraph(g)
	if err != nil {
		writeError(w, err)
		return
	}

	theme := r.URL.Query().Get("theme")
	if theme == "" {
		theme = s.theme
	}
	opts := pipeline.Options{
		GraphJSON: graphData,
		Width:     queryFloat(r, "width"),
		Height:    queryFloat(r, "height"),
		Formats:   []string{format},
		Theme:     theme,
		Logger:    s.logger,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeArtifact(w, format, result.Artifacts[format])
}

// document loads the document named by the {id} route parameter.
func (s *Server) document(r *http.Request) (*store.Document, error) {
	if s.store == nil {
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "document storage is not configured")
	}
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// pipelineOptions maps a render request onto pipeline options, wiring in
// the server's extractor and theme default.
func (s *Server) pipelineOptions(req renderRequest) pipeline.Options {
	theme := req.Theme
	if theme == "" {
		theme = s.theme
	}
	return pipeline.Options{
		SQL:       req.SQL,
		Dialect:   req.Dialect,
		Model:     req.Model,
		GraphJSON: req.Graph,
		Width:     req.Width,
		Height:    req.Height,
		Theme:     theme,
		Refresh:   req.Refresh,
		Logger:    s.logger,
		Extractor: s.extractor,
	}
}

func summarize(d *store.Document) documentSummary {
	return documentSummary{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt.Format(timeFormat),
		UpdatedAt: d.UpdatedAt.Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func queryFloat(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0
	}
	return v
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application error codes onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var rateLimited *apperrors.RateLimitedError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, extract.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &rateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, extract.ErrNetwork) && apperrors.GetCode(err) == "":
		status = http.StatusBadGateway
	default:
		switch apperrors.GetCode(err) {
		case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidGraph,
			apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidPath:
			status = http.StatusBadRequest
		case apperrors.ErrCodeNotFound, apperrors.ErrCodeGraphNotFound,
			apperrors.ErrCodeDocumentNotFound, apperrors.ErrCodeFileNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
			status = http.StatusBadGateway
		case apperrors.ErrCodeUnsupported:
			status = http.StatusNotImplemented
		}
	}

	writeJSON(w, status, map[string]string{"error": apperrors.UserMessage(err)})
}
