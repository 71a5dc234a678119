package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/conetree/pkg/cache"
	cterrors "github.com/matzehuels/conetree/pkg/errors"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/observability"
	"github.com/matzehuels/conetree/pkg/pipeline"
	"github.com/matzehuels/conetree/pkg/session"
)

// maxBodyBytes caps request bodies. Inline documents can be large but
// not unbounded.
const maxBodyBytes = 8 << 20

// renderResponse is the body of POST /api/v1/render.
type renderResponse struct {
	TreeHash  string            `json:"tree_hash"`
	NodeCount int               `json:"node_count"`
	ConeCount int               `json:"cone_count"`
	Cache     cacheInfo         `json:"cache"`
	Artifacts map[string][]byte `json:"artifacts"` // base64 per format
}

type cacheInfo struct {
	ParseHit  bool `json:"parse_hit"`
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// layoutResponse is the body of POST /api/v1/layout.
type layoutResponse struct {
	TreeHash string        `json:"tree_hash"`
	Layout   treeio.Layout `json:"layout"`
}

// sessionRequest is the body of POST and PUT on /api/v1/sessions.
type sessionRequest struct {
	Document string        `json:"document,omitempty"`
	DocHash  string        `json:"doc_hash,omitempty"`
	State    session.State `json:"state"`
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender runs the full pipeline and returns all rendered
// artifacts, base64-encoded per format.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		TreeHash:  result.TreeHash,
		NodeCount: result.Stats.NodeCount,
		ConeCount: result.Stats.ConeCount,
		Cache: cacheInfo{
			ParseHit:  result.CacheInfo.ParseHit,
			LayoutHit: result.CacheInfo.LayoutHit,
			RenderHit: result.CacheInfo.RenderHit,
		},
		Artifacts: result.Artifacts,
	})
}

// handleLayout parses the document and returns the computed layout
// without rendering.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	tree, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.GenerateLayout(r.Context(), tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	hash := ""
	if err := treeio.WriteTree(tree, &buf); err == nil {
		hash = cache.Hash(buf.Bytes())
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		TreeHash: hash,
		Layout:   l,
	})
}

// handleSessionCreate stores a new session and returns it with its
// generated ID.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	sess := session.New(req.Document, req.DocHash, req.State, s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Viewer().OnSessionCreated(r.Context(), sess.ID)
	s.logger.Info("session created", "id", sess.ID)

	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := cterrors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Viewer().OnSessionRestored(r.Context(), sess.ID)

	writeJSON(w, http.StatusOK, sess)
}

// handleSessionPut updates an existing session's state. The session
// keeps its creation time and gets a fresh expiry.
func (s *Server) handleSessionPut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := cterrors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req sessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.State = req.State
	if req.Document != "" {
		sess.Document = req.Document
	}
	if req.DocHash != "" {
		sess.DocHash = req.DocHash
	}
	if s.sessionTTL > 0 {
		sess.ExpiresAt = time.Now().Add(s.sessionTTL)
	}
	sess.Touch()

	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := cterrors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeOptions reads pipeline options from the request body. API
// callers never pass a local document path; only URLs and inline
// content are accepted.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	if !s.decodeBody(w, r, &opts) {
		return opts, false
	}
	if opts.Document != "" {
		if err := cterrors.ValidateURL(opts.Document); err != nil {
			s.writeError(w, r, err)
			return opts, false
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, cterrors.Wrap(cterrors.ErrCodeInvalidInput, err, "%s", err.Error()))
		return opts, false
	}
	return opts, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, cterrors.Wrap(cterrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// writeError maps err to an HTTP status and JSON body. Uncoded sentinel
// errors from the domain packages are given their code here, at the one
// place every handler funnels through.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if cterrors.GetCode(err) == "" {
		switch {
		case errors.Is(err, session.ErrNotFound):
			err = cterrors.Wrap(cterrors.ErrCodeSessionNotFound, err, "session not found")
		case errors.Is(err, mindmap.ErrEmptyTree):
			err = cterrors.Wrap(cterrors.ErrCodeEmptyTree, err, "mind map has no root node")
		case errors.Is(err, mindmap.ErrDocumentLoad):
			err = cterrors.Wrap(cterrors.ErrCodeDocumentLoad, err, "cannot load mind map document")
		case errors.Is(err, mindmap.ErrUnsupportedFormat):
			err = cterrors.Wrap(cterrors.ErrCodeInvalidDocument, err, "unsupported document format")
		}
	}

	status := cterrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{
		Error: cterrors.UserMessage(err),
		Code:  string(cterrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
