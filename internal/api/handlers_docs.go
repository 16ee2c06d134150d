package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdwiki/internal/hunk"
	"github.com/dgallion1/mdwiki/internal/pipeline"
	"github.com/dgallion1/mdwiki/internal/store"
)

const defaultListLimit = 200

type documentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// documentResponse is a stored document with its hunks.
type documentResponse struct {
	*store.Document
	Hunks []string `json:"hunks"`
}

// editRequest is one hunk list edit. Index is the target hunk; To is the
// destination for "move".
type editRequest struct {
	Op    string `json:"op"`
	Index int    `json:"index"`
	To    int    `json:"to"`
	Text  string `json:"text"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	docs, err := s.docs.ListDocuments(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}

	summaries := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, map[string]any{
			"id":         d.ID,
			"title":      d.Title,
			"updated_at": d.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": summaries})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	s.saveDocument(w, r, pipeline.NewID(), req, http.StatusCreated)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	var req documentRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	s.saveDocument(w, r, docID, req, http.StatusOK)
}

// saveDocument stores content normalised to its hunks joined by blank lines.
func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request, id string, req documentRequest, code int) {
	list := hunk.NewList(req.Content)
	doc := newDocument(id, req.Title, list)
	if err := s.docs.PutDocument(r.Context(), doc); err != nil {
		s.storeError(w, "save document", err)
		return
	}
	writeJSON(w, code, documentResponse{Document: doc, Hunks: list.Hunks()})
}

func newDocument(id, title string, list *hunk.List) *store.Document {
	content := list.Content()
	return &store.Document{
		ID:          id,
		Title:       title,
		Content:     content,
		ContentHash: pipeline.ContentHashHex([]byte(content)),
		UpdatedAt:   time.Now().UTC(),
	}
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	doc, err := s.docs.GetDocument(r.Context(), docID)
	if err != nil {
		s.storeError(w, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Document: doc, Hunks: hunk.Segment(doc.Content)})
}

func (s *Server) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	doc, err := s.docs.GetDocument(r.Context(), docID)
	if err != nil {
		s.storeError(w, "get document", err)
		return
	}
	res, err := s.renderer.Render(doc.Content)
	if err != nil {
		s.log.Error("render failed", "doc_id", docID, "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    doc.ID,
		"title": doc.Title,
		"html":  res.HTML,
		"toc":   res.TOC,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	if err := s.docs.DeleteDocument(r.Context(), docID); err != nil {
		s.storeError(w, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEditHunks applies one edit to a stored document's hunk list and
// saves the result.
func (s *Server) handleEditHunks(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	var req editRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}

	doc, err := s.docs.GetDocument(r.Context(), docID)
	if err != nil {
		s.storeError(w, "get document", err)
		return
	}

	list := hunk.NewList(doc.Content)
	added := 0
	switch req.Op {
	case "insert":
		err = list.InsertAfter(req.Index, req.Text)
	case "delete":
		err = list.Delete(req.Index)
	case "replace":
		err = list.Replace(req.Index, req.Text)
	case "move":
		err = list.Move(req.Index, req.To)
	case "commit":
		added = list.Commit(req.Text)
	default:
		jsonError(w, "unknown op: "+req.Op, http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	updated := newDocument(doc.ID, doc.Title, list)
	if err := s.docs.PutDocument(r.Context(), updated); err != nil {
		s.storeError(w, "save document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": documentResponse{Document: updated, Hunks: list.Hunks()},
		"added":    added,
	})
}

func documentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	docID := chi.URLParam(r, "docID")
	if !pipeline.IsID(docID) {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return "", false
	}
	return docID, true
}

func (s *Server) storeError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	s.log.Error(action+" failed", "error", err)
	code := http.StatusBadGateway
	if store.IsRetryable(err) {
		code = http.StatusServiceUnavailable
	}
	jsonError(w, action+" failed", code)
}
