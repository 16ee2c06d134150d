package api

import (
	"net/http"
	"time"

	"github.com/dgallion1/mdwiki/internal/hunk"
	"github.com/dgallion1/mdwiki/internal/render"
	"github.com/dgallion1/mdwiki/internal/toc"
)

// opSegment is the stats operation name for hunk segmentation requests.
const opSegment = "segment"

type contentRequest struct {
	Content string `json:"content"`
}

type hunksRequest struct {
	Hunks []string `json:"hunks"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	res, err := s.renderer.Render(req.Content)
	if err != nil {
		s.log.Error("render failed", "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	entries := toc.Extract(req.Content)
	outline := toc.Outline(entries)
	if outline == nil {
		outline = []*toc.Node{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"toc":     entries,
		"outline": outline,
	})
}

func (s *Server) handleStyleCSS(w http.ResponseWriter, r *http.Request) {
	style := r.URL.Query().Get("style")
	if style == "" {
		style = s.cfg.Render.HighlightStyle
	}
	css, err := render.StyleCSS(style)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write([]byte(css))
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	start := time.Now()
	hunks := hunk.Segment(req.Content)
	if s.stats != nil {
		s.stats.Since(opSegment, start)
	}
	kinds := make([]hunk.Kind, len(hunks))
	for i, h := range hunks {
		kinds[i] = hunk.Classify(h)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hunks": hunks,
		"kinds": kinds,
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req hunksRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": hunk.Join(req.Hunks)})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req hunksRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	html, err := s.renderer.RenderHunks(req.Hunks)
	if err != nil {
		s.log.Error("preview failed", "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": html})
}
