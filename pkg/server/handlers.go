package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rnagraph/pkg/buildinfo"
	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
	"github.com/matzehuels/rnagraph/pkg/pipeline"
	"github.com/matzehuels/rnagraph/pkg/store"
)

// BuildRequest is the body of POST /v1/graphs and POST /v1/loops.
type BuildRequest struct {
	Input  string `json:"input"`
	Format string `json:"format,omitempty"`
	Name   string `json:"name,omitempty"`
	Split  bool   `json:"split,omitempty"`
}

// RenderRequest is the body of POST /v1/render/{format}.
type RenderRequest struct {
	BuildRequest
	Detailed bool    `json:"detailed,omitempty"`
	Analysis bool    `json:"analysis,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

func (b BuildRequest) options() pipeline.Options {
	return pipeline.Options{
		Input:       []byte(b.Input),
		InputFormat: rnaio.Format(b.Format),
		Name:        b.Name,
		Split:       b.Split,
	}
}

// GraphResponse describes one stored graph.
type GraphResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Length     int             `json:"length"`
	DotBracket string          `json:"dotbracket"`
	Elements   string          `json:"elements"`
	Graph      json.RawMessage `json:"graph,omitempty"`
}

func graphResponse(doc *store.Document, g *bulge.Graph) (GraphResponse, error) {
	resp := GraphResponse{
		ID:         doc.ID,
		Name:       doc.Name,
		Length:     doc.Length,
		DotBracket: doc.DotBracket,
		Elements:   doc.Elements,
	}
	if g != nil {
		data, err := rnaio.Marshal(g, rnaio.FormatJSON)
		if err != nil {
			return resp, err
		}
		resp.Graph = data
	}
	return resp, nil
}

// LoopResponse is one classified loop.
type LoopResponse struct {
	Elements []string `json:"elements"`
	Class    string   `json:"class"`
}

// LoopsResponse lists the loops of one graph.
type LoopsResponse struct {
	Name          string         `json:"name"`
	Pseudoknotted bool           `json:"pseudoknotted"`
	Loops         []LoopResponse `json:"loops"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCreateGraphs(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := decodeBody(w, r, s.maxBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	gs, err := s.runner.Build(r.Context(), req.options())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]GraphResponse, 0, len(gs))
	for _, g := range gs {
		doc := store.NewDocument(g)
		if err := s.store.Put(r.Context(), doc); err != nil {
			writeError(w, r, err)
			return
		}
		resp, err := graphResponse(doc, g)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"graphs": out})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]GraphResponse, len(docs))
	for i, doc := range docs {
		out[i], _ = graphResponse(doc, nil)
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": out})
}

func (s *Server) loadGraph(r *http.Request) (*store.Document, *bulge.Graph, error) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, err
	}
	g, err := doc.Graph()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "stored graph %s is corrupt", doc.ID)
	}
	return doc, g, nil
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	doc, g, err := s.loadGraph(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := graphResponse(doc, g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderStored(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	_, g, err := s.loadGraph(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	artifacts, err := s.runner.Render(r.Context(), g, pipeline.Options{
		Formats:  []string{format},
		Detailed: q.Has("detailed"),
		Analysis: q.Has("analysis"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) handleLoops(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := decodeBody(w, r, s.maxBody, &req); err != nil {
		writeError(w, r, err)
		return
	}
	gs, err := s.runner.Build(r.Context(), req.options())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]LoopsResponse, 0, len(gs))
	for _, g := range gs {
		resp := LoopsResponse{Name: g.Name(), Pseudoknotted: g.IsPseudoknotted(), Loops: []LoopResponse{}}
		for _, loop := range g.Loops() {
			class, err := g.ClassifyLoop(loop)
			if err != nil {
				writeError(w, r, err)
				return
			}
			names := make([]string, len(loop))
			for i, id := range loop {
				names[i] = g.NameOf(id)
			}
			resp.Loops = append(resp.Loops, LoopResponse{Elements: names, Class: class.String()})
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": out})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	var req RenderRequest
	if err := decodeBody(w, r, s.maxBody, &req); err != nil {
		writeError(w, r, err)
		return
	}

	opts := req.options()
	opts.Formats = []string{format}
	opts.Detailed = req.Detailed
	opts.Analysis = req.Analysis
	opts.Scale = req.Scale
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(res.Outputs) != 1 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"render takes a single structure, input has %d", len(res.Outputs)))
		return
	}
	writeArtifact(w, format, res.Outputs[0].Artifacts[format])
}
