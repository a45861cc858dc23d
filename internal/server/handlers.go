package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/coauthornet/pkg/buildinfo"
	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/force"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
	"github.com/matzehuels/coauthornet/pkg/render"
	"github.com/matzehuels/coauthornet/pkg/sim"
	"github.com/matzehuels/coauthornet/pkg/source"
)

// CreateRequest starts a session. Exactly one of Source and Payload is set.
type CreateRequest struct {
	Source  string         `json:"source,omitempty"`
	Payload *graph.Payload `json:"payload,omitempty"`
	Params  *force.Params  `json:"params,omitempty"`
	Seed    uint64         `json:"seed,omitempty"`
	// Warm restores the graph's last cached layout.
	Warm bool `json:"warm,omitempty"`
}

// CreateResponse describes a new session.
type CreateResponse struct {
	ID        string `json:"id"`
	GraphHash string `json:"graph_hash"`
	Nodes     int    `json:"nodes"`
	Links     int    `json:"links"`
	Warm      bool   `json:"warm"`
}

// StatusResponse is the simulation state after an event.
type StatusResponse struct {
	Tick      int                 `json:"tick"`
	Alpha     float64             `json:"alpha"`
	State     sim.State           `json:"state"`
	Params    force.Params        `json:"params"`
	View      interact.Transform  `json:"view"`
	Dragging  string              `json:"dragging,omitempty"`
	Highlight *interact.Highlight `json:"highlight,omitempty"`
}

// NodeResponse is one author with its live position.
type NodeResponse struct {
	graph.Metadata
	Category string   `json:"category"`
	Degree   int      `json:"degree"`
	Radius   float64  `json:"radius"`
	Color    string   `json:"color"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Fixed    bool     `json:"fixed"`
	Tooltip  []string `json:"tooltip"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
		"build":    buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.buildGraph(r, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.template
	opts.Sim = append([]sim.Option(nil), opts.Sim...)
	if req.Params != nil {
		opts.Sim = append(opts.Sim, sim.WithParams(*req.Params))
	}
	if req.Seed != 0 {
		opts.Sim = append(opts.Sim, sim.WithSeed(req.Seed))
	}
	resp := CreateResponse{GraphHash: g.Hash(), Nodes: g.NodeCount(), Links: g.LinkCount()}
	if req.Warm {
		if snap, ok := s.runner.LatestSnapshot(r.Context(), g); ok {
			opts.Warm = &snap
			resp.Warm = true
		}
	}

	sess, err := s.store.Create(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.ID = sess.ID
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) buildGraph(r *http.Request, req CreateRequest) (*graph.Graph, error) {
	switch {
	case req.Payload != nil && req.Source != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "give either source or payload, not both")
	case req.Payload != nil:
		g, err := graph.Build(*req.Payload, s.graphOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedGraph, err, "inline payload")
		}
		return g, nil
	case req.Source == "":
		return nil, errors.New(errors.ErrCodeInvalidSource, "source or payload is required")
	case !s.allowLocal && !source.IsRemote(req.Source):
		return nil, errors.New(errors.ErrCodeInvalidSource, "only http(s) and mongodb sources are allowed")
	}
	return s.runner.Load(r.Context(), pipeline.Options{
		Source:     req.Source,
		SourceOpts: s.sourceOpts,
		GraphOpts:  s.graphOpts,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if snap, err := sess.Snapshot(r.Context()); err == nil {
		if err := s.runner.StoreLatest(r.Context(), snap, 0); err != nil {
			s.logger.Warn("cache session layout", "session", id, "err", err)
		}
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFrame renders the current frame under the session's view and
// highlight. Query parameters: format (json|svg), width, height, fit.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		frame sim.Frame
		view  interact.Transform
		hl    *interact.Highlight
	)
	err = sess.Do(r.Context(), func(sm *sim.Simulation, c *interact.Controller) {
		frame, view, hl = sm.Frame(), c.View(), c.Highlight()
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := []render.Option{render.WithGraph(sess.Graph()), render.WithView(view), render.WithHighlight(hl)}
	width, err := sizeParam(q, "width")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	height, err := sizeParam(q, "height")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts = append(opts, render.WithSize(width, height))
	if q.Get("fit") == "true" {
		opts = append(opts, render.WithFit())
	}

	switch format := q.Get("format"); format {
	case "", pipeline.FormatJSON:
		data, err := render.RenderJSON(frame, opts...)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(render.RenderSVG(frame, opts...))
	default:
		s.writeError(w, r, errors.ValidateFormat(format, []string{pipeline.FormatJSON, pipeline.FormatSVG}))
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var raw json.RawMessage
	if err := s.decode(w, r, &raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp StatusResponse
	var decodeErr error
	err = sess.Do(r.Context(), func(sm *sim.Simulation, c *interact.Controller) {
		e, err := interact.DecodeEvent(raw, c.Config())
		if err != nil {
			decodeErr = err
			return
		}
		c.Dispatch(e)
		resp = StatusResponse{
			Tick:      sm.Tick(),
			Alpha:     sm.Alpha(),
			State:     sm.State(),
			Params:    sm.Params(),
			View:      c.View(),
			Highlight: c.Highlight(),
		}
		resp.Dragging, _ = c.Dragging()
	})
	if err == nil {
		err = decodeErr
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	n, ok := sess.Graph().Lookup(nodeID)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "no author %q", nodeID))
		return
	}
	resp := NodeResponse{
		Metadata: n.Meta,
		Category: n.Category,
		Degree:   n.Degree,
		Radius:   n.Radius,
		Color:    n.Color,
		Tooltip:  render.Tooltip(n.Meta),
	}
	if f := sess.Latest(); n.Index < len(f.Nodes) {
		nf := f.Nodes[n.Index]
		resp.X, resp.Y, resp.Fixed = nf.X, nf.Y, nf.Fixed
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body no larger than the configured limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if _, ok := err.(*http.MaxBytesError); ok {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// sizeParam reads an optional canvas dimension. Absent is zero, which keeps
// the renderer's default.
func sizeParam(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !(f > 0) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive finite number, got %q", name, v)
	}
	return f, nil
}
