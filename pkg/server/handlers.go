package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/proctex/pkg/buildinfo"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
	"github.com/matzehuels/proctex/pkg/node/library"
	"github.com/matzehuels/proctex/pkg/pipeline"
	"github.com/matzehuels/proctex/pkg/preset"
	"github.com/matzehuels/proctex/pkg/render"
	"github.com/matzehuels/proctex/pkg/render/nodelink"
	"github.com/matzehuels/proctex/pkg/session"
)

// =============================================================================
// Presets
// =============================================================================

type presetView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.ShortCommit(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := preset.Names()
	views := make([]presetView, 0, len(names))
	for _, name := range names {
		desc, _ := preset.Describe(name)
		views = append(views, presetView{Name: name, Description: desc})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleRenderPreset(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Preset = chi.URLParam(r, "preset")
	if err := queryInt64(r, "seed", &opts.Seed); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := queryFloat(r, "noise_scale", &opts.NoiseScale); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheState := "MISS"
	if res.CacheHit {
		cacheState = "HIT"
	}
	w.Header().Set("X-Cache", cacheState)
	writeArtifact(w, opts.Formats[0], res.Artifacts[opts.Formats[0]])
}

// renderOptions reads the size and encoding query parameters.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		Workers: s.workers,
		Timeout: s.timeout,
		Logger:  s.logger,
	}
	if err := queryUint32(r, "width", &opts.Width); err != nil {
		return opts, err
	}
	if err := queryUint32(r, "height", &opts.Height); err != nil {
		return opts, err
	}
	if err := queryInt(r, "scale", &opts.Scale); err != nil {
		return opts, err
	}
	if err := s.checkPixels(opts); err != nil {
		return opts, err
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := render.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	return opts, nil
}

// checkPixels rejects requests whose output exceeds the server's budget.
// Unset values count at their pipeline defaults.
func (s *Server) checkPixels(opts pipeline.Options) error {
	w, h, scale := int64(opts.Width), int64(opts.Height), int64(opts.Scale)
	if w == 0 {
		w = pipeline.DefaultWidth
	}
	if h == 0 {
		h = pipeline.DefaultHeight
	}
	if scale <= 0 {
		scale = pipeline.DefaultPixelScale
	}
	if w*h*scale*scale > s.maxPixels {
		return errors.New(errors.ErrCodeInvalidInput,
			"render of %dx%d at scale %d exceeds the server limit of %d pixels", w, h, scale, s.maxPixels)
	}
	return nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Sessions
// =============================================================================

type createSessionRequest struct {
	Preset     string  `json:"preset"`
	Seed       int64   `json:"seed"`
	NoiseScale float64 `json:"noise_scale"`
}

type nodeView struct {
	ID         generator.NodeID   `json:"id"`
	Name       string             `json:"name"`
	X          float64            `json:"x"`
	Y          float64            `json:"y"`
	Definition library.Definition `json:"definition"`
}

type sessionView struct {
	ID     string           `json:"id"`
	Preset string           `json:"preset,omitempty"`
	Nodes  []nodeView       `json:"nodes"`
	Links  []generator.Link `json:"links"`
}

func viewSession(sess *session.Session) sessionView {
	g := sess.Generator
	ids := g.Nodes()
	nodes := make([]nodeView, 0, len(ids))
	for _, id := range ids {
		n, _ := g.Node(id)
		info, _ := g.Info(id)
		nodes = append(nodes, nodeView{
			ID:         id,
			Name:       info.Name,
			X:          info.X,
			Y:          info.Y,
			Definition: library.Describe(n),
		})
	}
	return sessionView{
		ID:     sess.ID,
		Preset: sess.Preset,
		Nodes:  nodes,
		Links:  g.Links(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Preset == "" {
		req.Preset = preset.DefaultName
	}
	if req.NoiseScale == 0 {
		req.NoiseScale = pipeline.DefaultNoiseScale
	}

	g, err := preset.Build(req.Preset, preset.Params{Seed: req.Seed, Scale: req.NoiseScale},
		generator.WithWorkers(s.workers),
		generator.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(req.Preset, g, s.sessionTTL())
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "preset", req.Preset)
	writeJSON(w, http.StatusCreated, viewSession(sess))
}

func (s *Server) sessionTTL() time.Duration {
	if m, ok := s.sessions.(interface{ TTL() time.Duration }); ok {
		return m.TTL()
	}
	return session.DefaultTTL
}

// session loads the session named in the URL, writing the error response
// when it does not exist.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "session")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	dot := nodelink.ToDOT(sess.Generator, nodelink.Options{
		Detailed: r.URL.Query().Get("detailed") == "true",
	})

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := nodelink.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q (valid: dot, svg)", format))
	}
}

func (s *Server) handleRenderSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.RenderGenerator(r.Context(), sess.Generator, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, opts.Formats[0], res.Artifacts[opts.Formats[0]])
}

// =============================================================================
// Graph editing
// =============================================================================

type nodeRequest struct {
	library.Definition
	Name string `json:"name,omitempty"`
}

type idResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req nodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := library.FromDefinition(req.Definition)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g := sess.Generator
	id, err := g.AddNode(n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" {
		if err := g.RenameNode(id, req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	info, _ := g.Info(id)
	writeJSON(w, http.StatusCreated, idResponse{ID: int(id), Name: info.Name})
}

func (s *Server) handleSetNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "node")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req nodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := library.FromDefinition(req.Definition)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Generator.SetNode(generator.NodeID(id), n); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" {
		if err := sess.Generator.RenameNode(generator.NodeID(id), req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "node")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Generator.MoveNode(generator.NodeID(id), req.X, req.Y); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type linkRequest struct {
	From generator.NodeID `json:"from"`
	To   generator.NodeID `json:"to"`
	Name string           `json:"name"`
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g := sess.Generator
	id, err := g.AddLink(req.From, req.To, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	link, _ := g.Link(id)
	writeJSON(w, http.StatusCreated, idResponse{ID: int(id), Name: link.Name})
}

func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "link")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Generator.RemoveLink(generator.LinkID(id)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
