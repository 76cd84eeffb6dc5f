package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func fromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}
}

// BuildRequest overrides parts of the configured growth and terrain
// settings for one network. Omitted fields keep the configured values.
type BuildRequest struct {
	Seed         *int64   `json:"seed,omitempty"`
	Iterations   *int     `json:"iterations,omitempty"`
	Start        *Point   `json:"start,omitempty"`
	BranchLength *float64 `json:"branchLength,omitempty"`
	TerrainSeed  *int64   `json:"terrainSeed,omitempty"`
}

type BuildResponse struct {
	Success bool          `json:"success"`
	ID      string        `json:"id"`
	Seed    int64         `json:"seed"`
	Stats   network.Stats `json:"stats"`
	Growth  growth.Stats  `json:"growth"`
	Elapsed string        `json:"elapsed"`
}

type RouteRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	// HighwayFactor scales highway edge costs; 0 means no preference.
	HighwayFactor float64 `json:"highwayFactor,omitempty"`
}

type RouteResponse struct {
	Path    []Point `json:"path"`
	Nodes   []int   `json:"nodes"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	// Length is the geometric length of the path; Cost is the weighted
	// routing cost, which differs from Length when HighwayFactor is set.
	Length float64 `json:"length,omitempty"`
	Cost   float64 `json:"cost,omitempty"`
}

type networkSummary struct {
	ID      string        `json:"id"`
	Seed    int64         `json:"seed"`
	Created time.Time     `json:"created"`
	Stats   network.Stats `json:"stats"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// lookup resolves the {id} URL parameter, writing a 404 when it is unknown
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := chi.URLParam(r, "id")
	e, ok := s.store.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("network %q not found", id))
		return nil, false
	}
	return e, true
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"networks": s.store.len(),
	})
}

// GET /networks
func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	entries := s.store.list()
	out := make([]networkSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, networkSummary{
			ID:      e.ID,
			Seed:    e.Seed,
			Created: e.Created,
			Stats:   e.Network.Stats(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"networks": out,
	})
}

// POST /networks - grow a network and keep it in memory
func (s *Server) handleBuildNetwork(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid build request", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	growthCfg := s.cfg.Growth.Engine()
	noiseCfg := s.cfg.Terrain.Noise()
	if req.Seed != nil {
		growthCfg.Seed = *req.Seed
	}
	if req.Iterations != nil {
		growthCfg.Iterations = *req.Iterations
	}
	if req.Start != nil {
		growthCfg.Start = orb.Point{req.Start.X, req.Start.Y}
	}
	if req.BranchLength != nil {
		growthCfg.BranchLength = *req.BranchLength
	}
	if req.TerrainSeed != nil {
		noiseCfg.Seed = *req.TerrainSeed
	}

	if limit := s.cfg.Server.MaxIterations; limit > 0 && growthCfg.Iterations > limit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("iterations %d exceed the limit of %d", growthCfg.Iterations, limit))
		return
	}

	field, err := s.newTerrain(noiseCfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	builder, err := growth.NewBuilder(growthCfg,
		growth.WithLogger(s.logger),
		growth.WithSeaLevel(s.cfg.Growth.SeaLevel))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("growing network", "seed", growthCfg.Seed, "iterations", growthCfg.Iterations)
	res, err := builder.Grow(r.Context(), field)
	switch {
	case errors.Is(err, growth.ErrStartOffLand):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Error("growth failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	e := s.store.add(res.Network, res.Stats, growthCfg.Seed)
	s.logger.Info("network stored", "id", e.ID, "nodes", res.Network.NodeCount(), "edges", res.Network.EdgeCount())

	writeJSON(w, http.StatusCreated, BuildResponse{
		Success: true,
		ID:      e.ID,
		Seed:    e.Seed,
		Stats:   res.Network.Stats(),
		Growth:  res.Stats,
		Elapsed: res.Elapsed.Round(time.Millisecond).String(),
	})
}

// GET /networks/{id} - full snapshot
func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      e.ID,
		"seed":    e.Seed,
		"growth":  e.Stats,
		"network": e.Network,
	})
}

// GET /networks/{id}/lines - edges as line strings for visualization
func (s *Server) handleGetLines(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	lines := e.Network.LineStrings()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"numNodes": e.Network.NodeCount(),
		"numEdges": len(lines),
	})
}

// GET /networks/{id}/geojson
func (s *Server) handleGetGeoJSON(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	data, err := e.Network.GeoJSON().MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// POST /networks/{id}/route - snap both points to the network and route
// between them
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HighwayFactor < 0 {
		writeError(w, http.StatusBadRequest, "highwayFactor cannot be negative")
		return
	}

	net := e.Network
	from, _ := net.NearestNode(orb.Point{req.Start.X, req.Start.Y})
	to, _ := net.NearestNode(orb.Point{req.End.X, req.End.Y})
	if from < 0 || to < 0 {
		writeError(w, http.StatusBadRequest, "network has no nodes")
		return
	}

	nodes, cost, err := net.ShortestPath(from, to, network.RouteOptions{HighwayFactor: req.HighwayFactor})
	if errors.Is(err, network.ErrNoRoute) {
		writeJSON(w, http.StatusOK, RouteResponse{
			Success: false,
			Message: fmt.Sprintf("no route between nodes %d and %d", from, to),
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	path := make([]Point, len(nodes))
	for i, n := range nodes {
		path[i] = fromOrb(net.Site(n))
	}
	s.logger.Debug("route found", "id", e.ID, "from", from, "to", to, "waypoints", len(path))

	writeJSON(w, http.StatusOK, RouteResponse{
		Path:    path,
		Nodes:   nodes,
		Success: true,
		Length:  net.PathLength(nodes),
		Cost:    cost,
	})
}
