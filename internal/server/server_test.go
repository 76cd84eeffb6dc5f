package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/TadaTeruki/transport-generation-experiment/internal/config"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/terrain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Growth.Iterations = 150
	cfg.Growth.BranchLength = 2
	cfg.Server.MaxIterations = 1000
	cfg.Server.MaxNetworks = 2
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	s := New(cfg, nil)
	// a gentle slope over the configured domain keeps the tests independent
	// of the noise field
	s.newTerrain = func(nc terrain.NoiseConfig) (terrain.Terrain, error) {
		if err := nc.Validate(); err != nil {
			return nil, err
		}
		domain := nc.Domain
		return terrain.Func(func(x, y float64) (float64, bool) {
			if !domain.Contains(orb.Point{x, y}) {
				return 0, false
			}
			return 1 + x/100, true
		}), nil
	}
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func buildNetwork(t *testing.T, h http.Handler, body string) BuildResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/networks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /networks = %d: %s", rec.Code, rec.Body.String())
	}
	var resp BuildResponse
	decode(t, rec, &resp)
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"] != "ready" {
		t.Errorf("status = %v", body["status"])
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodOptions, "/networks", "")
	if rec.Code != http.StatusOK {
		t.Errorf("OPTIONS = %d, want 200", rec.Code)
	}
}

func TestBuildAndFetchNetwork(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	resp := buildNetwork(t, h, `{"seed": 5, "iterations": 120}`)
	if !resp.Success || resp.ID == "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Seed != 5 {
		t.Errorf("Seed = %d, want 5", resp.Seed)
	}
	if resp.Growth.Iterations > 120 {
		t.Errorf("Iterations = %d > 120", resp.Growth.Iterations)
	}
	if resp.Stats.Nodes < 2 {
		t.Errorf("Nodes = %d, expected growth", resp.Stats.Nodes)
	}

	t.Run("Snapshot", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/networks/"+resp.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body struct {
			ID      string          `json:"id"`
			Network json.RawMessage `json:"network"`
		}
		decode(t, rec, &body)
		var net network.Network
		if err := json.Unmarshal(body.Network, &net); err != nil {
			t.Fatalf("network: %v", err)
		}
		if net.NodeCount() != resp.Stats.Nodes || net.EdgeCount() != resp.Stats.Edges {
			t.Errorf("snapshot %d/%d, build said %d/%d",
				net.NodeCount(), net.EdgeCount(), resp.Stats.Nodes, resp.Stats.Edges)
		}
	})

	t.Run("Lines", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/networks/"+resp.ID+"/lines", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body struct {
			Lines    [][][2]float64 `json:"lines"`
			NumEdges int            `json:"numEdges"`
		}
		decode(t, rec, &body)
		if len(body.Lines) != resp.Stats.Edges || body.NumEdges != resp.Stats.Edges {
			t.Errorf("lines = %d, edges = %d", len(body.Lines), resp.Stats.Edges)
		}
	})

	t.Run("GeoJSON", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/networks/"+resp.ID+"/geojson", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/geo+json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var fc struct {
			Type     string            `json:"type"`
			Features []json.RawMessage `json:"features"`
		}
		decode(t, rec, &fc)
		if fc.Type != "FeatureCollection" {
			t.Errorf("type = %q", fc.Type)
		}
		if len(fc.Features) != resp.Stats.Edges+resp.Stats.Nodes {
			t.Errorf("features = %d, want %d", len(fc.Features), resp.Stats.Edges+resp.Stats.Nodes)
		}
	})

	t.Run("Route", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/networks/"+resp.ID+"/route",
			`{"start":{"x":50,"y":50},"end":{"x":50,"y":50}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var route RouteResponse
		decode(t, rec, &route)
		if !route.Success || len(route.Path) != 1 {
			t.Errorf("route = %+v", route)
		}
		if route.Path[0] != (Point{X: 50, Y: 50}) {
			t.Errorf("snapped start = %+v, want the start site", route.Path[0])
		}
	})

	t.Run("List", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/networks", "")
		var body struct {
			Networks []networkSummary `json:"networks"`
		}
		decode(t, rec, &body)
		if len(body.Networks) != 1 || body.Networks[0].ID != resp.ID {
			t.Errorf("networks = %+v", body.Networks)
		}
	})
}

func TestRouteAcrossNetwork(t *testing.T) {
	s := newTestServer(t)

	// a hand-made line 0 - 1 - 2 with a detached node 3
	reg := network.NewRegistry()
	reg.Add(orb.Point{0, 0}, 1)
	reg.Add(orb.Point{10, 0}, 1)
	reg.Add(orb.Point{20, 0}, 1)
	reg.Add(orb.Point{20, 20}, 1)
	nb := network.NewBuilder(reg)
	nb.AddEdge(0, 1, network.EdgeAttr{Highway: true})
	nb.AddEdge(1, 2, network.EdgeAttr{})
	id := s.Add(nb.Network(), growth.Stats{}, 0)

	rec := do(t, s.Handler(), http.MethodPost, "/networks/"+id+"/route",
		`{"start":{"x":-1,"y":1},"end":{"x":19,"y":-2}}`)
	var route RouteResponse
	decode(t, rec, &route)
	if !route.Success {
		t.Fatalf("route = %+v", route)
	}
	want := []int{0, 1, 2}
	if len(route.Nodes) != len(want) {
		t.Fatalf("nodes = %v, want %v", route.Nodes, want)
	}
	for i := range want {
		if route.Nodes[i] != want[i] {
			t.Fatalf("nodes = %v, want %v", route.Nodes, want)
		}
	}
	if route.Length != 20 || route.Cost != 20 {
		t.Errorf("length, cost = %v, %v, want 20, 20", route.Length, route.Cost)
	}

	// halving the highway weight changes the cost but not the distance
	rec = do(t, s.Handler(), http.MethodPost, "/networks/"+id+"/route",
		`{"start":{"x":-1,"y":1},"end":{"x":19,"y":-2},"highwayFactor":0.5}`)
	route = RouteResponse{}
	decode(t, rec, &route)
	if route.Length != 20 || route.Cost != 15 {
		t.Errorf("weighted length, cost = %v, %v, want 20, 15", route.Length, route.Cost)
	}

	rec = do(t, s.Handler(), http.MethodPost, "/networks/"+id+"/route",
		`{"start":{"x":0,"y":0},"end":{"x":21,"y":21}}`)
	route = RouteResponse{}
	decode(t, rec, &route)
	if rec.Code != http.StatusOK || route.Success {
		t.Errorf("disconnected route = %d %+v", rec.Code, route)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"MalformedBody", `{"seed":`, http.StatusBadRequest},
		{"TooManyIterations", `{"iterations": 5000}`, http.StatusBadRequest},
		{"InvalidBranchLength", `{"branchLength": -1}`, http.StatusBadRequest},
		{"StartOffTerrain", `{"start": {"x": -10, "y": -10}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s.Handler(), http.MethodPost, "/networks", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestEmptyBuildBodyUsesConfig(t *testing.T) {
	s := newTestServer(t)
	resp := buildNetwork(t, s.Handler(), "")
	if resp.Seed != s.cfg.Growth.Seed {
		t.Errorf("Seed = %d, want %d", resp.Seed, s.cfg.Growth.Seed)
	}
}

func TestUnknownNetwork(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/networks/nope", "/networks/nope/lines", "/networks/nope/geojson"} {
		rec := do(t, s.Handler(), http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	first := buildNetwork(t, h, `{"iterations": 10}`)
	buildNetwork(t, h, `{"iterations": 10}`)
	buildNetwork(t, h, `{"iterations": 10}`)

	if n := s.store.len(); n != 2 {
		t.Errorf("stored = %d, want 2", n)
	}
	if rec := do(t, h, http.MethodGet, "/networks/"+first.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("oldest network still served: %d", rec.Code)
	}
}
