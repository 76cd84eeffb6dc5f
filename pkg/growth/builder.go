package growth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/geometry"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/pathindex"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/terrain"
)

// ErrStartOffLand is returned when the start site has no elevation or lies
// below sea level.
var ErrStartOffLand = errors.New("start site is not on land")

// turns are the branch directions relative to a committed edge, in the
// order they are evaluated: left, straight, right.
var turns = [3]float64{-math.Pi / 2, 0, math.Pi / 2}

// Stats counts what happened during one run.
type Stats struct {
	Iterations int `json:"iterations"` // candidates popped
	Committed  int `json:"committed"`  // edges ending at a fresh site
	Merged     int `json:"merged"`     // edges snapped onto an existing site
	Split      int `json:"split"`      // edges ending at a crossing of an existing edge
	Discarded  int `json:"discarded"`  // endpoints or branch directions with no valid position
	Pushed     int `json:"pushed"`     // candidates queued
}

// Result is the outcome of Run.
type Result struct {
	Network *network.Network
	Stats   Stats
	Elapsed time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for progress and debug output.
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSeaLevel overrides DefaultSeaLevel.
func WithSeaLevel(level float64) Option {
	return func(b *Builder) {
		b.seaLevel = level
	}
}

// Builder grows networks from a validated Config. It holds no per-run state
// and can be shared between goroutines.
type Builder struct {
	cfg      Config
	seaLevel float64
	logger   *log.Logger
}

// NewBuilder validates cfg and returns a Builder for it.
func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:      cfg,
		seaLevel: DefaultSeaLevel,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	if math.IsNaN(b.seaLevel) {
		return nil, fmt.Errorf("%w: sea level is NaN", ErrInvalidConfig)
	}
	return b, nil
}

// Config returns the configuration the Builder was created with.
func (b *Builder) Config() Config {
	return b.cfg
}

// Build grows a network over t using a math/rand source seeded with seed.
func (b *Builder) Build(ctx context.Context, seed int64, t terrain.Terrain) (*network.Network, error) {
	return b.BuildWithSource(ctx, NewSource(seed), t)
}

// BuildWithSource grows a network over t drawing randomness from src.
func (b *Builder) BuildWithSource(ctx context.Context, src Source, t terrain.Terrain) (*network.Network, error) {
	res, err := b.Run(ctx, src, t)
	if err != nil {
		return nil, err
	}
	return res.Network, nil
}

// Grow runs the engine with a math/rand source seeded from Config.Seed.
func (b *Builder) Grow(ctx context.Context, t terrain.Terrain) (Result, error) {
	return b.Run(ctx, NewSource(b.cfg.Seed), t)
}

// Run grows a network and reports statistics about the run.
func (b *Builder) Run(ctx context.Context, src Source, t terrain.Terrain) (Result, error) {
	started := time.Now()
	r := &run{
		Builder: b,
		terrain: t,
		src:     src,
		sites:   network.NewRegistry(),
		paths:   pathindex.New(),
	}

	if err := r.seed(); err != nil {
		return Result{}, err
	}

	for i := 0; i < b.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		c, ok := r.queue.pop()
		if !ok {
			b.logger.Debug("candidate queue drained", "iteration", i)
			break
		}
		r.stats.Iterations++

		merged, err := r.resolve(c)
		if err != nil {
			return Result{}, err
		}
		if !merged {
			r.commit(c)
		}
	}

	net, err := r.assemble()
	if err != nil {
		return Result{}, err
	}

	res := Result{Network: net, Stats: r.stats, Elapsed: time.Since(started)}
	b.logger.Info("network grown",
		"nodes", net.NodeCount(),
		"edges", net.EdgeCount(),
		"iterations", r.stats.Iterations,
		"pending", r.queue.len(),
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// run is the mutable state of a single Build
type run struct {
	*Builder
	terrain terrain.Terrain
	src     Source

	queue pending
	sites *network.Registry
	paths *pathindex.Index
	stats Stats
}

func (r *run) push(c *candidate) {
	r.queue.push(c)
	r.stats.Pushed++
}

// elevation returns the terrain height at p
func (r *run) elevation(p orb.Point) (float64, bool) {
	return r.terrain.Elevation(p[0], p[1])
}

// seed registers the start site and queues the two opposite highway
// candidates leaving it.
func (r *run) seed() error {
	theta := r.src.Float64Range(0, math.Pi)

	start := r.cfg.Start
	elev, ok := r.elevation(start)
	if !ok || elev < r.seaLevel {
		return fmt.Errorf("%w: %v", ErrStartOffLand, start)
	}
	origin := r.sites.Add(start, elev)

	attr := network.EdgeAttr{Highway: true}
	for _, angle := range [2]float64{theta, theta + math.Pi} {
		end := geometry.Polar(start, r.cfg.BranchLength, angle)
		endElev, ok := r.elevation(end)
		if !ok || endElev < r.seaLevel {
			r.stats.Discarded++
			continue
		}
		r.push(&candidate{
			start:        origin,
			end:          end,
			endElevation: endElev,
			angle:        angle,
			attr:         attr,
		})
	}

	r.logger.Debug("seeded growth", "start", start, "theta", theta, "queued", r.queue.len())
	return nil
}

// resolve attaches c to the existing network when its endpoint is close to
// a site or its segment properly crosses a nearby edge. It reports whether
// c was consumed that way.
func (r *run) resolve(c *candidate) (bool, error) {
	from := r.sites.Site(c.start)
	q := r.paths.Find(from, c.end, r.cfg.BranchLength*mergeRadiusFactor, []int{c.start})

	switch q.Kind {
	case pathindex.QuerySite:
		r.paths.Insert(c.start, q.Site, from, r.sites.Site(q.Site), c.attr)
		r.stats.Merged++
		r.logger.Debug("merged into site", "from", c.start, "site", q.Site)
		return true, nil

	case pathindex.QueryPath:
		crossing, ok := geometry.SegmentIntersection(q.Path.SiteStart, q.Path.SiteEnd, from, c.end)
		if !ok || !crossing.Proper {
			return false, nil
		}
		elev, ok := r.elevation(crossing.Point)
		if !ok || elev < r.seaLevel {
			return false, nil
		}
		node := r.sites.Add(crossing.Point, elev)
		if _, _, err := r.paths.Split(q.Path, crossing.Point, node); err != nil {
			return false, fmt.Errorf("split path %d at node %d: %w", q.Path.ID, node, err)
		}
		r.paths.Insert(c.start, node, from, crossing.Point, c.attr)
		r.stats.Split++
		r.logger.Debug("split path", "from", c.start, "path", q.Path.ID, "node", node)
		return true, nil
	}

	return false, nil
}

// commit registers c's endpoint, records the edge and queues up to three
// branches leaving the new site.
func (r *run) commit(c *candidate) {
	end := r.sites.Add(c.end, c.endElevation)
	r.paths.Insert(c.start, end, r.sites.Site(c.start), c.end, c.attr)
	r.stats.Committed++

	for _, turn := range turns {
		attr, ok := r.branchAttr(c.attr, turn != 0)
		if !ok {
			continue
		}
		next, ok := r.sweep(c, end, attr, c.angle+turn)
		if !ok {
			r.stats.Discarded++
			continue
		}
		r.push(next)
	}
}

// branchAttr derives the attributes of a branch from its parent's. The
// second result is false when a local edge does not branch sideways.
func (r *run) branchAttr(parent network.EdgeAttr, lateral bool) (network.EdgeAttr, bool) {
	if !lateral {
		return parent, true
	}

	attr := network.EdgeAttr{Even: !parent.Even}
	if parent.Highway {
		attr.Highway = r.src.Bool(r.cfg.HighwayRotationProbability)
		return attr, true
	}
	if !r.src.Bool(r.cfg.NormalRotationProbability) {
		return attr, false
	}
	return attr, true
}

// sweep tries headings around base, alternating sides with growing
// deviation, and returns the cheapest valid candidate leaving node.
func (r *run) sweep(parent *candidate, node int, attr network.EdgeAttr, base float64) (*candidate, bool) {
	origin := r.sites.Site(node)
	length := r.branchLength(attr)
	from := r.sites.Elevation(parent.start)

	var best *candidate
	try := func(angle float64) {
		end := geometry.Polar(origin, length, angle)
		elev, ok := r.elevation(end)
		if !ok {
			return
		}
		cost, ok := r.evaluateCost(from, elev, attr)
		if !ok {
			return
		}
		if best == nil || cost < best.cost {
			best = &candidate{
				start:        node,
				end:          end,
				endElevation: elev,
				angle:        angle,
				cost:         cost,
				attr:         attr,
			}
		}
	}

	steps := r.cfg.sweepSteps()
	for k := 0; k <= steps; k++ {
		deviation := r.cfg.BranchAngleDeviation * float64(k)
		try(base + deviation)
		if k > 0 {
			try(base - deviation)
		}
	}
	return best, best != nil
}

// assemble turns the path index into an immutable Network
func (r *run) assemble() (*network.Network, error) {
	nb := network.NewBuilder(r.sites)
	var err error
	r.paths.ForEach(func(p pathindex.Path) {
		if err != nil {
			return
		}
		_, err = nb.AddEdge(p.Start, p.End, p.Attr)
	})
	if err != nil {
		return nil, fmt.Errorf("assemble network: %w", err)
	}
	return nb.Network(), nil
}
