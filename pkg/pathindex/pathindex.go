// Package pathindex stores committed network paths in an R-tree so the
// growth engine can ask which existing node or edge a new branch collides with.
package pathindex

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/geometry"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

// ErrPathNotFound is returned by Split when the path is not (or no longer) indexed.
var ErrPathNotFound = errors.New("path not found in index")

// minExtent pads degenerate bounding boxes: rtreego rejects zero-length sides.
const minExtent = 1e-9

// Path is a committed edge between two registered sites
type Path struct {
	ID        int
	Start     int
	End       int
	SiteStart orb.Point
	SiteEnd   orb.Point
	Attr      network.EdgeAttr
}

// Segment returns the geometric segment covered by the path
func (p Path) Segment() geometry.Segment {
	return geometry.Segment{P1: p.SiteStart, P2: p.SiteEnd}
}

// pathEntry wraps a path for R-tree storage
type pathEntry struct {
	Path Path
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *pathEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// Index manages spatial queries over committed paths
type Index struct {
	tree    *rtreego.Rtree
	entries map[int]*pathEntry
	nextID  int
}

// New creates an empty path index
func New() *Index {
	return &Index{
		tree:    rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		entries: make(map[int]*pathEntry),
	}
}

// Len returns the number of indexed paths
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Insert stores a new path between two sites and returns it with its fresh ID
func (idx *Index) Insert(start, end int, siteStart, siteEnd orb.Point, attr network.EdgeAttr) Path {
	path := Path{
		ID:        idx.nextID,
		Start:     start,
		End:       end,
		SiteStart: siteStart,
		SiteEnd:   siteEnd,
		Attr:      attr,
	}
	idx.nextID++

	entry := &pathEntry{Path: path, BBox: boundsRect(path.Segment().Bound())}
	idx.tree.Insert(entry)
	idx.entries[path.ID] = entry

	return path
}

// Get returns the path with the given ID if it is indexed
func (idx *Index) Get(id int) (Path, bool) {
	entry, ok := idx.entries[id]
	if !ok {
		return Path{}, false
	}
	return entry.Path, true
}

// Split replaces path by (path.Start -> node) and (node -> path.End), both
// carrying the original attributes. The removal and both insertions happen
// together or not at all.
func (idx *Index) Split(path Path, point orb.Point, node int) (Path, Path, error) {
	entry, ok := idx.entries[path.ID]
	if !ok {
		return Path{}, Path{}, fmt.Errorf("split path %d: %w", path.ID, ErrPathNotFound)
	}
	if !idx.tree.Delete(entry) {
		return Path{}, Path{}, fmt.Errorf("split path %d: tree out of sync: %w", path.ID, ErrPathNotFound)
	}
	delete(idx.entries, path.ID)

	stored := entry.Path
	first := idx.Insert(stored.Start, node, stored.SiteStart, point, stored.Attr)
	second := idx.Insert(node, stored.End, point, stored.SiteEnd, stored.Attr)
	return first, second, nil
}

// ForEach calls fn for every indexed path in ascending ID order
func (idx *Index) ForEach(fn func(Path)) {
	ids := make([]int, 0, len(idx.entries))
	for id := range idx.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		fn(idx.entries[id].Path)
	}
}

// searchRegion returns the indexed paths whose bounding boxes intersect b,
// sorted by ID so callers see a stable order
func (idx *Index) searchRegion(b orb.Bound) []Path {
	// rtreego treats touching rectangles as disjoint; widen the query so
	// boxes sharing an edge with b are still reported
	b = b.Pad(minExtent)
	results := idx.tree.SearchIntersect(boundsRect(b))
	paths := make([]Path, 0, len(results))
	for _, item := range results {
		paths = append(paths, item.(*pathEntry).Path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].ID < paths[j].ID })
	return paths
}

// boundsRect converts an orb bound to an R-tree rectangle
func boundsRect(b orb.Bound) rtreego.Rect {
	rect, err := rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{math.Max(b.Max[0]-b.Min[0], minExtent), math.Max(b.Max[1]-b.Min[1], minExtent)},
	)
	if err != nil {
		// lengths are clamped positive, so this is a dimension bug
		panic(fmt.Sprintf("pathindex: invalid bound %v: %v", b, err))
	}
	return rect
}
