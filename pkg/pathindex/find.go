package pathindex

import (
	"github.com/paulmach/orb"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/geometry"
)

// QueryKind tells what a new branch ran into
type QueryKind int

const (
	// QueryNone means nothing was close enough
	QueryNone QueryKind = iota
	// QuerySite means the branch should snap onto an existing node
	QuerySite
	// QueryPath means the branch comes close to an existing path away from its endpoints
	QueryPath
)

// String implements fmt.Stringer
func (k QueryKind) String() string {
	switch k {
	case QuerySite:
		return "site"
	case QueryPath:
		return "path"
	default:
		return "none"
	}
}

// Query is the answer of Find. Site is set for QuerySite, Path for QueryPath.
type Query struct {
	Kind QueryKind
	Site int
	Path Path
}

// Find looks for the path nearest to the query segment within radius of
// queryEnd. Paths touching any of the excluded site indices are ignored.
// Paths are ranked by the perpendicular distance of the query midpoint to
// their line; equal distances keep the lowest path ID.
func (idx *Index) Find(queryStart, queryEnd orb.Point, radius float64, excluded []int) Query {
	envelope := orb.Bound{
		Min: orb.Point{queryEnd[0] - radius, queryEnd[1] - radius},
		Max: orb.Point{queryEnd[0] + radius, queryEnd[1] + radius},
	}
	mid := geometry.Midpoint(queryStart, queryEnd)

	minDistance := radius
	var winner *Path
	for _, candidate := range idx.searchRegion(envelope) {
		if contains(excluded, candidate.Start) || contains(excluded, candidate.End) {
			continue
		}

		distance := geometry.PointToLineDistance(mid, candidate.SiteStart, candidate.SiteEnd)
		if distance < minDistance {
			minDistance = distance
			c := candidate
			winner = &c
		}
	}

	if winner == nil {
		return Query{Kind: QueryNone}
	}

	squaredRadius := radius * radius
	if geometry.SquaredDistance(queryEnd, winner.SiteStart) < squaredRadius {
		return Query{Kind: QuerySite, Site: winner.Start}
	}
	if geometry.SquaredDistance(queryEnd, winner.SiteEnd) < squaredRadius {
		return Query{Kind: QuerySite, Site: winner.End}
	}

	return Query{Kind: QueryPath, Path: *winner}
}

func contains(indices []int, i int) bool {
	for _, v := range indices {
		if v == i {
			return true
		}
	}
	return false
}
