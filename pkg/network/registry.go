package network

import "github.com/paulmach/orb"

// Registry is the append-only list of placed sites. A site's index is its
// identity everywhere else.
type Registry struct {
	sites      []orb.Point
	elevations []float64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a site with its elevation and returns the new index
func (r *Registry) Add(site orb.Point, elevation float64) int {
	r.sites = append(r.sites, site)
	r.elevations = append(r.elevations, elevation)
	return len(r.sites) - 1
}

// Site returns the coordinates of site i
func (r *Registry) Site(i int) orb.Point {
	return r.sites[i]
}

// Elevation returns the cached elevation of site i
func (r *Registry) Elevation(i int) float64 {
	return r.elevations[i]
}

// Len returns the number of registered sites
func (r *Registry) Len() int {
	return len(r.sites)
}
