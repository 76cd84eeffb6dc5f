package network

import (
	"github.com/paulmach/orb/geojson"
)

// GeoJSON returns the network as a FeatureCollection: one LineString per edge
// (properties "from", "to", "highway", "even") followed by one Point per node
// (properties "id", "elevation").
func (n *Network) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, line := range n.LineStrings() {
		e := n.edges[i]
		f := geojson.NewFeature(line)
		f.Properties["from"] = e.From
		f.Properties["to"] = e.To
		f.Properties["highway"] = e.Attr.Highway
		f.Properties["even"] = e.Attr.Even
		fc.Append(f)
	}

	for i, site := range n.sites {
		f := geojson.NewFeature(site)
		f.Properties["id"] = i
		f.Properties["elevation"] = n.elevations[i]
		fc.Append(f)
	}

	return fc
}
