// Package network holds the result of a growth run: the registry of placed
// sites and the undirected graph of attributed edges connecting them.
//
// Sites are identified by their index in the Registry. A Network is built once
// through a Builder, which silently drops an edge whose unordered endpoint
// pair is already connected, and is read-only afterwards.
//
// Besides adjacency queries the package offers a few conveniences for
// consumers of a grown network:
//   - NearestNode and ShortestPath (A*) for routing on the result
//   - Save/Load and JSON (un)marshalling of a node/edge snapshot
//   - GeoJSON export through github.com/paulmach/orb/geojson
package network
