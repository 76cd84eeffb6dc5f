// Package growth grows a road network outward from a start point over a
// terrain.
//
// Growth is a best-first expansion. Candidate edges wait in a priority queue
// ordered by cost, where cost rises with slope and with the height of the
// endpoint; highway candidates are discounted by the construction priority
// so trunk roads extend long before local streets fill in. Each popped
// candidate is either
//
//   - snapped onto an existing site within 0.8 branch lengths,
//   - cut short where it properly crosses an existing edge, which is split
//     at the crossing, or
//   - committed as a fresh edge, after which up to three branches (left,
//     straight, right) are proposed from its end.
//
// A branch heading is swept in steps of BranchAngleDeviation up to
// BranchMaxAngle on both sides and the cheapest valid endpoint is queued.
// Endpoints off the terrain or below sea level are never built.
//
// All randomness comes from the Source handed to a run, so a fixed seed and
// terrain always reproduce the same network.
package growth
