// Package frenet maps points between Cartesian (x, y) and the curvilinear
// (s, d) frame of a piecewise-linear reference path.
//
// s is the arc length along the path up to a point's projection and d is the
// signed lateral offset from the path, positive to the left of the direction
// of travel.
//
// Key types: PathSegment, PathMatcher, Transform.
//
// A PathMatcher is built once from its vertices and is read-only afterwards,
// so any number of goroutines may query the same instance.
// No I/O or logging is allowed in this package.
package frenet
