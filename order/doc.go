// Package order provides ranked insertion into already-ordered slices.
//
// The helpers are pure: they never reorder existing elements, they only
// locate (and optionally perform) the insertion of a new value under a
// caller-supplied comparator, with an optional key projector.
package order
