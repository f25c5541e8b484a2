// Package clip intersects requested pixel rectangles with surface bounds.
package clip

import "image"

// Intersect clips requested against bounds.
//
// Both axes are intersected independently as half-open integer intervals.
// The result stays in the coordinate space of bounds. If either axis has no
// overlap, including a rectangle that only touches an edge or a corner of
// bounds, Intersect returns the zero rectangle and false. A requested
// rectangle with Min > Max on an axis is treated as empty.
func Intersect(requested, bounds image.Rectangle) (image.Rectangle, bool) {
	left, right, ok := interval(requested.Min.X, requested.Max.X, bounds.Min.X, bounds.Max.X)
	if !ok {
		return image.Rectangle{}, false
	}
	top, bottom, ok := interval(requested.Min.Y, requested.Max.Y, bounds.Min.Y, bounds.Max.Y)
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(left, top, right, bottom), true
}

// interval returns the overlap of [a0, a1) and [b0, b1).
func interval(a0, a1, b0, b1 int) (lo, hi int, ok bool) {
	lo = max(a0, b0)
	hi = min(a1, b1)
	if lo >= hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// Offset returns where the clipped area starts relative to the origin of
// requested, i.e. the destination-local coordinate of clipped.Min.
func Offset(requested, clipped image.Rectangle) image.Point {
	return clipped.Min.Sub(requested.Min)
}

// XYWH builds the rectangle of a w×h read whose top-left corner is (x, y).
// Unlike image.Rect it never swaps corners, so an axis whose far edge
// overflows int has Min > Max and Intersect treats it as empty.
func XYWH(x, y, w, h int) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: x, Y: y},
		Max: image.Point{X: x + w, Y: y + h},
	}
}
