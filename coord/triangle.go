package coord

import "math"

// Epsilon is how far outside an edge a point may be and still be
// contained.
const Epsilon = 0.001

// Triangle is a planar triangle; only its XY projection is used.
type Triangle struct{ A, B, C Point }

// crossXY is the z component of (b-a) x (p-a). Its sign tells which side
// of the line a->b the point p lies on.
func crossXY(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// segmentDistanceXY is the distance from p to the segment a-b.
func segmentDistanceXY(a, b, p Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a.DistanceXY(p.X, p.Y)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

func (t Triangle) boundsXY() (lo, hi Point) {
	lo = Point{X: math.Min(t.A.X, math.Min(t.B.X, t.C.X)), Y: math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y))}
	hi = Point{X: math.Max(t.A.X, math.Max(t.B.X, t.C.X)), Y: math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y))}
	return lo, hi
}

// ContainsXY returns true if the 2D projection of the triangle has the
// point x,y, including points within Epsilon of an edge.
func (t Triangle) ContainsXY(x, y float64) bool {
	lo, hi := t.boundsXY()
	if x < lo.X-Epsilon || x > hi.X+Epsilon || y < lo.Y-Epsilon || y > hi.Y+Epsilon {
		return false
	}

	p := Point{X: x, Y: y}
	s1 := crossXY(t.A, t.B, p)
	s2 := crossXY(t.B, t.C, p)
	s3 := crossXY(t.C, t.A, p)

	// either winding order
	if (s1 >= 0 && s2 >= 0 && s3 >= 0) || (s1 <= 0 && s2 <= 0 && s3 <= 0) {
		return true
	}

	return segmentDistanceXY(t.A, t.B, p) <= Epsilon ||
		segmentDistanceXY(t.B, t.C, p) <= Epsilon ||
		segmentDistanceXY(t.C, t.A, p) <= Epsilon
}
