package reach

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/meshradar/coord"
)

// Envelope is the reachable area spanned by a set of measured positions:
// anything inside their triangulation (the convex hull) is reachable.
type Envelope struct {
	minX, minY, maxX, maxY float64
	triangles              []coord.Triangle
}

// NewEnvelope triangulates points.
func NewEnvelope(points []coord.Point) (*Envelope, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to create an envelope")
	}

	points2d := make([]delaunay.Point, len(points))
	env := &Envelope{
		minX: points[0].X,
		minY: points[0].Y,
		maxX: points[0].X,
		maxY: points[0].Y,
	}
	for i, p := range points {
		env.minX = math.Min(env.minX, p.X)
		env.minY = math.Min(env.minY, p.Y)
		env.maxX = math.Max(env.maxX, p.X)
		env.maxY = math.Max(env.maxY, p.Y)

		points2d[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	env.minX -= coord.Epsilon
	env.minY -= coord.Epsilon
	env.maxX += coord.Epsilon
	env.maxY += coord.Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, err
	}
	if len(tri.Triangles) == 0 {
		return nil, errors.New("envelope points are collinear")
	}

	env.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)
	pt := func(i int) coord.Point {
		p := tri.Points[tri.Triangles[i]]
		return coord.Point{X: p.X, Y: p.Y}
	}
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		env.triangles = append(env.triangles, coord.Triangle{A: pt(i), B: pt(i + 1), C: pt(i + 2)})
	}

	return env, nil
}

func (env *Envelope) Reachable(x, y float64) bool {
	if x < env.minX || env.maxX < x || y < env.minY || env.maxY < y {
		return false
	}
	for _, t := range env.triangles {
		if t.ContainsXY(x, y) {
			return true
		}
	}
	return false
}
