package grid

import (
	"errors"
	"fmt"

	"github.com/mastercactapus/meshradar/coord"
)

// Coordinate is a grid point by column (X) and row (Y).
type Coordinate struct{ X, Y int }

// Config describes a mesh grid.
type Config struct {
	PointsX, PointsY int

	X, Y Bounds
}

// Grid is a rectangular set of mesh points.
type Grid struct {
	X, Y Axis
}

// New validates cfg and precomputes both axes.
func New(cfg Config) (*Grid, error) {
	if cfg.PointsX < 2 || cfg.PointsY < 2 {
		return nil, errors.New("grid needs at least 2 points per axis")
	}

	xLo, xHi := cfg.X.Mesh()
	if xLo >= xHi {
		return nil, fmt.Errorf("empty mesh region on X: %g to %g", xLo, xHi)
	}
	yLo, yHi := cfg.Y.Mesh()
	if yLo >= yHi {
		return nil, fmt.Errorf("empty mesh region on Y: %g to %g", yLo, yHi)
	}

	return &Grid{
		X: NewAxis(cfg.PointsX, xLo, xHi),
		Y: NewAxis(cfg.PointsY, yLo, yHi),
	}, nil
}

// Points returns the number of grid points.
func (g Grid) Points() int { return g.X.Len() * g.Y.Len() }

// Coordinate converts a linear index in [0, Points()) to a grid coordinate.
func (g Grid) Coordinate(index int) Coordinate {
	n := g.X.Len()
	return Coordinate{X: index % n, Y: index / n}
}

// Index converts c to its linear index.
func (g Grid) Index(c Coordinate) int {
	return c.Y*g.X.Len() + c.X
}

// Position returns the physical XY position of c.
func (g Grid) Position(c Coordinate) coord.Point {
	return coord.Point{X: g.X.Position(c.X), Y: g.Y.Position(c.Y)}
}

// Coordinates lists every grid point in linear index order.
func (g Grid) Coordinates() []Coordinate {
	res := make([]Coordinate, g.Points())
	for i := range res {
		res[i] = g.Coordinate(i)
	}
	return res
}
