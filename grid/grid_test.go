package grid

import (
	"testing"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(t *testing.T) *Grid {
	b := Bounds{BedMin: 0, BedMax: 220, TravelMin: 0, TravelMax: 220, Inset: 25}
	g, err := New(Config{PointsX: 8, PointsY: 8, X: b, Y: b})
	require.NoError(t, err)
	return g
}

func TestBounds_Mesh(t *testing.T) {
	lo, hi := Bounds{BedMin: 0, BedMax: 220, TravelMin: 0, TravelMax: 220, Inset: 25}.Mesh()
	assert.Equal(t, 25.0, lo)
	assert.Equal(t, 195.0, hi)

	// travel is tighter than the inset bed
	lo, hi = Bounds{BedMin: 0, BedMax: 220, TravelMin: 30, TravelMax: 180, Inset: 25}.Mesh()
	assert.Equal(t, 30.0, lo)
	assert.Equal(t, 180.0, hi)
}

func TestAxis_Position(t *testing.T) {
	a := NewAxis(8, 25, 195)
	cell := 170.0 / 7

	assert.Equal(t, 8, a.Len())
	assert.InDelta(t, cell, a.Cell(), 1e-9)
	assert.Equal(t, 25.0, a.Position(0))
	assert.Equal(t, 195.0, a.Position(7))

	for i := 1; i < a.Len(); i++ {
		assert.True(t, a.Position(i) > a.Position(i-1), "index %d not increasing", i)
		assert.InDelta(t, 25+float64(i)*cell, a.Position(i), 1e-9)
	}
}

func TestAxis_PositionOutOfTable(t *testing.T) {
	a := NewAxis(8, 25, 195)
	cell := 170.0 / 7

	assert.InDelta(t, 25+8*cell, a.Position(8), 1e-9)
	assert.InDelta(t, 25+15*cell, a.Position(15), 1e-9)
	assert.InDelta(t, 25-cell, a.Position(-1), 1e-9)

	var empty Axis
	assert.Equal(t, 0.0, empty.Position(3))
}

func TestNew_Invalid(t *testing.T) {
	b := Bounds{BedMin: 0, BedMax: 220, TravelMin: 0, TravelMax: 220, Inset: 25}

	_, err := New(Config{PointsX: 1, PointsY: 8, X: b, Y: b})
	assert.Error(t, err)

	_, err = New(Config{PointsX: 8, PointsY: 8, X: Bounds{BedMax: 40, TravelMax: 40, Inset: 25}, Y: b})
	assert.Error(t, err)
}

func TestGrid_CoordinateRoundTrip(t *testing.T) {
	g := testGrid(t)
	assert.Equal(t, 64, g.Points())

	for i := 0; i < g.Points(); i++ {
		c := g.Coordinate(i)
		assert.Equal(t, i, c.Y*8+c.X)
		assert.Equal(t, i, g.Index(c))
		assert.True(t, c.X >= 0 && c.X < 8 && c.Y >= 0 && c.Y < 8)
	}

	assert.Equal(t, Coordinate{X: 1, Y: 1}, g.Coordinate(9))
	assert.Equal(t, Coordinate{X: 7, Y: 7}, g.Coordinate(63))
}

func TestGrid_Position(t *testing.T) {
	g := testGrid(t)

	assert.Equal(t, coord.Point{X: 25, Y: 25}, g.Position(Coordinate{}))
	assert.Equal(t, coord.Point{X: 195, Y: 195}, g.Position(Coordinate{X: 7, Y: 7}))

	p := g.Position(Coordinate{X: 1, Y: 2})
	assert.InDelta(t, 25+170.0/7, p.X, 1e-9)
	assert.InDelta(t, 25+2*170.0/7, p.Y, 1e-9)
}

func TestGrid_Coordinates(t *testing.T) {
	g := testGrid(t)

	c := g.Coordinates()
	assert.Len(t, c, 64)
	assert.Equal(t, Coordinate{X: 0, Y: 0}, c[0])
	assert.Equal(t, Coordinate{X: 0, Y: 1}, c[8])
	assert.Equal(t, Coordinate{X: 7, Y: 7}, c[63])
}
