package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Add(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}
	b := Point{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Point{X: 5, Y: 7, Z: 9}, a.Add(b))
	assert.Equal(t, a, a.Add(b).Sub(b))
}

func TestPoint_DistanceXY(t *testing.T) {
	dist := Point{X: 1, Y: 2, Z: 3}.DistanceXY(4, 5)
	assert.InEpsilon(t, 4.24264, dist, .01)
}

func TestPoint_EqualXY(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}

	assert.True(t, a.EqualXY(Point{X: 1, Y: 2}))
	assert.False(t, a.Equal(Point{X: 1, Y: 2}))
	assert.False(t, a.EqualXY(Point{X: 1, Y: 2.5}))
}
