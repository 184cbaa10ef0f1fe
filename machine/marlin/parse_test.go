package marlin

import (
	"testing"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/machine"
	"github.com/stretchr/testify/assert"
)

func TestParsePosition(t *testing.T) {
	p, err := parsePosition("X:10.00 Y:20.50 Z:0.20 E:0.00 Count X:800 Y:1640 Z:80\n")
	assert.NoError(t, err)
	assert.Equal(t, coord.Point{X: 10, Y: 20.5, Z: 0.2}, p)

	_, err = parsePosition("X:10.00 Y:20.50")
	assert.Error(t, err)

	_, err = parsePosition("X:ten Y:20.50 Z:0")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	var stat machine.State

	s, ok, err := parseStatus(stat, "echo:busy: processing")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Busy", s.Status)

	s, ok, err = parseStatus(*s, "X:25.00 Y:25.00 Z:5.00 E:0.00 Count X:2000 Y:2000 Z:2000")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, machine.State{Status: "Busy", Pos: coord.Point{X: 25, Y: 25, Z: 5}}, *s)

	s, ok, err = parseStatus(*s, "ok")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Idle", s.Status)

	_, ok, err = parseStatus(*s, "echo:Unknown command: \"M999\"")
	assert.NoError(t, err)
	assert.False(t, ok)
}
