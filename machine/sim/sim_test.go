package sim

import (
	"context"
	"testing"
	"time"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/gcode"
	"github.com/mastercactapus/meshradar/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Write(t *testing.T) {
	a := NewAdapter(0)

	_, err := a.Write([]byte("G90\nG0 X25 Y49.5 F3000\n"))
	require.NoError(t, err)
	assert.Equal(t, machine.State{Status: "Idle", Pos: coord.Point{X: 25, Y: 49.5}}, a.CurrentState())
	assert.Equal(t, 3000.0, a.Feed())

	_, err = a.Write([]byte("G28\n"))
	require.NoError(t, err)
	assert.Equal(t, coord.Point{}, a.Pos())

	_, err = a.Write([]byte("M300 S1000 P1000\nM300 S1000 P1000\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, a.Beeps())

	_, err = a.Write([]byte("M104 S200\n"))
	assert.Error(t, err)
}

func TestAdapter_State(t *testing.T) {
	a := NewAdapter(0)

	// nobody is reading; the latest update is kept
	_, err := a.Write([]byte("G91\nG0 X1\nG0 Y2\n"))
	require.NoError(t, err)

	select {
	case s := <-a.State():
		assert.Equal(t, machine.State{Status: "Idle", Pos: coord.Point{X: 1, Y: 2}}, s)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for state")
	}
	select {
	case s := <-a.State():
		t.Fatalf("unexpected state %+v", s)
	default:
	}
}

func TestAdapter_Machine(t *testing.T) {
	a := NewAdapter(0)
	m := machine.NewMachine(a, 6000)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	m.ScheduleMove(coord.Point{X: 25, Y: 25})
	m.ScheduleMove(coord.Point{X: 200, Y: 175})

	deadline := time.Now().Add(time.Second)
	for a.Pos() != (coord.Point{X: 200, Y: 175}) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, coord.Point{X: 200, Y: 175}, a.Pos())

	require.NoError(t, m.Beep(machine.BeepOptions{Count: 3, Tone: 100, Duration: 100}))
	assert.Equal(t, 3, a.Beeps())

	// parsed back exactly as generated
	_, err := a.Write([]byte(gcode.Home().String() + "\n"))
	require.NoError(t, err)
	assert.Equal(t, coord.Point{}, a.Pos())
}
