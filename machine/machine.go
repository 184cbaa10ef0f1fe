package machine

import (
	"context"
	"log"
	"sync"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/gcode"
)

// Machine sends commands to a printer through an Adapter.
type Machine struct {
	Adapter

	feed float64

	mx      sync.Mutex
	pending *coord.Point
	wake    chan struct{}
}

// State is the last reported printer status.
type State struct {
	Status string
	Pos    coord.Point
}

// NewMachine creates a Machine that moves at feed mm/min. A feed of zero
// keeps the firmware's current feed rate.
func NewMachine(a Adapter, feed float64) *Machine {
	return &Machine{
		Adapter: a,
		feed:    feed,
		wake:    make(chan struct{}, 1),
	}
}

func (m *Machine) runBlocks(b []gcode.Block) error {
	_, err := m.Adapter.ReadFrom(gcode.NewBuffer(gcode.NewBlocksReader(b...)))
	return err
}

// ScheduleMove sets the next XY destination and returns immediately.
//
// A destination that has not been sent yet is replaced, so only the most
// recent selection is moved to once the printer catches up.
func (m *Machine) ScheduleMove(p coord.Point) {
	m.mx.Lock()
	m.pending = &p
	m.mx.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Machine) takePending() *coord.Point {
	m.mx.Lock()
	defer m.mx.Unlock()
	p := m.pending
	m.pending = nil
	return p
}

// Run sends scheduled moves until ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.wake:
		}

		p := m.takePending()
		if p == nil {
			continue
		}
		err := m.runBlocks(gcode.MoveXY(*p, m.feed))
		if err != nil {
			log.Printf("ERROR: move to X%g Y%g: %v", p.X, p.Y, err)
		}
	}
}

// Home homes all axes and waits for the printer to accept the command.
func (m *Machine) Home() error {
	return m.runBlocks([]gcode.Block{gcode.Home()})
}
