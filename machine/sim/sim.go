// Package sim provides an in-process printer that interprets G-code
// instead of sending it to hardware.
package sim

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/gcode"
	"github.com/mastercactapus/meshradar/machine"
)

// Adapter runs written G-code on a gcode.VM.
type Adapter struct {
	delay time.Duration

	mx    sync.Mutex
	vm    *gcode.VM
	last  machine.State
	state chan machine.State
}

var _ machine.Adapter = &Adapter{}

// NewAdapter creates a simulated printer at machine zero. Each motion
// block takes delay to complete.
func NewAdapter(delay time.Duration) *Adapter {
	return &Adapter{
		delay: delay,
		vm:    gcode.NewVM(),
		last:  machine.State{Status: "Idle"},
		state: machine.NewStateChan(),
	}
}

func (a *Adapter) State() chan machine.State { return a.state }
func (a *Adapter) CurrentState() machine.State {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.last
}

// Beeps returns the number of M300 commands run so far.
func (a *Adapter) Beeps() int {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.vm.Beeps()
}

// Feed returns the last feed rate set.
func (a *Adapter) Feed() float64 {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.vm.Feed()
}

func (a *Adapter) run(b gcode.Block) error {
	a.mx.Lock()
	start := a.vm.MPos()
	err := a.vm.Run(b)
	end := a.vm.MPos()
	a.mx.Unlock()
	if err != nil {
		return err
	}
	if end == start {
		return nil
	}

	a.setState(machine.State{Status: "Busy", Pos: start})
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	a.setState(machine.State{Status: "Idle", Pos: end})
	return nil
}

func (a *Adapter) setState(s machine.State) {
	a.mx.Lock()
	a.last = s
	machine.PublishState(a.state, s)
	a.mx.Unlock()
}

// ReadFrom runs every block in r, stopping at the first error.
func (a *Adapter) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	p := gcode.NewParser(bytes.NewReader(data))
	for {
		b, err := p.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return int64(len(data)), err
		}
		err = a.run(b)
		if err != nil {
			return int64(len(data)), err
		}
	}

	return int64(len(data)), nil
}
func (a *Adapter) Write(p []byte) (int, error) {
	n, err := a.ReadFrom(bytes.NewReader(p))
	return int(n), err
}
func (a *Adapter) WriteByte(b byte) error {
	_, err := a.Write([]byte{b, '\n'})
	return err
}

// Pos returns the simulated machine position.
func (a *Adapter) Pos() coord.Point {
	return a.CurrentState().Pos
}
