// Package panel runs the display loop of a printer control panel: it owns
// the encoder counter, paces frames, and switches between the menu and the
// radar screen.
package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/grid"
	"github.com/mastercactapus/meshradar/machine"
	"github.com/mastercactapus/meshradar/radar"
)

// DefaultFrameInterval is the display refresh period.
const DefaultFrameInterval = 100 * time.Millisecond

// Screen names the active screen.
type Screen string

const (
	ScreenMenu  Screen = "menu"
	ScreenRadar Screen = "radar"
)

// Actions are the printer commands offered by the menu.
type Actions interface {
	Home() error
	Beep(machine.BeepOptions) error
}

// Config configures a Panel.
type Config struct {
	Navigator *radar.Navigator
	Actions   Actions

	// FrameInterval defaults to DefaultFrameInterval.
	FrameInterval time.Duration

	// Pages is the number of draw pages per frame, at least 1.
	Pages int

	// Beep is the initial beep setting, machine.DefaultBeep if zero.
	Beep machine.BeepOptions
}

// Status is a snapshot of the panel.
type Status struct {
	Screen   Screen
	Encoder  int
	Selected grid.Coordinate
	Position coord.Point
	Beep     machine.BeepOptions
}

// Panel is the host side of the radar screen.
type Panel struct {
	nav      *radar.Navigator
	actions  Actions
	interval time.Duration
	pages    int

	input chan func()

	// owned by the Run goroutine
	screen  Screen
	encoder int
	click   bool
	page    int
	redraw  bool
	refresh bool
	plotted *grid.Coordinate

	mx     sync.Mutex
	status Status
	subs   map[chan Event]struct{}
}

var errNoMachine = errors.New("no machine connected")

// New creates a Panel showing the menu.
func New(cfg Config) *Panel {
	p := &Panel{
		nav:      cfg.Navigator,
		actions:  cfg.Actions,
		interval: cfg.FrameInterval,
		pages:    cfg.Pages,
		input:    make(chan func(), 100),
		screen:   ScreenMenu,
		subs:     make(map[chan Event]struct{}),
	}
	if p.interval <= 0 {
		p.interval = DefaultFrameInterval
	}
	if p.pages < 1 {
		p.pages = 1
	}
	p.status.Beep = cfg.Beep
	if p.status.Beep == (machine.BeepOptions{}) {
		p.status.Beep = machine.DefaultBeep
	}
	p.publish()

	return p
}

// Run draws frames and applies input until ctx is done.
func (p *Panel) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-p.input:
			fn()
			p.publish()
		case <-t.C:
			p.frame()
		}
	}
}

func (p *Panel) frame() {
	if p.screen == ScreenRadar {
		p.plotted = nil
		for p.page = 0; p.page < p.pages && p.screen == ScreenRadar; p.page++ {
			p.nav.Step((*display)(p))
		}
		if p.plotted != nil {
			pos := p.nav.Grid().Position(*p.plotted)
			p.emit(Event{Type: EventPlot, Selected: p.plotted, Position: &pos})
		}
	}

	p.click = false
	p.redraw = p.refresh
	p.refresh = false
	p.publish()
}

func (p *Panel) publish() {
	var sel grid.Coordinate
	var pos coord.Point
	if p.nav != nil {
		sel = p.nav.State().Selected
		pos = p.nav.Grid().Position(sel)
	}

	p.mx.Lock()
	p.status.Screen = p.screen
	p.status.Encoder = p.encoder
	p.status.Selected = sel
	p.status.Position = pos
	p.mx.Unlock()
}

func (p *Panel) setScreen(s Screen) {
	if p.screen == s {
		return
	}
	p.screen = s
	p.redraw = true
	p.emit(Event{Type: EventScreen, Screen: s})
}

// Status returns the state as of the last frame or input.
func (p *Panel) Status() Status {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.status
}

func (p *Panel) do(fn func()) { p.input <- fn }

// Rotate moves the encoder by delta detents.
func (p *Panel) Rotate(delta int) {
	p.do(func() {
		p.encoder += delta
		p.redraw = true
	})
}

// SetEncoder sets the encoder counter, as a touch screen does.
func (p *Panel) SetEncoder(v int) {
	p.do(func() {
		p.encoder = v
		p.redraw = true
	})
}

// Click presses the encoder button.
func (p *Panel) Click() {
	p.do(func() {
		p.click = true
	})
}

// OpenRadar switches from the menu to the radar screen.
func (p *Panel) OpenRadar() {
	p.do(func() {
		if p.screen == ScreenRadar {
			return
		}
		p.nav.Enter((*display)(p))
		p.setScreen(ScreenRadar)
	})
}

// SetBeep changes the beep setting used by Beep.
func (p *Panel) SetBeep(opt machine.BeepOptions) error {
	err := opt.Validate()
	if err != nil {
		return err
	}

	p.mx.Lock()
	p.status.Beep = opt
	p.mx.Unlock()

	p.emit(Event{Type: EventMenu, Beep: &opt})
	return nil
}

// Beep plays the current beep setting.
func (p *Panel) Beep() error {
	if p.actions == nil {
		return errNoMachine
	}
	return p.actions.Beep(p.Status().Beep)
}

// Home homes the printer.
func (p *Panel) Home() error {
	if p.actions == nil {
		return errNoMachine
	}
	return p.actions.Home()
}
