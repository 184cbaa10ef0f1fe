// Package radar lets an operator browse the mesh grid with a rotary encoder
// and moves the print head to the selected point.
package radar

import (
	"errors"

	"github.com/mastercactapus/meshradar/grid"
	"github.com/mastercactapus/meshradar/reach"
)

// EnterMode controls what happens to the selection when the screen is entered.
type EnterMode int

const (
	// EnterResume seeds the encoder with the stored selection; no move is made.
	EnterResume EnterMode = iota

	// EnterReissue seeds the encoder with the stored selection and moves
	// to it again on the next step.
	EnterReissue

	// EnterReset sets the encoder to 0; the head moves to the first point
	// if the stored selection was elsewhere.
	EnterReset
)

func (m EnterMode) String() string {
	switch m {
	case EnterResume:
		return "resume"
	case EnterReissue:
		return "reissue"
	case EnterReset:
		return "reset"
	}
	return "unknown"
}

// ParseEnterMode is the inverse of EnterMode.String.
func ParseEnterMode(s string) (EnterMode, error) {
	switch s {
	case "", "resume":
		return EnterResume, nil
	case "reissue":
		return EnterReissue, nil
	case "reset":
		return EnterReset, nil
	}
	return 0, errors.New("unknown enter mode: " + s)
}

// State is the navigator state kept across frames.
type State struct {
	Selected grid.Coordinate
}

// Config configures a Navigator.
type Config struct {
	Grid   *grid.Grid
	Policy reach.Policy
	Mover  Mover

	// RelativeInput is set for input devices that report relative motion
	// across the wrap boundary (touch screens). Overshoot past either end
	// is preserved instead of snapping to the far end.
	RelativeInput bool

	OnEnter EnterMode
}

// Navigator is the radar grid state machine. It is stepped once per draw
// page by a single UI loop and is not safe for concurrent use.
type Navigator struct {
	grid     *grid.Grid
	policy   reach.Policy
	mover    Mover
	relative bool
	onEnter  EnterMode

	state   State
	reissue bool
}

// New creates a Navigator with (0,0) selected.
func New(cfg Config) *Navigator {
	n := &Navigator{
		grid:     cfg.Grid,
		policy:   cfg.Policy,
		mover:    cfg.Mover,
		relative: cfg.RelativeInput,
		onEnter:  cfg.OnEnter,
	}
	if n.policy == nil {
		n.policy = reach.Always{}
	}
	return n
}

// State returns the current selection.
func (n *Navigator) State() State { return n.state }

// Grid returns the navigated grid.
func (n *Navigator) Grid() *grid.Grid { return n.grid }

// Enter prepares the encoder when the radar screen becomes active.
func (n *Navigator) Enter(enc Encoder) {
	switch n.onEnter {
	case EnterReset:
		enc.SetEncoder(0)
	case EnterReissue:
		enc.SetEncoder(n.grid.Index(n.state.Selected))
		n.reissue = true
	default:
		enc.SetEncoder(n.grid.Index(n.state.Selected))
	}
}

// wrap brings v into [0, total).
func (n *Navigator) wrap(v int) int {
	total := n.grid.Points()
	if n.relative {
		v %= total
		if v < 0 {
			v += total
		}
		return v
	}
	if v < 0 {
		return total - 1
	}
	if v >= total {
		return 0
	}
	return v
}

// resolve normalizes the encoder and, for guarded policies, advances it in
// the direction of travel until it lands on a reachable point.
func (n *Navigator) resolve(ui UI) {
	old := n.grid.Index(n.state.Selected)
	v := ui.Encoder()

	if !n.policy.Guarded() {
		ui.SetEncoder(n.wrap(v))
		return
	}

	dir := 1
	if v < old {
		dir = -1
	}
	for i := 0; i <= n.grid.Points(); i++ {
		v = n.wrap(v)
		p := n.grid.Position(n.grid.Coordinate(v))
		if n.policy.Reachable(p.X, p.Y) {
			ui.SetEncoder(v)
			return
		}
		v += dir
	}

	// nothing reachable; stay put
	ui.SetEncoder(old)
}

// Step runs one draw page of the radar screen.
func (n *Navigator) Step(ui UI) {
	if ui.FirstPage() {
		if ui.UseClick() {
			ui.GoBack()
			return
		}
		n.resolve(ui)
	}

	c := n.grid.Coordinate(n.wrap(ui.Encoder()))

	if ui.ShouldDraw() {
		ui.Plot(c.X, c.Y)
	}

	if c == n.state.Selected && !n.reissue {
		return
	}
	n.reissue = false
	n.state.Selected = c
	n.moveToSelected()
	ui.Refresh()
}

func (n *Navigator) moveToSelected() {
	p := n.grid.Position(n.state.Selected)

	// the search should never leave us on an unreachable point
	if !n.policy.Reachable(p.X, p.Y) {
		return
	}
	if n.mover != nil {
		n.mover.ScheduleMove(p)
	}
}
