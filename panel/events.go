package panel

import (
	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/grid"
	"github.com/mastercactapus/meshradar/machine"
)

// Event types.
const (
	EventPlot   = "plot"
	EventScreen = "screen"
	EventMenu   = "menu"
)

// Event describes a change visible on the panel.
type Event struct {
	Type string `json:"type"`

	// EventScreen
	Screen Screen `json:"screen,omitempty"`

	// EventPlot
	Selected *grid.Coordinate `json:"selected,omitempty"`
	Position *coord.Point     `json:"position,omitempty"`

	// EventMenu
	Beep *machine.BeepOptions `json:"beep,omitempty"`
}

// Subscribe returns a channel of panel events and a func to stop them.
// Events are dropped while the channel is full.
func (p *Panel) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	p.mx.Lock()
	p.subs[ch] = struct{}{}
	p.mx.Unlock()

	return ch, func() {
		p.mx.Lock()
		defer p.mx.Unlock()
		if _, ok := p.subs[ch]; !ok {
			return
		}
		delete(p.subs, ch)
		close(ch)
	}
}

func (p *Panel) emit(e Event) {
	p.mx.Lock()
	defer p.mx.Unlock()
	for ch := range p.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
