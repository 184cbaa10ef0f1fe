package panel

import (
	"github.com/mastercactapus/meshradar/grid"
	"github.com/mastercactapus/meshradar/radar"
)

// display is the Panel as seen by the radar screen. Its methods are only
// called from the Run goroutine.
type display Panel

var _ radar.UI = &display{}

func (d *display) Encoder() int     { return d.encoder }
func (d *display) SetEncoder(v int) { d.encoder = v }
func (d *display) FirstPage() bool  { return d.page == 0 }
func (d *display) ShouldDraw() bool { return d.redraw }
func (d *display) Refresh()         { d.refresh = true }
func (d *display) GoBack()          { (*Panel)(d).setScreen(ScreenMenu) }
func (d *display) UseClick() bool {
	c := d.click
	d.click = false
	return c
}

func (d *display) Plot(x, y int) {
	d.plotted = &grid.Coordinate{X: x, Y: y}
}
