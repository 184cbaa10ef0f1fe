package radar

import "github.com/mastercactapus/meshradar/coord"

// Encoder is the free-running input counter owned by the host.
type Encoder interface {
	Encoder() int
	SetEncoder(v int)
}

// UI is the per-frame view of the host display loop.
type UI interface {
	Encoder

	// FirstPage is true on the first draw page of a frame.
	FirstPage() bool

	// UseClick reports and consumes a pending click.
	UseClick() bool

	// ShouldDraw is true when the current page is being drawn.
	ShouldDraw() bool

	// Plot draws the selection marker at grid column x, row y.
	Plot(x, y int)

	// Refresh requests a full redraw on the next frame.
	Refresh()

	// GoBack leaves the radar screen.
	GoBack()
}

// Mover schedules a move to an absolute XY position.
//
// ScheduleMove must not block; the destination is handed off to the
// motion system, which decides how successive destinations are sequenced.
type Mover interface {
	ScheduleMove(p coord.Point)
}
