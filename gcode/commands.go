package gcode

import "github.com/mastercactapus/meshradar/coord"

// MoveXY returns blocks for an absolute rapid move in X and Y.
//
// A feed of zero leaves the current feed rate unchanged.
func MoveXY(p coord.Point, feed float64) []Block {
	move := Block{
		{W: 'G', Arg: 0},
		{W: 'X', Arg: p.X},
		{W: 'Y', Arg: p.Y},
	}
	if feed > 0 {
		move = append(move, Word{W: 'F', Arg: feed})
	}
	return []Block{
		{{W: 'G', Arg: 90}},
		move,
	}
}

// Home returns the homing command for all axes.
func Home() Block {
	return Block{{W: 'G', Arg: 28}}
}

// Beep plays a tone of freq Hz for ms milliseconds.
func Beep(freq, ms float64) Block {
	return Block{
		{W: 'M', Arg: 300},
		{W: 'S', Arg: freq},
		{W: 'P', Arg: ms},
	}
}

// ReportPosition requests a single position report.
func ReportPosition() Block {
	return Block{{W: 'M', Arg: 114}}
}

// AutoReportPosition asks the firmware to report its position every
// interval seconds; zero disables reporting.
func AutoReportPosition(interval float64) Block {
	return Block{
		{W: 'M', Arg: 154},
		{W: 'S', Arg: interval},
	}
}
