package grid

import "math"

// Bounds describe one axis of the bed and the machine travel along it.
type Bounds struct {
	BedMin, BedMax       float64
	TravelMin, TravelMax float64

	// Inset keeps mesh points away from the bed edges.
	Inset float64
}

// Mesh returns the usable region of the axis: the inset bed, clamped
// to the machine travel.
func (b Bounds) Mesh() (lo, hi float64) {
	lo = math.Max(b.BedMin+b.Inset, b.TravelMin)
	hi = math.Min(b.BedMax-b.Inset, b.TravelMax)
	return lo, hi
}

// Axis maps an index along one grid axis to a physical position.
//
// Positions for valid indexes come from a table computed once; any other
// index is extrapolated from the first point and the cell width.
type Axis struct {
	table []float64
	lo    float64
	cell  float64
}

// NewAxis divides [lo, hi] into points-1 equal cells.
func NewAxis(points int, lo, hi float64) Axis {
	a := Axis{lo: lo}
	if points < 1 {
		return a
	}
	if points > 1 {
		a.cell = (hi - lo) / float64(points-1)
	}

	a.table = make([]float64, points)
	for i := range a.table {
		a.table[i] = lo + float64(i)*a.cell
	}
	// ends are exact, not accumulated
	a.table[0] = lo
	if points > 1 {
		a.table[points-1] = hi
	}

	return a
}

// Len returns the number of points on the axis.
func (a Axis) Len() int { return len(a.table) }

// Cell returns the distance between neighboring points.
func (a Axis) Cell() float64 { return a.cell }

// Position returns the physical position of index i.
func (a Axis) Position(i int) float64 {
	if i >= 0 && i < len(a.table) {
		return a.table[i]
	}
	return a.lo + float64(i)*a.cell
}
