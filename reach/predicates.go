package reach

// Rect limits XY travel to a rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (r Rect) Reachable(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Radius limits XY travel to a circle, as on delta and polar machines.
type Radius struct {
	CenterX, CenterY float64
	R                float64
}

func (r Radius) Reachable(x, y float64) bool {
	dx := x - r.CenterX
	dy := y - r.CenterY
	return dx*dx+dy*dy <= r.R*r.R
}
