// Package reach decides which physical XY positions a machine can move to.
package reach

// A Predicate reports whether the machine can reach (x, y).
type Predicate interface {
	Reachable(x, y float64) bool
}

// PredicateFunc adapts a function to a Predicate.
type PredicateFunc func(x, y float64) bool

func (fn PredicateFunc) Reachable(x, y float64) bool { return fn(x, y) }

// A Policy is chosen once at startup from the machine kinematics.
type Policy interface {
	Predicate

	// Guarded is false when every grid point is known to be reachable,
	// letting callers skip searching for reachable points.
	Guarded() bool
}

// Always is the policy for cartesian machines.
type Always struct{}

func (Always) Reachable(x, y float64) bool { return true }
func (Always) Guarded() bool               { return false }

type guarded struct{ Predicate }

func (guarded) Guarded() bool { return true }

// Guarded returns a Policy that checks every position against p.
func Guarded(p Predicate) Policy {
	return guarded{Predicate: p}
}
