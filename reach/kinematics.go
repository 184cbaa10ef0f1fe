package reach

import (
	"errors"

	"github.com/mastercactapus/meshradar/coord"
)

// Options select and configure a Policy.
type Options struct {
	// Kinematics is one of "cartesian", "corexy", "bounded", "delta", "polar" or "envelope".
	Kinematics string

	// Travel limits XY moves on "bounded" machines.
	Travel Rect

	// PrintRadius is used by delta and polar machines.
	PrintRadius      float64
	CenterX, CenterY float64

	// EnvelopePoints are measured reachable positions, for "envelope".
	EnvelopePoints []coord.Point
}

// ForKinematics picks the Policy for the configured machine.
func ForKinematics(opt Options) (Policy, error) {
	switch opt.Kinematics {
	case "", "cartesian", "corexy":
		return Always{}, nil
	case "bounded":
		if opt.Travel.MaxX <= opt.Travel.MinX || opt.Travel.MaxY <= opt.Travel.MinY {
			return nil, errors.New("bounded kinematics need a non-empty travel area")
		}
		return Guarded(opt.Travel), nil
	case "delta", "polar":
		if opt.PrintRadius <= 0 {
			return nil, errors.New(opt.Kinematics + " kinematics need a print radius")
		}
		return Guarded(Radius{CenterX: opt.CenterX, CenterY: opt.CenterY, R: opt.PrintRadius}), nil
	case "envelope":
		env, err := NewEnvelope(opt.EnvelopePoints)
		if err != nil {
			return nil, err
		}
		return Guarded(env), nil
	}

	return nil, errors.New("unsupported kinematics: " + opt.Kinematics)
}
