package gcode

import (
	"errors"

	"github.com/mastercactapus/meshradar/coord"
)

// VM tracks the motion state a Marlin printer would have after running
// a sequence of blocks.
type VM struct {
	pos coord.Point
	wco coord.Point

	modal [256]float64

	feed  float64
	beeps int
}

// NewVM constructs a new VM with default state.
func NewVM() *VM {
	vm := &VM{}

	// marlin power-on defaults
	vm.modal[ModalGroupMotion] = 0
	vm.modal[ModalGroupCoordinateSystem] = 54
	vm.modal[ModalGroupPlaneSelection] = 17
	vm.modal[ModalGroupDistanceMode] = 90
	vm.modal[ModalGroupUnits] = 21
	vm.modal[ModalGroupExtruderMode] = 82

	return vm
}

func (vm VM) Inches() bool           { return vm.modal[ModalGroupUnits] == 20 }
func (vm VM) Feed() float64          { return vm.feed }
func (vm VM) Beeps() int             { return vm.beeps }
func (vm VM) RelativeMotion() bool   { return vm.modal[ModalGroupDistanceMode] == 91 }
func (vm VM) RelativeExtruder() bool { return vm.modal[ModalGroupExtruderMode] == 83 }

// WPos is the position in the active (G92 offset) coordinates.
func (vm VM) WPos() coord.Point {
	return vm.pos.Sub(vm.wco)
}

// MPos is the machine position.
func (vm VM) MPos() coord.Point {
	return vm.pos
}

func isSupported(g Word) bool {
	switch g.W {
	case 'X', 'Y', 'Z', 'E', 'F', 'S', 'P':
		return true
	case 'G':
		switch g.Arg {
		case 0, 1, 4, 20, 21, 28, 53, 90, 91, 92:
			return true
		}
	case 'M':
		switch g.Arg {
		case 82, 83, 114, 154, 300, 400:
			return true
		}
	}

	return false
}

func applyBlock(p coord.Point, b Block, mul float64) coord.Point {
	for _, g := range b {
		switch g.W {
		case 'X':
			p.X = g.Arg * mul
		case 'Y':
			p.Y = g.Arg * mul
		case 'Z':
			p.Z = g.Arg * mul
		}
	}

	return p
}

// Run applies b, returning an error for codes the VM does not know.
func (vm *VM) Run(b Block) error {
	err := b.Validate()
	if err != nil {
		return err
	}
	for _, g := range b {
		if !isSupported(g) {
			return errors.New("unsupported code: " + g.String())
		}
	}

	var machineCoords, home, setPos bool
	for _, g := range b {
		if mg := g.ModalGroup(); mg.Sticky() {
			vm.modal[mg] = g.Arg
		}
		switch {
		case g.Is('G', 53):
			machineCoords = true
		case g.Is('G', 28):
			home = true
		case g.Is('G', 92):
			setPos = true
		case g.Is('M', 300):
			vm.beeps++
		case g.W == 'F':
			vm.feed = g.Arg
		}
	}
	if home {
		// all axes home to machine zero
		vm.pos = coord.Point{}
		vm.wco = coord.Point{}
		return nil
	}

	mul := 1.0
	if vm.Inches() {
		mul = 25.4
	}

	args := b.Args()
	if setPos {
		// make the current position read as the given coordinates
		vm.wco = vm.pos.Sub(applyBlock(vm.WPos(), args, mul))
		return nil
	}
	if len(args) == 0 {
		return nil
	}

	// apply motion
	if vm.RelativeMotion() {
		vm.pos = vm.pos.Add(applyBlock(coord.Point{}, args, mul))
	} else if machineCoords {
		vm.pos = applyBlock(vm.pos, args, 1)
	} else {
		vm.pos = applyBlock(vm.WPos(), args, mul).Add(vm.wco)
	}

	return nil
}
