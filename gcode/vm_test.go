package gcode

import (
	"testing"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/stretchr/testify/assert"
)

func runAll(t *testing.T, vm *VM, data string) {
	for _, b := range MustParse(data) {
		assert.NoError(t, vm.Run(b), b.String())
	}
}

func TestVM_Run(t *testing.T) {
	vm := NewVM()

	runAll(t, vm, "G90\nG0 X25 Y49.5 F3000\n")
	assert.Equal(t, coord.Point{X: 25, Y: 49.5}, vm.MPos())
	assert.Equal(t, 3000.0, vm.Feed())

	runAll(t, vm, "G91\nG0 X5\n")
	assert.Equal(t, coord.Point{X: 30, Y: 49.5}, vm.MPos())
	assert.True(t, vm.RelativeMotion())

	runAll(t, vm, "G28\n")
	assert.Equal(t, coord.Point{}, vm.MPos())
}

func TestVM_Marlin(t *testing.T) {
	vm := NewVM()

	runAll(t, vm, "M300 S1000 P500\nM300 S1000 P500\nM114\nM154 S1\n")
	assert.Equal(t, 2, vm.Beeps())
	assert.Equal(t, coord.Point{}, vm.MPos())

	err := vm.Run(Block{{W: 'M', Arg: 104}, {W: 'S', Arg: 200}})
	assert.Error(t, err)
}

func TestVM_SetPosition(t *testing.T) {
	vm := NewVM()

	runAll(t, vm, "G0 X10 Y10\nG92 X0\n")
	assert.Equal(t, coord.Point{X: 10, Y: 10}, vm.MPos())
	assert.Equal(t, coord.Point{Y: 10}, vm.WPos())

	runAll(t, vm, "G0 X5\n")
	assert.Equal(t, coord.Point{X: 15, Y: 10}, vm.MPos())

	runAll(t, vm, "G53 G0 X5\n")
	assert.Equal(t, coord.Point{X: 5, Y: 10}, vm.MPos())

	runAll(t, vm, "G20\nG0 X1\n")
	assert.InDelta(t, 25.4+10, vm.MPos().X, 1e-9)

	runAll(t, vm, "G28\n")
	assert.Equal(t, coord.Point{}, vm.WPos())
}

func TestVM_Validate(t *testing.T) {
	vm := NewVM()
	assert.Error(t, vm.Run(Block{{W: 'G', Arg: 0}, {W: 'G', Arg: 1}}))
	assert.Error(t, vm.Run(Block{{W: 'M', Arg: 300}, {W: 'M', Arg: 400}}))
	assert.NoError(t, vm.Run(Block{{W: 'M', Arg: 83}}))
	assert.True(t, vm.RelativeExtruder())
}
