package gcode

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_Read(t *testing.T) {
	blocks := []Block{
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 2}},

		{{W: 'M', Arg: 300}, {W: 'S', Arg: 1000}},
	}

	gr := &BlocksReader{Blocks: blocks}

	b := NewBuffer(gr)

	buf := make([]byte, 32)
	n, err := b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, []byte("G1 X2\nM300 S1000\n"), buf[:n])

	n, err = b.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)
}

func TestBuffer_ReadShort(t *testing.T) {
	b := NewBuffer(NewBlocksReader(Home()))

	buf := make([]byte, 2)
	n, err := b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, "G2", string(buf[:n]))

	n, err = b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, "8\n", string(buf[:n]))

	_, err = b.Read(buf)
	assert.Equal(t, io.EOF, err)
}
