package gcode

import "io"

// Reader is a source of blocks. Parser and BlocksReader implement it.
type Reader interface {
	Read() (Block, error)
}

// BlocksReader reads from a fixed list of blocks.
type BlocksReader struct {
	Blocks []Block
	n      int
}

// NewBlocksReader returns a Reader for b.
func NewBlocksReader(b ...Block) *BlocksReader {
	return &BlocksReader{Blocks: b}
}

func (b *BlocksReader) Read() (Block, error) {
	if b.n >= len(b.Blocks) {
		return nil, io.EOF
	}

	b.n++
	return b.Blocks[b.n-1], nil
}

// Remaining is the number of blocks not read yet.
func (b *BlocksReader) Remaining() int { return len(b.Blocks) - b.n }
