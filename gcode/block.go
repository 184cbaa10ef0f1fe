package gcode

import (
	"fmt"
	"strings"
)

// Block is a single line of G-code.
type Block []Word

// String formats b with words separated by spaces, as firmware expects.
func (b Block) String() string {
	parts := make([]string, len(b))
	for i, w := range b {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

// Arg returns the argument of the first word with letter w.
func (b Block) Arg(w byte) (bool, float64) {
	for _, g := range b {
		if g.W == w {
			return true, g.Arg
		}
	}
	return false, 0
}

// Args returns the parameter words of b, those outside any modal group.
func (b Block) Args() Block {
	res := make(Block, 0, len(b))
	for _, g := range b {
		if g.ModalGroup() == ModalGroupNone {
			res = append(res, g)
		}
	}
	return res
}

// Validate checks that no letter other than G repeats and that no two
// words share a modal group.
func (b Block) Validate() error {
	var seenWord [256]bool
	var seenModal [256]bool

	for _, g := range b {
		if !g.IsValid() {
			return fmt.Errorf("invalid word %q in block", g.W)
		}
		if g.W != 'G' && seenWord[g.W] {
			return fmt.Errorf("%c repeated in block '%s'", g.W, b)
		}
		seenWord[g.W] = true

		m := g.ModalGroup()
		if m != ModalGroupNone && seenModal[m] {
			return fmt.Errorf("multiple words from the same modal group in block '%s'", b)
		}
		seenModal[m] = true
	}

	return nil
}
