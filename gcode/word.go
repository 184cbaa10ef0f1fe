package gcode

import (
	"strconv"
	"strings"
)

// Word is a letter and its numeric argument, like G1 or X25.
type Word struct {
	W   byte
	Arg float64
}

// IsAxis reports if w positions a linear axis.
func (w Word) IsAxis() bool {
	switch w.W {
	case 'X', 'Y', 'Z':
		return true
	}
	return false
}

func (w Word) IsValid() bool {
	return w.W >= 'A' && w.W <= 'Z'
}

// Is reports if w is the letter l with argument arg.
func (w Word) Is(l byte, arg float64) bool {
	return w.W == l && w.Arg == arg
}

// formatFloat trims trailing zeros, Marlin reads at most prec digits
// after the point anyway.
func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func (w Word) String() string {
	return string(w.W) + formatFloat(w.Arg, 3)
}
