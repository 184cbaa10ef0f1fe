package gcode

// ModalGroup is a set of words where at most one may appear in a block.
type ModalGroup byte

const (
	ModalGroupNone ModalGroup = iota
	ModalGroupNonModal
	ModalGroupMotion
	ModalGroupPlaneSelection
	ModalGroupDistanceMode
	ModalGroupUnits
	ModalGroupCoordinateSystem
	ModalGroupExtruderMode
	ModalGroupFeedRate

	// ModalGroupCommand holds the remaining M codes; Marlin runs one per line.
	ModalGroupCommand
)

// Sticky reports if a word from the group stays in effect for later blocks.
func (m ModalGroup) Sticky() bool {
	switch m {
	case ModalGroupNone, ModalGroupNonModal, ModalGroupCommand:
		return false
	}
	return true
}

// ModalGroup returns the group of w as Marlin interprets it.
func (w Word) ModalGroup() ModalGroup {
	switch w.W {
	case 'G':
		switch w.Arg {
		case 4, 10, 11, 28, 29, 53, 92:
			return ModalGroupNonModal
		case 0, 1, 2, 3, 5:
			return ModalGroupMotion
		case 17, 18, 19:
			return ModalGroupPlaneSelection
		case 90, 91:
			return ModalGroupDistanceMode
		case 20, 21:
			return ModalGroupUnits
		case 54, 55, 56, 57, 58, 59, 59.1, 59.2, 59.3:
			return ModalGroupCoordinateSystem
		}
	case 'M':
		switch w.Arg {
		case 82, 83:
			return ModalGroupExtruderMode
		}
		return ModalGroupCommand
	case 'F':
		return ModalGroupFeedRate
	}

	return ModalGroupNone
}
