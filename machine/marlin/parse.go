package marlin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/machine"
)

// parsePosition parses an M114 or M154 report such as
//
//	X:10.00 Y:20.00 Z:0.00 E:0.00 Count X:800 Y:1600 Z:0
func parsePosition(data string) (p coord.Point, err error) {
	data = strings.TrimSpace(data)
	if i := strings.Index(data, " Count"); i >= 0 {
		data = data[:i]
	}

	var seen int
	for _, field := range strings.Fields(data) {
		parts := strings.SplitN(field, ":", 2)
		if len(parts) != 2 {
			return p, errors.New("invalid position field: " + field)
		}
		var dst *float64
		switch parts[0] {
		case "X":
			dst = &p.X
		case "Y":
			dst = &p.Y
		case "Z":
			dst = &p.Z
		default:
			continue
		}
		*dst, err = strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return p, err
		}
		seen++
	}
	if seen != 3 {
		return p, errors.New("incomplete position report: " + data)
	}

	return p, nil
}

func isPosition(data string) bool {
	return strings.HasPrefix(strings.TrimSpace(data), "X:")
}

// parseStatus applies a line from the firmware to stat. It returns false
// if the line carries no status.
func parseStatus(stat machine.State, data string) (*machine.State, bool, error) {
	data = strings.TrimSpace(data)
	switch {
	case isPosition(data):
		p, err := parsePosition(data)
		if err != nil {
			return nil, false, err
		}
		stat.Pos = p
	case strings.HasPrefix(data, "echo:busy:"):
		stat.Status = "Busy"
	case strings.HasPrefix(data, "ok"):
		stat.Status = "Idle"
	case data == "start":
		stat.Status = "Reset"
	default:
		return &stat, false, nil
	}
	return &stat, true, nil
}
