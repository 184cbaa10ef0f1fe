package machine

import (
	"fmt"

	"github.com/mastercactapus/meshradar/gcode"
)

// BeepOptions configure a beep sequence. Tone and Duration are in menu
// units of 10 Hz and 10 ms.
type BeepOptions struct {
	Count    int
	Tone     int
	Duration int
}

// DefaultBeep is the menu's initial setting.
var DefaultBeep = BeepOptions{Count: 5, Tone: 100, Duration: 100}

// MaxBeepSetting is the upper bound of each beep setting.
const MaxBeepSetting = 100

// Validate checks that every setting is within 0 and MaxBeepSetting.
func (opt BeepOptions) Validate() error {
	check := func(name string, v int) error {
		if v < 0 || v > MaxBeepSetting {
			return fmt.Errorf("beep %s must be between 0 and %d, got %d", name, MaxBeepSetting, v)
		}
		return nil
	}
	if err := check("count", opt.Count); err != nil {
		return err
	}
	if err := check("tone", opt.Tone); err != nil {
		return err
	}
	return check("duration", opt.Duration)
}

func (opt BeepOptions) generate() []gcode.Block {
	b := make([]gcode.Block, 0, opt.Count)
	for i := 0; i < opt.Count; i++ {
		b = append(b, gcode.Beep(float64(opt.Tone*10), float64(opt.Duration*10)))
	}
	return b
}

// Beep plays opt.Count tones on the printer's buzzer.
func (m *Machine) Beep(opt BeepOptions) error {
	b := opt.generate()
	if len(b) == 0 {
		return nil
	}
	return m.runBlocks(b)
}
