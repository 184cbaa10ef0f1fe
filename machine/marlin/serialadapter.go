package marlin

import (
	"bufio"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mastercactapus/meshradar/gcode"
	"github.com/mastercactapus/meshradar/machine"
	"github.com/tarm/serial"
)

// SerialAdapter talks to Marlin over a direct serial connection.
type SerialAdapter struct {
	*Conn

	mx    sync.Mutex
	last  machine.State
	state chan machine.State
	data  chan string
}

var _ machine.Adapter = &SerialAdapter{}

// OpenSerial opens a serial port and connects to the firmware on it.
func OpenSerial(name string, baud int) (*SerialAdapter, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name: name,
		Baud: baud,
	})
	if err != nil {
		return nil, err
	}
	adapter := NewSerialAdapter(port, DefaultBufferLines)
	go func() {
		// opening the port resets most boards
		time.Sleep(2 * time.Second)
		err := adapter.EnablePositionReports()
		if err != nil {
			log.Println("ERROR: enable position reports:", err)
		}
	}()
	return adapter, nil
}

// NewSerialAdapter starts reading from rw.
func NewSerialAdapter(rw io.ReadWriter, bufferLines int) *SerialAdapter {
	adapter := &SerialAdapter{
		Conn:  NewConn(rw, bufferLines),
		state: machine.NewStateChan(),
		data:  make(chan string),
		last:  machine.State{Status: "Idle"},
	}
	go adapter.loop()
	go adapter.readLoop()

	return adapter
}

// EnablePositionReports asks the firmware to report its position every second.
func (adapter *SerialAdapter) EnablePositionReports() error {
	_, err := adapter.Write([]byte(gcode.AutoReportPosition(1).String() + "\n"))
	return err
}

func (adapter *SerialAdapter) readLoop() {
	defer close(adapter.data)
	buf := make([]byte, bufio.MaxScanTokenSize)
	for {
		n, err := adapter.Read(buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return
		}
		if err != nil {
			log.Println("ERROR: read from port:", err)
			continue
		}
		adapter.data <- string(buf[:n])
	}
}
func (adapter *SerialAdapter) State() chan machine.State { return adapter.state }
func (adapter *SerialAdapter) CurrentState() machine.State {
	adapter.mx.Lock()
	state := adapter.last
	adapter.mx.Unlock()
	return state
}
func (adapter *SerialAdapter) loop() {
	for data := range adapter.data {
		if len(data) == 0 {
			continue
		}
		stat, ok, err := parseStatus(adapter.CurrentState(), data)
		if err != nil {
			log.Println("ERROR: parse status:", err)
			continue
		}
		if !ok {
			continue
		}
		adapter.mx.Lock()
		adapter.last = *stat
		machine.PublishState(adapter.state, *stat)
		adapter.mx.Unlock()
	}
}
