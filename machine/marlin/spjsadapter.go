package marlin

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mastercactapus/meshradar/machine"
	"github.com/mastercactapus/meshradar/spjs"
)

var lastID int64

func nextID() string {
	id := atomic.AddInt64(&lastID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

// ErrWiped is returned for commands dropped from the bridge's queue.
var ErrWiped = errors.New("wiped queue")

// bridge is the part of *spjs.SPJS used by the adapter.
type bridge interface {
	Messages() chan interface{}
	SendJSON(spjs.JSON)
	WriteString(string)
}

// SPJSAdapter talks to Marlin through a Serial Port JSON Server, which
// handles flow control with its "marlin" buffer algorithm.
type SPJSAdapter struct {
	sp   bridge
	port string
	baud int

	cmds    chan adapterMessage
	waiting map[string]chan error

	mx    sync.Mutex
	last  machine.State
	state chan machine.State
}

var _ machine.Adapter = &SPJSAdapter{}

type adapterMessage struct {
	spjs.JSON
	wait chan error
}

func NewSPJSAdapter(sp *spjs.SPJS, port string, baud int) *SPJSAdapter {
	return newSPJSAdapter(sp, port, baud)
}

func newSPJSAdapter(sp bridge, port string, baud int) *SPJSAdapter {
	adapter := &SPJSAdapter{
		sp:      sp,
		port:    port,
		baud:    baud,
		waiting: make(map[string]chan error, 100),
		cmds:    make(chan adapterMessage, 1000),
		state:   machine.NewStateChan(),
		last:    machine.State{Status: "Idle"},
	}
	go adapter.loop()

	return adapter
}

func (adapter *SPJSAdapter) CurrentState() machine.State {
	adapter.mx.Lock()
	defer adapter.mx.Unlock()
	return adapter.last
}
func (adapter *SPJSAdapter) setMachineState(state machine.State) {
	adapter.mx.Lock()
	adapter.last = state
	machine.PublishState(adapter.state, state)
	adapter.mx.Unlock()
}
func (adapter *SPJSAdapter) handle(resp interface{}) {
	switch msg := resp.(type) {
	case *spjs.DataFrame:
		if msg.Port != "" && msg.Port != adapter.port {
			return
		}
		stat, ok, err := parseStatus(adapter.CurrentState(), msg.Data)
		if err != nil {
			log.Println("ERROR: parse status:", err)
			return
		}
		if ok {
			adapter.setMachineState(*stat)
		}
	case *spjs.CmdStatus:
		switch msg.Cmd {
		case "WipedQueue":
			for key, ch := range adapter.waiting {
				ch <- ErrWiped
				delete(adapter.waiting, key)
			}
		case "Complete":
			if adapter.waiting[msg.ID] != nil {
				adapter.waiting[msg.ID] <- nil
				delete(adapter.waiting, msg.ID)
			}
		}
	case *spjs.SerialPortList:
		for _, port := range msg.SerialPorts {
			if port.Name != adapter.port || port.IsOpen {
				continue
			}
			adapter.sp.WriteString("open " + adapter.port + " " + strconv.Itoa(adapter.baud) + " marlin")
		}
	case *spjs.ErrorMessage:
		log.Println("ERROR: spjs:", msg.Error)
	}
}
func (adapter *SPJSAdapter) loop() {
	for {
		select {
		case resp := <-adapter.sp.Messages():
			adapter.handle(resp)
		case msg := <-adapter.cmds:
			adapter.sp.SendJSON(msg.JSON)
			if msg.wait != nil {
				adapter.waiting[msg.Data[len(msg.Data)-1].ID] = msg.wait
			}
		}
	}
}

func (adapter *SPJSAdapter) State() chan machine.State {
	return adapter.state
}

// ReadFrom sends every line from r in batches of up to 100 and waits for
// the last batch to complete.
func (adapter *SPJSAdapter) ReadFrom(r io.Reader) (n int64, err error) {
	scan := bufio.NewScanner(r)
	var wait chan error
	for {
		var j spjs.JSON
		j.Port = adapter.port
		for scan.Scan() {
			n += int64(len(scan.Bytes())) + 1
			line := strings.TrimSpace(scan.Text())
			if line == "" {
				continue
			}
			j.Data = append(j.Data, spjs.Data{
				Data: line + "\n",
				ID:   nextID(),
			})
			if len(j.Data) == 100 {
				break
			}
		}
		if len(j.Data) == 0 {
			break
		}
		wait = make(chan error, 1)
		adapter.cmds <- adapterMessage{JSON: j, wait: wait}
	}
	if err := scan.Err(); err != nil {
		return n, err
	}

	if wait == nil {
		return n, nil
	}

	// wait for last batch
	return n, <-wait
}
func (adapter *SPJSAdapter) WriteByte(b byte) error {
	_, err := adapter.Write([]byte{b, '\n'})
	return err
}
func (adapter *SPJSAdapter) Write(p []byte) (int, error) {
	_, err := adapter.ReadFrom(bytes.NewReader(p))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
