// Package spjs is a client for the Serial Port JSON Server, which exposes
// serial ports on another host over a websocket.
package spjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// ReconnectDelay is the wait between connection attempts.
var ReconnectDelay = 3 * time.Second

type SPJS struct {
	url string

	outgoing  chan message
	incomming chan interface{}
	closeCh   chan struct{}
}

type message struct {
	done    chan struct{}
	payload []byte
}

// DataFrame is a line read from a serial port.
type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}

// CmdStatus reports progress of queued commands.
type CmdStatus struct {
	Cmd        string
	QueueCount int `json:"QCnt"`
	Type       []string
	Data       []string `json:"D"`
	ID         string   `json:"Id"`
}

type ErrorMessage struct {
	Error string
}
type SerialPortList struct {
	SerialPorts []SerialPort
}
type SerialPort struct {
	Name            string
	Friendly        string
	IsOpen          bool
	Baud            int
	BufferAlgorithm string
}

// New connects to the server at url in the background, reconnecting
// until Close is called.
func New(url string) *SPJS {
	sp := &SPJS{
		url:       url,
		outgoing:  make(chan message, 1000),
		incomming: make(chan interface{}, 1000),
		closeCh:   make(chan struct{}),
	}

	go sp.loop()

	return sp
}

// Messages returns parsed messages from the server.
func (sp *SPJS) Messages() chan interface{} {
	return sp.incomming
}

// Close stops reconnecting and drops the connection.
func (sp *SPJS) Close() error {
	close(sp.closeCh)
	return nil
}

func parseMessage(data []byte, msg map[string]json.RawMessage) (val interface{}, err error) {
	check := func(fieldName string, v interface{}) bool {
		if msg[fieldName] == nil {
			return false
		}
		val = v
		err = json.Unmarshal(data, val)
		return true
	}
	if check("Error", &ErrorMessage{}) {
		return
	}
	if check("SerialPorts", &SerialPortList{}) {
		return
	}
	if check("Cmd", &CmdStatus{}) {
		return
	}
	if check("D", &DataFrame{}) {
		return
	}

	return nil, errors.New("unknown message: " + string(data))
}

func (sp *SPJS) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			log.Println("ERROR: spjs read:", err)
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// ignore echo messages
			continue
		}
		var msg map[string]json.RawMessage
		err = json.Unmarshal(data, &msg)
		if err != nil {
			log.Println("ERROR: spjs read:", err)
			continue
		}
		val, err := parseMessage(data, msg)
		if err != nil {
			log.Println("ERROR: spjs parse:", err)
			continue
		}
		sp.incomming <- val
	}
}

func (sp *SPJS) loop() {
	var nextUp message

reconnect:
	for {
		select {
		case <-sp.closeCh:
			return
		default:
		}

		log.Println("Connecting to", sp.url)
		ws, _, err := websocket.DefaultDialer.Dial(sp.url, nil)
		if err != nil {
			log.Println("ERROR: spjs connect:", err)
			select {
			case <-sp.closeCh:
				return
			case <-time.After(ReconnectDelay):
			}
			continue
		}
		log.Println("Connected.")
		ch := make(chan struct{})
		go sp.readLoop(ws, ch)
		go sp.WriteString("list") // refresh list on reconnect

		for {
			if nextUp.done != nil {
				err = ws.WriteMessage(websocket.TextMessage, nextUp.payload)
				if err != nil {
					log.Println("ERROR: spjs send:", err)
					ws.Close()
					continue reconnect
				}
				close(nextUp.done)
				nextUp.done = nil
			}

			select {
			case <-sp.closeCh:
				ws.Close()
				return
			case <-ch:
				continue reconnect
			case nextUp = <-sp.outgoing:
			}
		}
	}
}

// JSON is a batch of lines for a serial port.
type JSON struct {
	Port string `json:"P"`
	Data []Data
}
type Data struct {
	Data string `json:"D"`
	ID   string `json:"Id"`
}

// SendJSON queues lines for a port using the server's "sendjson" command.
func (sp *SPJS) SendJSON(v JSON) {
	data, err := json.Marshal(v)
	if err != nil {
		// shouldn't happen since we control everything that's sent out
		log.Panicln("ERROR: sendjson (marshal):", err)
		return
	}

	sp.send(append([]byte("sendjson "), data...))
}

// WriteString sends a raw server command such as "list".
func (sp *SPJS) WriteString(data string) {
	sp.send([]byte(data))
}

func (sp *SPJS) send(payload []byte) {
	ch := make(chan struct{})
	select {
	case sp.outgoing <- message{done: ch, payload: payload}:
	case <-sp.closeCh:
		return
	}
	select {
	case <-ch:
	case <-sp.closeCh:
	}
}
