package marlin

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
)

// DefaultBufferLines matches Marlin's default BUFSIZE.
const DefaultBufferLines = 4

// ErrReset will be returned from write methods if the firmware restarts
// before all commands are acknowledged.
var ErrReset = errors.New("marlin reset")

// Conn represents a direct connection to a Marlin controller.
//
// Lines are written as long as fewer than the configured number of
// lines are waiting for an "ok".
type Conn struct {
	rw          io.ReadWriter
	bufferLines int

	readBuf []byte
	scan    *bufio.Scanner
	closeCh chan struct{}
	closed  sync.Once

	// lastErr is only used by the reading goroutine.
	lastErr error

	mx  sync.Mutex
	wMx sync.Mutex

	ackMx    sync.Mutex
	ackCond  *sync.Cond
	wrote    int64
	acked    int64
	resets   int
	lineErrs map[int64]error
}

// NewConn creates a new Conn using the provided ReadWriter for data.
//
// If bufferLines is less than 1, DefaultBufferLines is used.
func NewConn(rw io.ReadWriter, bufferLines int) *Conn {
	if bufferLines < 1 {
		bufferLines = DefaultBufferLines
	}
	scan := bufio.NewScanner(rw)
	scan.Buffer(make([]byte, 0, 256), bufio.MaxScanTokenSize)
	c := &Conn{
		scan:        scan,
		rw:          rw,
		bufferLines: bufferLines,
		closeCh:     make(chan struct{}),
		lineErrs:    make(map[int64]error),
	}
	c.ackCond = sync.NewCond(&c.ackMx)
	return c
}

// Close will abort any in-progress writes and close the
// underlying ReadWriter, if it implements io.Closer.
func (c *Conn) Close() error {
	var err error
	c.closed.Do(func() {
		close(c.closeCh)
		c.ackMx.Lock()
		c.ackCond.Broadcast()
		c.ackMx.Unlock()
		if closer, ok := c.rw.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

func (c *Conn) isClosed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

// wait blocks until ready is true. c.ackMx must be held.
func (c *Conn) wait(resets int, ready func() bool) error {
	for {
		// a reset also marks every line acknowledged
		if c.resets != resets {
			return ErrReset
		}
		if ready() {
			return nil
		}
		if c.isClosed() {
			return io.ErrClosedPipe
		}
		c.ackCond.Wait()
	}
}

// writeLine will block until there is room for line in the firmware's
// command buffer and line has been written in full.
//
// It returns the line index.
func (c *Conn) writeLine(line []byte, resets int) (int64, error) {
	c.ackMx.Lock()
	err := c.wait(resets, func() bool { return c.wrote-c.acked < int64(c.bufferLines) })
	if err != nil {
		c.ackMx.Unlock()
		return 0, err
	}
	// counted before writing so an immediate "ok" is not taken as stray
	c.wrote++
	id := c.wrote
	c.ackMx.Unlock()

	c.mx.Lock()
	_, err = c.rw.Write(line)
	c.mx.Unlock()
	if err != nil {
		c.ackMx.Lock()
		c.wrote--
		c.ackMx.Unlock()
		return 0, err
	}
	return id, nil
}

// failed reports if any line up to id was rejected.
func (c *Conn) failed(id int64) bool {
	c.ackMx.Lock()
	defer c.ackMx.Unlock()
	for n := range c.lineErrs {
		if n <= id {
			return true
		}
	}
	return false
}

// waitForLine waits until every line up to id is acknowledged and
// returns the first error reported for them.
func (c *Conn) waitForLine(id int64, resets int) error {
	c.ackMx.Lock()
	defer c.ackMx.Unlock()

	err := c.wait(resets, func() bool { return c.acked >= id })
	if err != nil {
		return err
	}

	first := int64(-1)
	for n, e := range c.lineErrs {
		if n > id {
			continue
		}
		if first == -1 || n < first {
			first = n
			err = e
		}
		delete(c.lineErrs, n)
	}
	return err
}

// ReadFrom returns after all lines have been sent and acknowledged.
func (c *Conn) ReadFrom(r io.Reader) (n int64, err error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()
	return c.readFrom(r)
}

func (c *Conn) readFrom(r io.Reader) (n int64, err error) {
	if c.isClosed() {
		return 0, io.ErrClosedPipe
	}

	c.ackMx.Lock()
	resets := c.resets
	lastID := c.wrote
	c.ackMx.Unlock()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		buf := make([]byte, 0, len(line)+1)
		id, err := c.writeLine(append(append(buf, line...), '\n'), resets)
		if err != nil {
			if err == io.ErrClosedPipe || err == ErrReset {
				return n, err
			}
			// let the lines already sent finish
			c.waitForLine(lastID, resets)
			return n, err
		}
		lastID = id
		n += int64(len(line)) + 1

		// stop at the first rejected line
		if c.failed(lastID) {
			break
		}
	}
	err = c.waitForLine(lastID, resets)
	if err != nil {
		return n, err
	}

	return n, scanner.Err()
}

// Write will return after all lines have been sent and acknowledged.
func (c *Conn) Write(p []byte) (int, error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()

	n, err := c.readFrom(bytes.NewReader(p))
	return int(n), err
}

// WriteByte will write directly to the serial device without
// accounting for buffering.
//
// Use for emergency commands that Marlin handles on receipt.
func (c *Conn) WriteByte(p byte) (err error) {
	if c.isClosed() {
		return io.ErrClosedPipe
	}
	c.mx.Lock()
	_, err = c.rw.Write([]byte{p})
	c.mx.Unlock()
	return err
}

// ack acknowledges the oldest unacknowledged line. An "ok" with nothing
// outstanding, such as one left over from before a reconnect, is dropped.
func (c *Conn) ack(err error) {
	c.ackMx.Lock()
	defer c.ackMx.Unlock()
	if c.acked >= c.wrote {
		return
	}
	c.acked++
	if err != nil {
		c.lineErrs[c.acked] = err
	}
	c.ackCond.Broadcast()
}

// restarted drops everything in flight; the firmware lost it.
func (c *Conn) restarted() {
	c.ackMx.Lock()
	defer c.ackMx.Unlock()
	c.acked = c.wrote
	c.resets++
	for n := range c.lineErrs {
		delete(c.lineErrs, n)
	}
	c.ackCond.Broadcast()
}

// Read will read the next line from the device.
func (c *Conn) Read(p []byte) (n int, err error) {
	if c.isClosed() {
		return 0, io.ErrClosedPipe
	}

	if c.readBuf != nil {
		if len(p) < len(c.readBuf) {
			return 0, io.ErrShortBuffer
		}
		n = copy(p, c.readBuf)
		c.readBuf = nil
		return n, nil
	}
	if !c.scan.Scan() {
		err = c.scan.Err()
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	data := bytes.TrimRight(c.scan.Bytes(), "\r")

	switch {
	case bytes.HasPrefix(data, []byte("ok")):
		err, c.lastErr = c.lastErr, nil
		c.ack(err)
	case bytes.HasPrefix(data, []byte("Error:")):
		if c.lastErr == nil {
			c.lastErr = errors.New(strings.TrimSpace(string(data)))
		}
	case bytes.Equal(data, []byte("start")):
		c.lastErr = nil
		c.restarted()
	}

	if len(p) < len(data) {
		c.readBuf = append([]byte(nil), data...)
		return 0, io.ErrShortBuffer
	}

	return copy(p, data), nil
}
