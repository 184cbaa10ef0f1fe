package machine

import "io"

// An Adapter represents the minimal printer connection.
type Adapter interface {
	State() chan State
	CurrentState() State

	WriteByte(byte) error
	Write([]byte) (int, error)
	ReadFrom(io.Reader) (int64, error)
}

// NewStateChan returns a channel for Adapter.State that holds the most
// recent update.
func NewStateChan() chan State { return make(chan State, 1) }

// PublishState replaces any unread value in ch with s. Callers with
// more than one publisher must serialize calls to keep the newest value.
func PublishState(ch chan State, s State) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
