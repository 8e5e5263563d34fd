package core

import "github.com/google/uuid"

// Frame is one encoded outbound event.
type Frame []byte

// SessionID identifies a single connection. It is minted per connection and
// never reused, so membership sets can be copied and compared cheaply.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// SignalConnection abstracts the messaging transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
