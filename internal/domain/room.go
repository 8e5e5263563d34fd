// Package domain contains value types without transport or locking logic.
package domain

import (
	"errors"
	"strings"
)

const MaxRoomIDLen = 64

var (
	ErrInvalidRoomID = errors.New("invalid room name")
	ErrRoomIDTooLong = errors.New("room name too long")
)

type RoomID string

// NewRoomID trims surrounding whitespace and rejects empty or oversized names.
func NewRoomID(raw string) (RoomID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrInvalidRoomID
	}
	if len(id) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(id), nil
}

// SelfSender labels a chat line echoed back to its author.
const SelfSender = "You"
