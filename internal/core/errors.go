package core

import "errors"

var (
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrRoomNotFound      = errors.New("room not found")
	ErrNotHost           = errors.New("only the host can do that")
)

// ErrNoMedia is returned for playback updates before any media is set.
var ErrNoMedia = errors.New("no media loaded")
