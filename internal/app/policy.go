package app

import "github.com/dkeye/WatchParty/internal/core"

// Policy decides who may drive a room's shared player.
type Policy interface {
	MaySetMedia(host, caller core.SessionID) bool
	MayControlPlayback(host, caller core.SessionID) bool
}

// SimplePolicy optionally restricts media selection and playback control to
// the room host.
type SimplePolicy struct {
	HostOnlyMedia    bool
	HostOnlyPlayback bool
}

func (p SimplePolicy) MaySetMedia(host, caller core.SessionID) bool {
	return !p.HostOnlyMedia || host == caller
}

func (p SimplePolicy) MayControlPlayback(host, caller core.SessionID) bool {
	return !p.HostOnlyPlayback || host == caller
}
