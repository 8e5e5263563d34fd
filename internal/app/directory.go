package app

import (
	"context"
	"sync"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/rs/zerolog/log"
)

type peerEntry struct {
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// Directory maps live session ids to their transport endpoints. Rooms only
// ever hold session ids; the dispatcher resolves them here at send time.
type Directory struct {
	mu    sync.RWMutex
	peers map[core.SessionID]*peerEntry
}

func NewDirectory() *Directory {
	return &Directory{
		peers: make(map[core.SessionID]*peerEntry),
	}
}

func (d *Directory) Bind(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peers[sid] = &peerEntry{Signal: conn, Cancel: cancel}
	log.Info().Str("module", "app.directory").Str("sid", string(sid)).Msg("bound signal")
}

func (d *Directory) Lookup(sid core.SessionID) (core.SignalConnection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.peers[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (d *Directory) Unbind(sid core.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.peers, sid)
	log.Info().Str("module", "app.directory").Str("sid", string(sid)).Msg("unbind signal")
}

// CancelAll stops every live session, used on shutdown.
func (d *Directory) CancelAll() int {
	d.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(d.peers))
	for _, e := range d.peers {
		if e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
	}
	d.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels)
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.peers)
}
