package orch

import (
	"errors"

	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/dkeye/WatchParty/internal/protocol"
	"github.com/rs/zerolog/log"
)

const hostEndedMessage = "Host ended the session"

// Orchestrator wires the room registry to the connections that act on it.
// It is shared by every Session.
type Orchestrator struct {
	Rooms    *core.Registry
	Peers    *app.Directory
	Dispatch *app.Dispatcher
	Policy   app.Policy
	Chat     *app.RateLimiter
}

func New(rooms *core.Registry, peers *app.Directory, policy app.Policy, chat *app.RateLimiter) *Orchestrator {
	if policy == nil {
		policy = app.SimplePolicy{}
	}
	return &Orchestrator{
		Rooms:    rooms,
		Peers:    peers,
		Dispatch: app.NewDispatcher(peers),
		Policy:   policy,
		Chat:     chat,
	}
}

// NewSession starts an unbound session for a freshly connected client.
func (o *Orchestrator) NewSession(sid core.SessionID) *Session {
	return &Session{sid: sid, o: o}
}

// leave removes sid from the room and notifies the remaining members when
// the host's departure tore it down.
func (o *Orchestrator) leave(id domain.RoomID, sid core.SessionID) {
	out, err := o.Rooms.Leave(id, sid)
	if err != nil {
		if !errors.Is(err, core.ErrRoomNotFound) {
			log.Error().Err(err).Str("module", "orch").Str("room", string(id)).Str("sid", string(sid)).Msg("leave")
		}
		return
	}
	if out.Kind == core.RoomDestroyedHostLeft && len(out.Affected) > 0 {
		res := o.Dispatch.SendEvent(out.Affected, protocol.SystemMessage(hostEndedMessage))
		log.Info().Str("module", "orch").Str("room", string(id)).Int("notified", res.SentTo).Msg("host ended session")
	}
}

// Shutdown evicts every room and then cancels every live session. The
// eviction notices are queued before the cancel, so each connection flushes
// them before it closes.
func (o *Orchestrator) Shutdown() int {
	o.EvictAll()
	return o.Peers.CancelAll()
}

// EvictAll tears down every room as if each host had left.
func (o *Orchestrator) EvictAll() {
	for _, info := range o.Rooms.List() {
		snap, err := o.Rooms.Snapshot(info.ID)
		if err != nil {
			continue
		}
		o.leave(info.ID, snap.Host)
	}
}
