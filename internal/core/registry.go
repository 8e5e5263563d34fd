package core

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/rs/zerolog/log"
)

type LeaveKind int

const (
	RoomContinues LeaveKind = iota
	RoomDestroyedEmpty
	RoomDestroyedHostLeft
)

func (k LeaveKind) String() string {
	switch k {
	case RoomDestroyedEmpty:
		return "destroyed_empty"
	case RoomDestroyedHostLeft:
		return "destroyed_host_left"
	default:
		return "continues"
	}
}

// LeaveOutcome describes what a departure did to the room. Affected lists
// the members that were still present when the host left.
type LeaveOutcome struct {
	Kind     LeaveKind
	Affected []SessionID
}

// Registry owns every live room. The map is guarded by mu; each room has its
// own lock. Lock order is always registry then room, and a room lock is never
// held while acquiring the registry lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*room),
		now:   time.Now,
	}
}

func (r *Registry) lookup(id domain.RoomID) (*room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[id]
	return rm, ok
}

// withRoom runs fn under the room lock, failing if the room is absent or
// already torn down.
func (r *Registry) withRoom(id domain.RoomID, fn func(rm *room) error) error {
	rm, ok := r.lookup(id)
	if !ok {
		return ErrRoomNotFound
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		return ErrRoomNotFound
	}
	return fn(rm)
}

// withMember is withRoom restricted to current members of the room.
func (r *Registry) withMember(id domain.RoomID, sid SessionID, fn func(rm *room) error) error {
	return r.withRoom(id, func(rm *room) error {
		if !rm.has(sid) {
			return ErrRoomNotFound
		}
		return fn(rm)
	})
}

// Create registers a new room hosted by sid.
func (r *Registry) Create(id domain.RoomID, sid SessionID) (MediaSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[id]; ok && !existing.isClosed() {
		return MediaSnapshot{}, ErrRoomAlreadyExists
	}
	rm := newRoom(id, sid, r.now())
	r.rooms[id] = rm
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("host", string(sid)).Msg("room created")
	return rm.mediaSnapshot(), nil
}

// Join adds sid to the room. Joining twice is a no-op. When onJoin is non-nil
// it receives the media snapshot while the room lock is still held, so
// anything it queues for sid precedes every later broadcast to the room.
// onJoin must not block or call back into the registry.
func (r *Registry) Join(id domain.RoomID, sid SessionID, onJoin func(MediaSnapshot)) (MediaSnapshot, error) {
	var snap MediaSnapshot
	err := r.withRoom(id, func(rm *room) error {
		if !rm.has(sid) {
			rm.members[sid] = struct{}{}
			log.Info().Str("module", "core.registry").Str("room", string(id)).Str("sid", string(sid)).Int("members", len(rm.members)).Msg("member joined")
		}
		snap = rm.mediaSnapshot()
		if onJoin != nil {
			onJoin(snap)
		}
		return nil
	})
	return snap, err
}

// Leave removes sid from the room. A departing host always destroys the
// room; so does the last member leaving.
func (r *Registry) Leave(id domain.RoomID, sid SessionID) (LeaveOutcome, error) {
	var (
		out  LeaveOutcome
		gone *room
	)
	err := r.withMember(id, sid, func(rm *room) error {
		delete(rm.members, sid)
		switch {
		case sid == rm.host:
			out = LeaveOutcome{Kind: RoomDestroyedHostLeft, Affected: rm.membersExcept("")}
		case len(rm.members) == 0:
			out = LeaveOutcome{Kind: RoomDestroyedEmpty}
		default:
			out = LeaveOutcome{Kind: RoomContinues}
			return nil
		}
		rm.closed = true
		gone = rm
		return nil
	})
	if err != nil {
		return LeaveOutcome{}, err
	}
	if gone != nil {
		r.remove(id, gone)
	}
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("sid", string(sid)).Str("outcome", out.Kind.String()).Msg("member left")
	return out, nil
}

// remove drops the room from the map unless the id has meanwhile been
// claimed by a newer room.
func (r *Registry) remove(id domain.RoomID, rm *room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.rooms[id]; ok && current == rm {
		delete(r.rooms, id)
	}
}

// SetMedia validates raw, loads it and resets playback to paused at zero.
// It returns every member, caller included, as broadcast targets.
func (r *Registry) SetMedia(id domain.RoomID, sid SessionID, raw string, authorize Authorizer) ([]SessionID, error) {
	media, err := domain.ParseMediaID(raw)
	if err != nil {
		return nil, err
	}
	var targets []SessionID
	err = r.withMember(id, sid, func(rm *room) error {
		if authorize != nil && !authorize(rm.host, sid) {
			return ErrNotHost
		}
		rm.media = media
		rm.state = domain.StatePaused
		rm.position = 0
		targets = rm.membersExcept("")
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("sid", string(sid)).Str("media", string(media)).Msg("media set")
	return targets, nil
}

// SetPlayback stores the reported state and position and returns every
// member except the caller.
func (r *Registry) SetPlayback(id domain.RoomID, sid SessionID, state domain.PlaybackState, position float64, authorize Authorizer) ([]SessionID, error) {
	var targets []SessionID
	err := r.withMember(id, sid, func(rm *room) error {
		if authorize != nil && !authorize(rm.host, sid) {
			return ErrNotHost
		}
		if rm.media == "" {
			return ErrNoMedia
		}
		rm.state = state
		rm.position = domain.ClampPosition(position)
		targets = rm.membersExcept(sid)
		return nil
	})
	return targets, err
}

// Peers returns the other members of the caller's room.
func (r *Registry) Peers(id domain.RoomID, sid SessionID) ([]SessionID, error) {
	var targets []SessionID
	err := r.withMember(id, sid, func(rm *room) error {
		targets = rm.membersExcept(sid)
		return nil
	})
	return targets, err
}

func (r *Registry) Snapshot(id domain.RoomID) (RoomSnapshot, error) {
	var snap RoomSnapshot
	err := r.withRoom(id, func(rm *room) error {
		snap = rm.snapshot()
		return nil
	})
	return snap, err
}

// List returns live rooms ordered by id.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	rooms := make([]*room, 0, len(r.rooms))
	for _, rm := range r.rooms {
		rooms = append(rooms, rm)
	}
	r.mu.RUnlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, rm := range rooms {
		rm.mu.Lock()
		if !rm.closed {
			out = append(out, rm.info())
		}
		rm.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
