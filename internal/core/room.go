package core

import (
	"sync"
	"time"

	"github.com/dkeye/WatchParty/internal/domain"
)

// MediaSnapshot is a point-in-time copy of a room's player state.
type MediaSnapshot struct {
	Media    domain.MediaID
	State    domain.PlaybackState
	Position float64
}

// Loaded reports whether a host has set any media yet.
func (s MediaSnapshot) Loaded() bool { return s.Media != "" }

// RoomSnapshot is a read-only copy of a whole room taken under its lock.
type RoomSnapshot struct {
	ID        domain.RoomID
	Host      SessionID
	Members   []SessionID
	CreatedAt time.Time
	MediaSnapshot
}

// RoomInfo is the public listing view (no session identifiers).
type RoomInfo struct {
	ID          domain.RoomID        `json:"id"`
	MemberCount int                  `json:"member_count"`
	Media       domain.MediaID       `json:"media,omitempty"`
	State       domain.PlaybackState `json:"state"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Authorizer decides whether caller may mutate a room hosted by host.
type Authorizer func(host, caller SessionID) bool

// room is a threadsafe in-memory room. All fields are guarded by mu.
// It never touches transport resources.
type room struct {
	mu sync.Mutex

	id        domain.RoomID
	host      SessionID
	members   map[SessionID]struct{}
	createdAt time.Time

	media    domain.MediaID
	state    domain.PlaybackState
	position float64

	// closed is set once the room has been torn down; a pointer obtained
	// before removal from the registry must treat it as gone.
	closed bool
}

func newRoom(id domain.RoomID, host SessionID, now time.Time) *room {
	return &room{
		id:        id,
		host:      host,
		members:   map[SessionID]struct{}{host: {}},
		createdAt: now,
		state:     domain.StatePaused,
	}
}

func (r *room) has(sid SessionID) bool {
	_, ok := r.members[sid]
	return ok
}

// membersExcept copies the member set, leaving out skip (pass "" to keep all).
func (r *room) membersExcept(skip SessionID) []SessionID {
	out := make([]SessionID, 0, len(r.members))
	for sid := range r.members {
		if sid == skip {
			continue
		}
		out = append(out, sid)
	}
	return out
}

func (r *room) mediaSnapshot() MediaSnapshot {
	return MediaSnapshot{Media: r.media, State: r.state, Position: r.position}
}

func (r *room) snapshot() RoomSnapshot {
	return RoomSnapshot{
		ID:            r.id,
		Host:          r.host,
		Members:       r.membersExcept(""),
		CreatedAt:     r.createdAt,
		MediaSnapshot: r.mediaSnapshot(),
	}
}

func (r *room) info() RoomInfo {
	return RoomInfo{
		ID:          r.id,
		MemberCount: len(r.members),
		Media:       r.media,
		State:       r.state,
		CreatedAt:   r.createdAt,
	}
}

func (r *room) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
