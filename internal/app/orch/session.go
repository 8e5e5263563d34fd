package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/dkeye/WatchParty/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrNotBound = errors.New("not in a room")

// Session is the per-connection state machine. It is either unbound or bound
// to exactly one room, and holds no room state beyond that id. A Session is
// driven by a single goroutine.
type Session struct {
	sid   core.SessionID
	o     *Orchestrator
	room  domain.RoomID
	bound bool
}

func (s *Session) ID() core.SessionID { return s.sid }

// Room returns the bound room id, if any.
func (s *Session) Room() (domain.RoomID, bool) { return s.room, s.bound }

// Handle decodes and applies one inbound frame. It reports true once the
// client asked to exit.
func (s *Session) Handle(data []byte) bool {
	in, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(s.sid)).Msg("bad frame")
		s.notify("Malformed message")
		return false
	}

	p := in.Payload
	switch in.Type {
	case protocol.ActionCreateRoom:
		s.Create(p.RoomID)
	case protocol.ActionJoinRoom:
		s.Join(p.RoomID)
	case protocol.ActionSendMessage:
		s.SendMessage(p.RoomID, p.Message)
	case protocol.ActionSetVideo:
		s.SetMedia(p.RoomID, p.VideoID)
	case protocol.ActionPlayerAction:
		s.PlayerAction(p.RoomID, p.Action, p.Position())
	case protocol.ActionWhoAmI:
		s.WhoAmI()
	case protocol.ActionPing:
		s.send(protocol.Pong())
	case protocol.ActionExit:
		s.Exit()
		return true
	default:
		log.Warn().Str("module", "orch").Str("sid", string(s.sid)).Str("type", in.Type).Msg("unknown action")
		s.notify(fmt.Sprintf("Unknown action '%s'", in.Type))
	}
	return false
}

func (s *Session) Create(raw string) {
	id, err := domain.NewRoomID(raw)
	if err != nil {
		s.notify(roomIDError(err))
		return
	}
	if _, err := s.o.Rooms.Create(id, s.sid); err != nil {
		if errors.Is(err, core.ErrRoomAlreadyExists) {
			s.notify(fmt.Sprintf("Room '%s' already exists", id))
			return
		}
		log.Error().Err(err).Str("module", "orch").Str("room", string(id)).Msg("create room")
		return
	}
	s.bind(id)
	s.notify(fmt.Sprintf("Created and joined room '%s' as host", id))
}

func (s *Session) Join(raw string) {
	id, err := domain.NewRoomID(raw)
	if err != nil {
		s.notify(roomIDError(err))
		return
	}
	// The sync burst is queued under the room lock so a late joiner aligns its
	// player before any later broadcast reaches it.
	_, err = s.o.Rooms.Join(id, s.sid, func(snap core.MediaSnapshot) {
		if snap.Loaded() {
			s.send(
				protocol.SetVideo(string(snap.Media)),
				protocol.SetPlayerState(string(snap.State)),
				protocol.SetPlayerTime(snap.Position),
			)
		}
	})
	if err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			s.notify(fmt.Sprintf("Room '%s' does not exist", id))
			return
		}
		log.Error().Err(err).Str("module", "orch").Str("room", string(id)).Msg("join room")
		return
	}
	s.bind(id)
	s.notify(fmt.Sprintf("Joined room '%s'", id))
}

func (s *Session) SendMessage(roomID, text string) {
	id, err := s.boundTo(roomID)
	if err != nil {
		s.notify(notBoundMessage(roomID))
		return
	}
	if text == "" {
		return
	}
	if !s.o.Chat.Allow(s.sid) {
		s.notify("You are sending messages too fast")
		return
	}
	peers, err := s.o.Rooms.Peers(id, s.sid)
	if err != nil {
		// the room is gone; chat is silently dropped
		s.unbind()
		return
	}
	s.o.Dispatch.SendEvent(peers, protocol.AddMessage(string(s.sid), text))
	s.send(protocol.AddMessage(domain.SelfSender, text))
}

func (s *Session) SetMedia(roomID, rawMedia string) {
	id, err := s.boundTo(roomID)
	if err != nil {
		s.notify(notBoundMessage(roomID))
		return
	}
	targets, err := s.o.Rooms.SetMedia(id, s.sid, rawMedia, s.o.Policy.MaySetMedia)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidMediaID):
		s.notify("Invalid YouTube Video ID")
		return
	case errors.Is(err, core.ErrNotHost):
		s.notify("Only the host can set videos")
		return
	default:
		s.roomGone(err)
		return
	}
	s.o.Dispatch.SendEvents(targets,
		protocol.SetVideo(rawMedia),
		protocol.SetPlayerState(string(domain.StatePaused)),
		protocol.SetPlayerTime(0),
	)
}

func (s *Session) PlayerAction(roomID, action string, position float64) {
	id, err := s.boundTo(roomID)
	if err != nil {
		s.notify(notBoundMessage(roomID))
		return
	}
	state, err := domain.ParsePlaybackState(action)
	if err != nil {
		s.notify("Invalid player action")
		return
	}
	position = domain.ClampPosition(position)
	targets, err := s.o.Rooms.SetPlayback(id, s.sid, state, position, s.o.Policy.MayControlPlayback)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNotHost):
		s.notify("Only the host can control playback")
		return
	case errors.Is(err, core.ErrNoMedia):
		s.notify("No video loaded")
		return
	default:
		s.roomGone(err)
		return
	}
	events := []protocol.Event{protocol.SetPlayerState(string(state))}
	if state.CarriesPosition() {
		events = append(events, protocol.SetPlayerTime(position))
	}
	s.o.Dispatch.SendEvents(targets, events...)
}

func (s *Session) WhoAmI() {
	if !s.bound {
		s.send(protocol.Identity(string(s.sid), "", false))
		return
	}
	snap, err := s.o.Rooms.Snapshot(s.room)
	if err != nil {
		s.unbind()
		s.send(protocol.Identity(string(s.sid), "", false))
		return
	}
	s.send(protocol.Identity(string(s.sid), string(s.room), snap.Host == s.sid))
}

// Exit leaves the bound room. It is safe to call more than once.
func (s *Session) Exit() {
	if s.bound {
		s.o.leave(s.room, s.sid)
		s.unbind()
	}
	s.o.Chat.Forget(s.sid)
	log.Info().Str("module", "orch").Str("sid", string(s.sid)).Msg("session exit")
}

// bind moves the session to id, leaving any other room first.
func (s *Session) bind(id domain.RoomID) {
	if s.bound && s.room != id {
		s.o.leave(s.room, s.sid)
	}
	s.room = id
	s.bound = true
}

func (s *Session) unbind() {
	s.room = ""
	s.bound = false
}

// boundTo resolves the target room of an action. An explicit room id must
// match the bound room.
func (s *Session) boundTo(raw string) (domain.RoomID, error) {
	if !s.bound {
		return "", ErrNotBound
	}
	if raw == "" {
		return s.room, nil
	}
	id, err := domain.NewRoomID(raw)
	if err != nil || id != s.room {
		return "", ErrNotBound
	}
	return s.room, nil
}

func (s *Session) roomGone(err error) {
	if !errors.Is(err, core.ErrRoomNotFound) {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(s.sid)).Msg("room operation")
	}
	s.unbind()
	s.notify("Room not found")
}

func (s *Session) send(evs ...protocol.Event) {
	s.o.Dispatch.SendEvents([]core.SessionID{s.sid}, evs...)
}

func (s *Session) notify(text string) {
	s.send(protocol.SystemMessage(text))
}

func roomIDError(err error) string {
	if errors.Is(err, domain.ErrRoomIDTooLong) {
		return "Room name too long"
	}
	return "Invalid room name"
}

func notBoundMessage(roomID string) string {
	if roomID == "" {
		return "Join a room first"
	}
	return fmt.Sprintf("You are not in room '%s'", roomID)
}
