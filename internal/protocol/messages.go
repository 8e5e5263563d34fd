// Package protocol defines the JSON envelopes exchanged over the signal socket.
package protocol

// Inbound action types, client to server.
const (
	ActionCreateRoom   = "WS_TO_SERVER_CREATE_ROOM"
	ActionJoinRoom     = "WS_TO_SERVER_JOIN_ROOM"
	ActionSendMessage  = "WS_TO_SERVER_SEND_MESSAGE"
	ActionSetVideo     = "WS_TO_SERVER_SET_VIDEO"
	ActionPlayerAction = "WS_TO_SERVER_PLAYER_ACTION"
	ActionExit         = "WS_TO_SERVER_EXIT"
	ActionWhoAmI       = "WS_TO_SERVER_WHOAMI"
	ActionPing         = "WS_TO_SERVER_PING"
)

// Outbound event types, server to client.
const (
	EventSystemMessage  = "SET_SYSTEM_MESSAGE"
	EventSetVideo       = "SET_VIDEO"
	EventSetPlayerState = "SET_PLAYER_STATE"
	EventSetPlayerTime  = "SET_PLAYER_TIME"
	EventAddMessage     = "ADD_MESSAGE"
	EventIdentity       = "SET_IDENTITY"
	EventPong           = "PONG"
)

// Inbound is one client action. Fields not used by an action are ignored.
type Inbound struct {
	Type    string         `json:"type"`
	Payload InboundPayload `json:"payload"`
}

type InboundPayload struct {
	RoomID  string   `json:"room_id"`
	Message string   `json:"message"`
	VideoID string   `json:"video_id"`
	Action  string   `json:"action"`
	Time    *float64 `json:"time,omitempty"`
}

// Position returns the reported time, zero when absent.
func (p InboundPayload) Position() float64 {
	if p.Time == nil {
		return 0
	}
	return *p.Time
}

// Event is one server push.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type ChatPayload struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type IdentityPayload struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id,omitempty"`
	Host   bool   `json:"host"`
}
