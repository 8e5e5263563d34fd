package protocol

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var ErrMalformed = errors.New("malformed message")

// Decode parses one inbound frame.
func Decode(data []byte) (Inbound, error) {
	var in Inbound
	if err := sonic.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if in.Type == "" {
		return Inbound{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return in, nil
}

// Encode serializes an outbound event.
func Encode(ev Event) ([]byte, error) {
	return sonic.Marshal(ev)
}

func SystemMessage(text string) Event {
	return Event{Type: EventSystemMessage, Payload: text}
}

func SetVideo(media string) Event {
	return Event{Type: EventSetVideo, Payload: media}
}

func SetPlayerState(state string) Event {
	return Event{Type: EventSetPlayerState, Payload: state}
}

func SetPlayerTime(seconds float64) Event {
	return Event{Type: EventSetPlayerTime, Payload: seconds}
}

func AddMessage(sender, message string) Event {
	return Event{Type: EventAddMessage, Payload: ChatPayload{Sender: sender, Message: message}}
}

func Identity(id, roomID string, host bool) Event {
	return Event{Type: EventIdentity, Payload: IdentityPayload{ID: id, RoomID: roomID, Host: host}}
}

func Pong() Event {
	return Event{Type: EventPong}
}
