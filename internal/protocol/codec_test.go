package protocol

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	in, err := Decode([]byte(`{"type":"WS_TO_SERVER_PLAYER_ACTION","payload":{"room_id":"r","action":"playing","time":42.5}}`))
	require.NoError(t, err)
	assert.Equal(t, ActionPlayerAction, in.Type)
	assert.Equal(t, "r", in.Payload.RoomID)
	assert.Equal(t, "playing", in.Payload.Action)
	assert.Equal(t, 42.5, in.Payload.Position())

	in, err = Decode([]byte(`{"type":"WS_TO_SERVER_EXIT"}`))
	require.NoError(t, err)
	assert.Equal(t, ActionExit, in.Type)
	assert.Zero(t, in.Payload.Position())
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{`not json`, `{}`, `{"type":""}`, `[1,2]`} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestEncodeEvents(t *testing.T) {
	data, err := Encode(AddMessage("You", "hi"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, sonic.Unmarshal(data, &got))
	assert.Equal(t, EventAddMessage, got["type"])
	assert.Equal(t, map[string]any{"sender": "You", "message": "hi"}, got["payload"])

	data, err = Encode(SetPlayerTime(0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SET_PLAYER_TIME","payload":0}`, string(data))

	data, err = Encode(SystemMessage("Room 'r' does not exist"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SET_SYSTEM_MESSAGE","payload":"Room 'r' does not exist"}`, string(data))
}
