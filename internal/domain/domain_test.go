package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaID(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"dQw4w9WgXcQ", true},
		{"abc-DEF_123", true},
		{"short", false},
		{"", false},
		{"dQw4w9WgXcQQ", false},
		{"dQw4w9WgXc!", false},
		{"https://youtu.be/dQw4w9WgXcQ", false},
		{" dQw4w9WgXc", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := ParseMediaID(tt.raw)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, MediaID(tt.raw), id)
				assert.Len(t, string(id), MediaIDLen)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidMediaID)
		})
	}
}

func TestNewRoomID(t *testing.T) {
	id, err := NewRoomID("  lobby ")
	require.NoError(t, err)
	assert.Equal(t, RoomID("lobby"), id)

	_, err = NewRoomID("   ")
	assert.ErrorIs(t, err, ErrInvalidRoomID)

	_, err = NewRoomID(strings.Repeat("x", MaxRoomIDLen+1))
	assert.ErrorIs(t, err, ErrRoomIDTooLong)
}

func TestPlaybackState(t *testing.T) {
	_, err := ParsePlaybackState("")
	assert.ErrorIs(t, err, ErrInvalidPlaybackState)

	st, err := ParsePlaybackState("buffering")
	require.NoError(t, err)
	assert.False(t, st.CarriesPosition())
	assert.True(t, StatePlaying.CarriesPosition())
	assert.True(t, StatePaused.CarriesPosition())
	assert.False(t, StateEnded.CarriesPosition())

	assert.Zero(t, ClampPosition(-1))
	assert.Equal(t, 3.5, ClampPosition(3.5))
}
