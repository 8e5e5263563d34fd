package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   error
	closed bool
}

func (c *recordConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *recordConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func TestDispatcherSkipsFailedTargets(t *testing.T) {
	dir := NewDirectory()
	a, dead, b := &recordConn{}, &recordConn{fail: errors.New("closed")}, &recordConn{}
	dir.Bind("a", a, nil)
	dir.Bind("dead", dead, nil)
	dir.Bind("b", b, nil)

	d := NewDispatcher(dir)
	res := d.Send([]core.SessionID{"a", "dead", "gone", "b"}, core.Frame("x"))

	assert.Equal(t, 2, res.SentTo)
	assert.ElementsMatch(t, []core.SessionID{"dead", "gone"}, res.Dropped)
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestDispatcherSendEventsKeepsOrder(t *testing.T) {
	dir := NewDirectory()
	a := &recordConn{}
	dir.Bind("a", a, nil)

	NewDispatcher(dir).SendEvents([]core.SessionID{"a"},
		protocol.SetVideo("dQw4w9WgXcQ"),
		protocol.SetPlayerState("paused"),
		protocol.SetPlayerTime(0),
	)

	require.Equal(t, 3, a.count())
	assert.Contains(t, string(a.frames[0]), protocol.EventSetVideo)
	assert.Contains(t, string(a.frames[1]), protocol.EventSetPlayerState)
	assert.Contains(t, string(a.frames[2]), protocol.EventSetPlayerTime)
}

func TestDirectory(t *testing.T) {
	dir := NewDirectory()
	canceled := 0
	dir.Bind("a", &recordConn{}, func() { canceled++ })
	dir.Bind("b", &recordConn{}, nil)
	assert.Equal(t, 2, dir.Len())

	assert.Equal(t, 1, dir.CancelAll())
	assert.Equal(t, 1, canceled)

	dir.Unbind("a")
	_, ok := dir.Lookup("a")
	assert.False(t, ok)
	_, ok = dir.Lookup("b")
	assert.True(t, ok)
}

func TestSimplePolicy(t *testing.T) {
	open := SimplePolicy{}
	assert.True(t, open.MaySetMedia("h", "a"))
	assert.True(t, open.MayControlPlayback("h", "a"))

	strict := SimplePolicy{HostOnlyMedia: true, HostOnlyPlayback: true}
	assert.False(t, strict.MaySetMedia("h", "a"))
	assert.True(t, strict.MaySetMedia("h", "h"))
	assert.False(t, strict.MayControlPlayback("h", "a"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, rl.Allow("a"))

	rl.Forget("a")
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("a"))
	}
	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow("a"))
}
