package signal

import (
	"context"
	"time"

	"github.com/dkeye/WatchParty/internal/app/orch"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Int("pending", len(c.send)).Msg("writePump ctx done")
			ctl.flush(c)
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := ctl.write(c, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) write(c *WsSignalConn, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("writePump write error")
		return err
	}
	return nil
}

// flush writes the frames still queued when the session is cancelled, such
// as the notice sent on shutdown, then closes the websocket cleanly.
func (ctl *SignalWSController) flush(c *WsSignalConn) {
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := ctl.write(c, data); err != nil {
				return
			}
		default:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(ctl.opts.WriteWait))
			return
		}
	}
}

// readPump feeds inbound frames to the session. Any read error counts as a
// disconnect; either way the session leaves its room before the socket closes.
// On cancel it keeps reading until writePump has flushed and closed the socket.
func (ctl *SignalWSController) readPump(cancel context.CancelFunc, sess *orch.Session, c *WsSignalConn) {
	sid := sess.ID()
	defer func() {
		sess.Exit()
		ctl.Orch.Peers.Unbind(sid)
		cancel()
		c.Close()
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
	}()

	pongWait := ctl.opts.pongWait()
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		if done := sess.Handle(data); done {
			return
		}
	}
}
