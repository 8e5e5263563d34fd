package app

import (
	"errors"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrPeerGone = errors.New("peer not connected")

// DeliveryReport summarizes one fan-out.
type DeliveryReport struct {
	SentTo  int
	Dropped []core.SessionID
}

// Dispatcher fans payloads out to session ids. It never mutates room state
// and never fails: a dead or congested target is logged and skipped.
type Dispatcher struct {
	Peers *Directory
}

func NewDispatcher(peers *Directory) *Dispatcher {
	return &Dispatcher{Peers: peers}
}

// Send delivers data to every target in order. Frames sent to one target by
// successive calls from the same goroutine keep their order.
func (d *Dispatcher) Send(targets []core.SessionID, data core.Frame) DeliveryReport {
	res := DeliveryReport{}
	for _, sid := range targets {
		if err := d.sendOne(sid, data); err != nil {
			log.Warn().Err(err).Str("module", "app.dispatch").Str("sid", string(sid)).Msg("delivery dropped")
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.dispatch").Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (d *Dispatcher) sendOne(sid core.SessionID, data core.Frame) error {
	conn, ok := d.Peers.Lookup(sid)
	if !ok {
		return ErrPeerGone
	}
	return conn.TrySend(data)
}

// SendEvent encodes ev once and fans it out.
func (d *Dispatcher) SendEvent(targets []core.SessionID, ev protocol.Event) DeliveryReport {
	data, err := protocol.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.dispatch").Str("event", ev.Type).Msg("encode event")
		return DeliveryReport{Dropped: targets}
	}
	return d.Send(targets, data)
}

// SendEvents delivers a burst of events in order.
func (d *Dispatcher) SendEvents(targets []core.SessionID, evs ...protocol.Event) {
	for _, ev := range evs {
		d.SendEvent(targets, ev)
	}
}
