package bridge

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/danmuck/bridgectl/internal/interaction"
	"github.com/danmuck/bridgectl/internal/item"
	"github.com/danmuck/bridgectl/internal/observability"
	"github.com/danmuck/bridgectl/internal/protocol/tag"
)

// Outbox queues packets for the client transport. Sends never block; a full
// outbox drops the packet and counts it.
type Outbox struct {
	ch      chan packet.Packet
	dropped atomic.Uint64
}

func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = 1
	}
	return &Outbox{ch: make(chan packet.Packet, size)}
}

func (o *Outbox) Send(pk packet.Packet) bool {
	select {
	case o.ch <- pk:
		return true
	default:
		o.dropped.Add(1)
		return false
	}
}

// Packets is drained by the transport.
func (o *Outbox) Packets() <-chan packet.Packet {
	return o.ch
}

func (o *Outbox) Dropped() uint64 {
	return o.dropped.Load()
}

// Drain returns every queued packet without blocking.
func (o *Outbox) Drain() []packet.Packet {
	var out []packet.Packet
	for {
		select {
		case pk := <-o.ch:
			out = append(out, pk)
		default:
			return out
		}
	}
}

// Session is one client's view of the bridge. It satisfies
// interaction.Session.
type Session struct {
	svc    *Service
	locale string
	outbox *Outbox
}

var _ interaction.Session = (*Session)(nil)

// NewSession opens a session whose outbox is sized from the current config.
func (s *Service) NewSession(locale string) *Session {
	cfg := s.Config()
	if locale == "" {
		locale = cfg.DefaultLocale
	}
	return &Session{svc: s, locale: locale, outbox: NewOutbox(cfg.OutboxSize)}
}

func (sess *Session) Locale() string {
	return sess.locale
}

func (sess *Session) Outbox() *Outbox {
	return sess.outbox
}

func (sess *Session) SendUpstream(pk packet.Packet) {
	if !sess.outbox.Send(pk) {
		observability.RecordOutboxDrop()
		log.Warn().
			Uint32("packet_id", pk.ID()).
			Uint64("dropped", sess.outbox.Dropped()).
			Msg("bridge.Session.SendUpstream outbox full")
		return
	}
	if ev, ok := pk.(*packet.LevelSoundEvent); ok {
		if c := sess.svc.capture.Load(); c != nil {
			if err := c.RecordSoundEvent(ev); err != nil {
				log.Warn().Err(err).Uint32("sound", ev.SoundType).Msg("bridge.Session.SendUpstream capture record")
			}
		}
	}
}

// BlockMappings reads the table of the state current at call time.
func (sess *Session) BlockMappings() interaction.BlockMappings {
	return sess.svc.state.Load().mappings
}

// Interact dispatches in through the current registry.
func (sess *Session) Interact(in interaction.Input) bool {
	handled := sess.svc.Registry().Dispatch(sess, in)
	observability.RecordInteraction(handled)
	return handled
}

func (sess *Session) TranslateItem(d item.Description) *tag.Tree {
	return sess.svc.TranslateItem(d, sess.locale)
}
