package bridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/danmuck/bridgectl/internal/interaction"
	"github.com/danmuck/bridgectl/internal/item"
	"github.com/danmuck/bridgectl/internal/protocol/frame"
	"github.com/danmuck/bridgectl/internal/protocol/schema"
	"github.com/danmuck/bridgectl/internal/protocol/tag"
	"github.com/danmuck/bridgectl/internal/testutil/testlog"
)

func TestCaptureRecordsSessionTraffic(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	var buf bytes.Buffer
	svc.SetCapture(NewCapture(&buf))

	sess := svc.NewSession("")
	sess.Interact(interaction.Input{
		Block:    interaction.BlockState{JavaID: 4321, Identifier: "minecraft:farmland"},
		HeldItem: "minecraft:iron_hoe",
		Position: mgl32.Vec3{1, 64, -3},
	})
	d := item.NewDescription("minecraft:tropical_fish_bucket", map[item.ComponentType]any{
		item.TropicalFishBaseColor:    5,
		item.TropicalFishPatternColor: 9,
	})
	want := sess.TranslateItem(d)

	records, err := ReadCapture(&buf)
	if err != nil {
		t.Fatalf("ReadCapture: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected two records, got %d", len(records))
	}
	if records[0].Sequence != 1 || records[1].Sequence != 2 {
		t.Fatalf("unexpected sequence numbers: %d %d", records[0].Sequence, records[1].Sequence)
	}

	ev := records[0].SoundEvent
	if records[0].MessageType != schema.MsgSoundEvent || ev == nil {
		t.Fatalf("expected sound event record, got %+v", records[0])
	}
	if ev.SoundType != packet.SoundEventItemUseOn || ev.ExtraData != 987 || ev.Position != (mgl32.Vec3{1, 64, -3}) {
		t.Fatalf("unexpected captured event: %+v", ev)
	}

	if records[1].MessageType != schema.MsgItemTag || records[1].ItemID != "minecraft:tropical_fish_bucket" {
		t.Fatalf("expected item record, got %+v", records[1])
	}
	wantNBT, err := want.MarshalNBT()
	if err != nil {
		t.Fatalf("MarshalNBT: %v", err)
	}
	if !bytes.Equal(records[1].NBT, wantNBT) {
		t.Fatalf("captured nbt differs from translated tree")
	}

	svc.SetCapture(nil)
	svc.TranslateItem(d, "")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing recorded after capture stopped")
	}
}

func TestCaptureSkipsDroppedPackets(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	var buf bytes.Buffer
	svc.SetCapture(NewCapture(&buf))

	sess := svc.NewSession("")
	for i := 0; i < 6; i++ {
		sess.SendUpstream(interaction.NewSoundEvent(packet.SoundEventIgnite, mgl32.Vec3{}, -1))
	}
	records, err := ReadCapture(&buf)
	if err != nil {
		t.Fatalf("ReadCapture: %v", err)
	}
	if len(records) != 4 || sess.Outbox().Dropped() != 2 {
		t.Fatalf("expected four captured and two dropped, got %d and %d", len(records), sess.Outbox().Dropped())
	}
}

func TestReadCaptureRejectsUnknownMessageType(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := frame.WriteFrame(&buf, frame.Frame{Header: frame.Header{MessageType: 99, Sequence: 1}}, frame.DefaultLimits()); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	_, err := ReadCapture(&buf)
	var verr schema.ValidationError
	if !errors.As(err, &verr) || verr.MessageType != 99 {
		t.Fatalf("expected validation error for message type 99, got %v", err)
	}
}

func TestRecordItemRoundTripsEmptyTree(t *testing.T) {
	testlog.Start(t)
	nbt, err := tag.New().MarshalNBT()
	if err != nil {
		t.Fatalf("MarshalNBT: %v", err)
	}
	var buf bytes.Buffer
	c := NewCapture(&buf)
	if err := c.RecordItem("minecraft:stone", nbt); err != nil {
		t.Fatalf("RecordItem: %v", err)
	}
	records, err := ReadCapture(&buf)
	if err != nil || len(records) != 1 {
		t.Fatalf("ReadCapture: %v (%d records)", err, len(records))
	}
	if records[0].ItemID != "minecraft:stone" || !bytes.Equal(records[0].NBT, nbt) {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCaptureFailuresAreLoggedAndDoNotBlockTraffic(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	svc.SetCapture(NewCapture(failingWriter{}))

	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	defer func() { log.Logger = prev }()

	sess := svc.NewSession("")
	sess.SendUpstream(interaction.NewSoundEvent(packet.SoundEventIgnite, mgl32.Vec3{}, -1))
	tree := sess.TranslateItem(item.NewDescription("minecraft:stick", map[item.ComponentType]any{item.Damage: 2}))

	if len(sess.Outbox().Drain()) != 1 {
		t.Fatalf("expected packet to be queued despite capture failure")
	}
	if v, ok := tree.Int("Damage"); !ok || v != 2 {
		t.Fatalf("expected translation despite capture failure")
	}
	out := logs.String()
	for _, want := range []string{
		"bridge.Session.SendUpstream capture record",
		"bridge.Service.TranslateItem capture record",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in logs, got %s", want, out)
		}
	}
}
