// Package interaction picks at most one block sound translator for a
// player interaction and runs it.
//
// Translators are registered at startup with declarative criteria. Once
// built, a Registry is immutable and needs no locking.
package interaction

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Session is the slice of a client session translators need.
type Session interface {
	SendUpstream(pk packet.Packet)
	BlockMappings() BlockMappings
}

// BlockMappings resolves Java block state ids to Bedrock runtime ids.
type BlockMappings interface {
	BedrockBlockID(javaID int32) (uint32, bool)
}

// BlockState is the targeted block. Identifier may carry a property suffix
// such as "minecraft:farmland[moisture=7]".
type BlockState struct {
	JavaID     int32
	Identifier string
}

// Input is one interaction as seen by the bridge.
type Input struct {
	Block    BlockState
	HeldItem string
	Sneaking bool
	Position mgl32.Vec3
}

// Criteria selects interactions. An empty Blocks or Items set matches any
// value on that axis. Entries match an identifier exactly or as an
// underscore-delimited suffix, so "hoe" matches "wooden_hoe".
type Criteria struct {
	Blocks         []string
	Items          []string
	IgnoreSneaking bool
}

// Translator emits the client-side effect of a matched interaction.
type Translator interface {
	Translate(sess Session, pos mgl32.Vec3, state BlockState)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(sess Session, pos mgl32.Vec3, state BlockState)

func (f TranslatorFunc) Translate(sess Session, pos mgl32.Vec3, state BlockState) {
	f(sess, pos, state)
}

// normalizeID strips the minecraft namespace and any block properties.
func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if i := strings.IndexByte(id, '['); i >= 0 {
		id = id[:i]
	}
	return strings.TrimPrefix(id, "minecraft:")
}

func matchesEntry(entry, id string) bool {
	return id == entry || strings.HasSuffix(id, "_"+entry)
}

func normalizeSet(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if n := normalizeID(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}
