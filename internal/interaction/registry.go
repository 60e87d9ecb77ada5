package interaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrTranslatorNil  = errors.New("interaction: translator is nil")
	ErrRegistryFrozen = errors.New("interaction: registry already built")
	ErrEmptyCriteria  = errors.New("interaction: criteria set has no usable entries")
)

type record struct {
	blocks         []string
	items          []string
	ignoreSneaking bool
	specificity    int
	translator     Translator
}

func (r record) matches(block, item string) bool {
	return axisMatches(r.blocks, block) && axisMatches(r.items, item)
}

func axisMatches(set []string, id string) bool {
	if len(set) == 0 {
		return true
	}
	for _, entry := range set {
		if matchesEntry(entry, id) {
			return true
		}
	}
	return false
}

// Builder collects registrations. It is used once during startup.
type Builder struct {
	mu      sync.Mutex
	records []record
	frozen  bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Register appends a translator. Order of registration breaks specificity
// ties at lookup time.
func (b *Builder) Register(c Criteria, t Translator) error {
	if t == nil {
		return ErrTranslatorNil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return ErrRegistryFrozen
	}
	// a set given only blank entries would otherwise widen to a wildcard
	if len(c.Blocks) > 0 && len(normalizeSet(c.Blocks)) == 0 {
		return fmt.Errorf("%w: blocks %q", ErrEmptyCriteria, c.Blocks)
	}
	if len(c.Items) > 0 && len(normalizeSet(c.Items)) == 0 {
		return fmt.Errorf("%w: items %q", ErrEmptyCriteria, c.Items)
	}
	rec := record{
		blocks:         normalizeSet(c.Blocks),
		items:          normalizeSet(c.Items),
		ignoreSneaking: c.IgnoreSneaking,
		translator:     t,
	}
	if len(rec.blocks) > 0 {
		rec.specificity++
	}
	if len(rec.items) > 0 {
		rec.specificity++
	}
	b.records = append(b.records, rec)
	log.Debug().
		Strs("blocks", rec.blocks).
		Strs("items", rec.items).
		Bool("ignore_sneaking", rec.ignoreSneaking).
		Int("order", len(b.records)-1).
		Msg("interaction.Builder.Register")
	return nil
}

// Build freezes the builder and returns the immutable registry.
func (b *Builder) Build() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	records := make([]record, len(b.records))
	copy(records, b.records)
	log.Info().Int("translators", len(records)).Msg("interaction.Builder.Build")
	return &Registry{records: records}
}

// Registry is an immutable, ordered set of translators.
type Registry struct {
	records []record
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Lookup returns the translator for the interaction. Among candidates the
// most specific wins; ties go to the earliest registration. While sneaking,
// only translators that ignore sneaking are candidates.
func (r *Registry) Lookup(blockID, itemID string, sneaking bool) (Translator, bool) {
	if r == nil {
		return nil, false
	}
	block, item := normalizeID(blockID), normalizeID(itemID)
	best := -1
	for i, rec := range r.records {
		if !rec.matches(block, item) {
			continue
		}
		if sneaking && !rec.ignoreSneaking {
			continue
		}
		if best < 0 || rec.specificity > r.records[best].specificity {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	return r.records[best].translator, true
}

// Dispatch runs the matching translator, if any, exactly once.
func (r *Registry) Dispatch(sess Session, in Input) bool {
	t, ok := r.Lookup(in.Block.Identifier, in.HeldItem, in.Sneaking)
	if !ok {
		log.Debug().
			Str("block", in.Block.Identifier).
			Str("item", in.HeldItem).
			Bool("sneaking", in.Sneaking).
			Msg("interaction.Registry.Dispatch no translator")
		return false
	}
	t.Translate(sess, in.Position, in.Block)
	return true
}
