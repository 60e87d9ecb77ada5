// Package suggestions keeps the command suggestion table loaded from
// suggestions.yml in the config folder.
package suggestions

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const FileName = "suggestions.yml"

//go:embed suggestions.yml
var embeddedDefaults embed.FS

var (
	ErrNoDefault = errors.New("suggestions: default suggestions.yml unavailable")
	ErrNoSection = errors.New("suggestions: no 'suggestions' section")
	ErrNotAMap   = errors.New("suggestions: 'suggestions' is not a mapping")
)

// Store serves lookups from an immutable snapshot. Reload builds a new
// table and swaps it in whole.
type Store struct {
	dir      string
	defaults fs.FS

	mu    sync.Mutex
	table atomic.Pointer[map[string]string]
}

// New returns an empty store for configFolder. A nil defaults uses the
// embedded suggestions.yml.
func New(configFolder string, defaults fs.FS) *Store {
	if defaults == nil {
		defaults = embeddedDefaults
	}
	s := &Store{dir: configFolder, defaults: defaults}
	empty := map[string]string{}
	s.table.Store(&empty)
	return s
}

func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Reload re-reads suggestions.yml, copying the default into place first if
// the file does not exist. On read or parse failure the previous table is
// kept. Returns the number of entries now served.
func (s *Store) Reload() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path()
	log.Info().Str("path", path).Msg("suggestions.Store.Reload")
	if err := s.ensureFile(path); err != nil {
		if errors.Is(err, ErrNoDefault) {
			empty := map[string]string{}
			s.table.Store(&empty)
		}
		log.Error().Err(err).Str("path", path).Msg("suggestions.Store.Reload create default failed")
		return s.Len(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("suggestions.Store.Reload read failed")
		return s.Len(), fmt.Errorf("suggestions: read %s: %w", path, err)
	}
	entries, skipped, err := parse(data)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("suggestions.Store.Reload parse failed")
		return s.Len(), err
	}
	s.table.Store(&entries)
	log.Info().
		Int("suggestions", len(entries)).
		Int("skipped", skipped).
		Msg("suggestions.Store.Reload loaded")
	return len(entries), nil
}

func (s *Store) ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("suggestions: stat %s: %w", path, err)
	}
	data, err := fs.ReadFile(s.defaults, FileName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDefault, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("suggestions: create config folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("suggestions: write default: %w", err)
	}
	log.Info().Str("path", path).Msg("suggestions.Store created default suggestions.yml")
	return nil
}

// Get returns the description for command.
func (s *Store) Get(command string) (string, bool) {
	desc, ok := (*s.table.Load())[command]
	if ok {
		log.Debug().Str("command", command).Msg("suggestions.Store.Get hit")
	}
	return desc, ok
}

// All returns a copy of the current table.
func (s *Store) All() map[string]string {
	return maps.Clone(*s.table.Load())
}

func (s *Store) Len() int {
	return len(*s.table.Load())
}

type document struct {
	Suggestions *table `yaml:"suggestions"`
}

type table struct {
	entries map[string]string
	skipped int
}

// UnmarshalYAML keeps only string-to-string pairs.
func (t *table) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return ErrNotAMap
	}
	t.entries = make(map[string]string, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if !isString(k) || !isString(v) {
			t.skipped++
			log.Warn().
				Int("line", k.Line).
				Str("key", k.Value).
				Msg("suggestions.table skipping non-string entry")
			continue
		}
		t.entries[k.Value] = v.Value
	}
	return nil
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func parse(data []byte) (map[string]string, int, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("suggestions: parse: %w", err)
	}
	if doc.Suggestions == nil {
		return nil, 0, ErrNoSection
	}
	return doc.Suggestions.entries, doc.Suggestions.skipped, nil
}
