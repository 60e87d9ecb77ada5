// Package config loads the bridge TOML configuration. Keys absent from the
// file keep their Default values.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

const (
	DefaultAdminListenAddr = "127.0.0.1:7020"
	DefaultOutboxSize      = 256
)

var (
	ErrInvalidLocale     = errors.New("config: invalid default_locale")
	ErrInvalidOutboxSize = errors.New("config: outbox_size must be positive")
	ErrMissingFolder     = errors.New("config: config_folder is required")
	ErrDuplicateMapping  = errors.New("config: duplicate block mapping")
)

type Config struct {
	ConfigFolder       string
	DefaultLocale      string
	LocaleOverridesDir string
	AdminListenAddr    string
	OutboxSize         int
	Interaction        InteractionConfig

	// HTTPListenAddr serves health and metrics. Empty disables it.
	HTTPListenAddr string

	// BlockMappings maps Java block state ids to Bedrock runtime ids.
	BlockMappings map[int32]uint32
}

type InteractionConfig struct {
	// Disabled names builtin translators to skip.
	Disabled []string
}

func Default() Config {
	return Config{
		ConfigFolder:    "config",
		DefaultLocale:   "en_US",
		AdminListenAddr: DefaultAdminListenAddr,
		OutboxSize:      DefaultOutboxSize,
		BlockMappings:   map[int32]uint32{},
	}
}

type fileConfig struct {
	ConfigFolder       string             `toml:"config_folder"`
	DefaultLocale      string             `toml:"default_locale"`
	LocaleOverridesDir string             `toml:"locale_overrides_dir"`
	AdminListenAddr    string             `toml:"admin_listen_addr"`
	HTTPListenAddr     string             `toml:"http_listen_addr"`
	OutboxSize         int                `toml:"outbox_size"`
	Interaction        fileInteraction    `toml:"interaction"`
	BlockMappings      []fileBlockMapping `toml:"block_mappings"`
}

type fileInteraction struct {
	Disabled []string `toml:"disabled"`
}

type fileBlockMapping struct {
	JavaID    int32  `toml:"java_id"`
	BedrockID uint32 `toml:"bedrock_id"`
}

// Load decodes path over Default and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load bridge config: %w", err)
	}

	if meta.IsDefined("config_folder") {
		cfg.ConfigFolder = strings.TrimSpace(raw.ConfigFolder)
	}
	if meta.IsDefined("default_locale") {
		cfg.DefaultLocale = strings.TrimSpace(raw.DefaultLocale)
	}
	if meta.IsDefined("locale_overrides_dir") {
		cfg.LocaleOverridesDir = strings.TrimSpace(raw.LocaleOverridesDir)
	}
	if meta.IsDefined("admin_listen_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminListenAddr)
	}
	if meta.IsDefined("http_listen_addr") {
		cfg.HTTPListenAddr = strings.TrimSpace(raw.HTTPListenAddr)
	}
	if meta.IsDefined("outbox_size") {
		cfg.OutboxSize = raw.OutboxSize
	}
	if meta.IsDefined("interaction", "disabled") {
		cfg.Interaction.Disabled = normalizeNames(raw.Interaction.Disabled)
	}
	if meta.IsDefined("block_mappings") {
		mappings, err := parseBlockMappings(raw.BlockMappings)
		if err != nil {
			return Config{}, err
		}
		cfg.BlockMappings = mappings
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.ConfigFolder) == "" {
		return ErrMissingFolder
	}
	if _, err := language.Parse(strings.ReplaceAll(cfg.DefaultLocale, "_", "-")); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLocale, cfg.DefaultLocale, err)
	}
	if cfg.OutboxSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOutboxSize, cfg.OutboxSize)
	}
	return nil
}

func parseBlockMappings(in []fileBlockMapping) (map[int32]uint32, error) {
	out := make(map[int32]uint32, len(in))
	for i, m := range in {
		if _, dup := out[m.JavaID]; dup {
			return nil, fmt.Errorf("%w: block_mappings[%d] java_id=%d", ErrDuplicateMapping, i, m.JavaID)
		}
		out[m.JavaID] = m.BedrockID
	}
	return out, nil
}

func normalizeNames(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, name := range in {
		v := strings.ToLower(strings.TrimSpace(name))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
