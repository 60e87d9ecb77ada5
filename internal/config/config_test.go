package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminListenAddr != DefaultAdminListenAddr || cfg.OutboxSize != DefaultOutboxSize {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTPListenAddr != "" {
		t.Fatalf("expected http endpoint disabled by default, got %q", cfg.HTTPListenAddr)
	}
	if cfg.DefaultLocale != "en_US" || cfg.ConfigFolder != "config" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
config_folder = "/srv/bridge"
default_locale = "de_DE"
admin_listen_addr = ""
http_listen_addr = " 0.0.0.0:9100 "
outbox_size = 32

[interaction]
disabled = [" Hoe ", ""]

[[block_mappings]]
java_id = 10
bedrock_id = 100

[[block_mappings]]
java_id = 11
bedrock_id = 110
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConfigFolder != "/srv/bridge" || cfg.DefaultLocale != "de_DE" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.AdminListenAddr != "" {
		t.Fatalf("expected admin endpoint disabled, got %q", cfg.AdminListenAddr)
	}
	if cfg.HTTPListenAddr != "0.0.0.0:9100" {
		t.Fatalf("unexpected http listen: %q", cfg.HTTPListenAddr)
	}
	if cfg.OutboxSize != 32 {
		t.Fatalf("unexpected outbox size: %d", cfg.OutboxSize)
	}
	if len(cfg.Interaction.Disabled) != 1 || cfg.Interaction.Disabled[0] != "hoe" {
		t.Fatalf("unexpected disabled list: %+v", cfg.Interaction.Disabled)
	}
	if len(cfg.BlockMappings) != 2 || cfg.BlockMappings[11] != 110 {
		t.Fatalf("unexpected block mappings: %+v", cfg.BlockMappings)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "outbox_size = 8\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutboxSize != 8 || cfg.AdminListenAddr != DefaultAdminListenAddr {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	cases := []struct {
		content string
		want    error
	}{
		{"outbox_size = 0\n", ErrInvalidOutboxSize},
		{"default_locale = \"not a locale!\"\n", ErrInvalidLocale},
		{"config_folder = \"  \"\n", ErrMissingFolder},
		{"[[block_mappings]]\njava_id = 1\nbedrock_id = 2\n[[block_mappings]]\njava_id = 1\nbedrock_id = 3\n", ErrDuplicateMapping},
	}
	for _, tc := range cases {
		if _, err := Load(writeConfig(t, tc.content)); !errors.Is(err, tc.want) {
			t.Fatalf("Load(%q) err = %v want %v", tc.content, err, tc.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.BlockMappings[4342] != 5120 {
		t.Fatalf("unexpected template mappings: %+v", cfg.BlockMappings)
	}
}
