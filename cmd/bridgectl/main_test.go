package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/danmuck/bridgectl/internal/bridge"
	"github.com/danmuck/bridgectl/internal/config"
	"github.com/danmuck/bridgectl/internal/interaction"
)

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := config.Load("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AdminListenAddr != "127.0.0.1:7021" {
		t.Fatalf("unexpected admin listen: %q", cfg.AdminListenAddr)
	}
	if cfg.OutboxSize != 64 {
		t.Fatalf("unexpected outbox size: %d", cfg.OutboxSize)
	}
	if len(cfg.Interaction.Disabled) != 1 || cfg.Interaction.Disabled[0] != "shovel" {
		t.Fatalf("unexpected disabled translators: %+v", cfg.Interaction.Disabled)
	}
	if cfg.BlockMappings[4342] != 5120 || cfg.BlockMappings[9] != 2 {
		t.Fatalf("unexpected block mappings: %+v", cfg.BlockMappings)
	}
}

func TestParseFlagsConfigFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("BRIDGE_CONFIG=/etc/bridge/from-env.toml\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(envConfigPath, "")
	os.Unsetenv(envConfigPath)

	opts, err := parseFlags([]string{"--env-file", envPath})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if opts.configPath != "/etc/bridge/from-env.toml" {
		t.Fatalf("unexpected config path: %q", opts.configPath)
	}

	opts, err = parseFlags([]string{"--env-file", envPath, "-c", "explicit.toml"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if opts.configPath != "explicit.toml" {
		t.Fatalf("expected explicit flag to win, got %q", opts.configPath)
	}
}

func TestParseFlagsMissingEnvFile(t *testing.T) {
	opts, err := parseFlags([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env"), "--write-config"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !opts.writeConfig {
		t.Fatalf("expected write-config to be set")
	}
}

func TestRunWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.toml")
	if err := run([]string{"--env-file", "", "--write-config", "--config", path}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("load written config: %v", err)
	}
}

func TestRunDumpCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cap")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create capture: %v", err)
	}
	c := bridge.NewCapture(f)
	if err := c.RecordSoundEvent(interaction.NewSoundEvent(packet.SoundEventIgnite, mgl32.Vec3{0, 64, 0}, -1)); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = f.Close()

	if err := run([]string{"--env-file", "", "--dump-capture", path}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := run([]string{"--env-file", "", "--dump-capture", filepath.Join(t.TempDir(), "absent.cap")}); err == nil {
		t.Fatalf("expected error for missing capture file")
	}
}
