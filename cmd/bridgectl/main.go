package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/danmuck/bridgectl/internal/bridge"
	"github.com/danmuck/bridgectl/internal/config"
	"github.com/danmuck/bridgectl/internal/logging"
)

const envConfigPath = "BRIDGE_CONFIG"

type options struct {
	configPath  string
	envFile     string
	writeConfig bool
	overwrite   bool
	capturePath string
	dumpCapture string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bridgectl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	logging.ConfigureRuntime()

	if opts.writeConfig {
		if err := config.WriteTemplate(opts.configPath, opts.overwrite); err != nil {
			return err
		}
		log.Info().Str("path", opts.configPath).Msg("bridgectl wrote example config")
		return nil
	}

	if opts.dumpCapture != "" {
		return dumpCapture(opts.dumpCapture)
	}

	svc, err := bridge.NewService(bridge.FileLoader(opts.configPath))
	if err != nil {
		return err
	}
	if opts.capturePath != "" {
		f, err := os.OpenFile(opts.capturePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open capture %s: %w", opts.capturePath, err)
		}
		defer f.Close()
		svc.SetCapture(bridge.NewCapture(f))
		log.Info().Str("path", opts.capturePath).Msg("bridgectl capturing snapshots")
	}
	return svc.Run()
}

// dumpCapture logs every record of a capture file.
func dumpCapture(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	records, err := bridge.ReadCapture(f)
	for _, rec := range records {
		ev := log.Info().Uint64("seq", rec.Sequence).Uint32("message_type", rec.MessageType)
		if rec.SoundEvent != nil {
			ev = ev.Uint32("sound", rec.SoundEvent.SoundType).
				Int32("extra_data", rec.SoundEvent.ExtraData).
				Floats32("position", rec.SoundEvent.Position[:])
		} else {
			ev = ev.Str("item", rec.ItemID).Int("nbt_bytes", len(rec.NBT))
		}
		ev.Msg("bridgectl capture record")
	}
	if err != nil {
		return fmt.Errorf("read capture %s: %w", path, err)
	}
	log.Info().Int("records", len(records)).Msg("bridgectl capture done")
	return nil
}

// parseFlags also loads the optional dotenv file so BRIDGE_* variables
// from it apply to config and logging.
func parseFlags(args []string) (options, error) {
	fs := pflag.NewFlagSet("bridgectl", pflag.ContinueOnError)
	opts := options{}
	fs.StringVarP(&opts.configPath, "config", "c", "bridge.toml", "bridge config file (env "+envConfigPath+")")
	fs.StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file")
	fs.BoolVar(&opts.writeConfig, "write-config", false, "write an example config to --config and exit")
	fs.BoolVar(&opts.overwrite, "overwrite", false, "allow --write-config to replace an existing file")
	fs.StringVar(&opts.capturePath, "capture", "", "append framed sound event and item snapshots to this file")
	fs.StringVar(&opts.dumpCapture, "dump-capture", "", "log the records of a capture file and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if err := loadEnvFile(opts.envFile); err != nil {
		return options{}, err
	}
	if !fs.Changed("config") {
		if v := strings.TrimSpace(os.Getenv(envConfigPath)); v != "" {
			opts.configPath = v
		}
	}
	return opts, nil
}

// loadEnvFile ignores a missing file; existing environment wins.
func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
