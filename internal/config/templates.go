package config

import (
	"fmt"
	"os"
)

// Template returns an annotated example config.
func Template() string {
	return bridgeTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(bridgeTemplate), 0o600)
}

const bridgeTemplate = `# folder holding suggestions.yml
config_folder = "config"
default_locale = "en_US"
# extra go-i18n TOML message files layered over the built-in ones
locale_overrides_dir = ""
admin_listen_addr = "127.0.0.1:7020"
# /health, /ready, /status and /metrics; empty disables
http_listen_addr = "127.0.0.1:7022"
outbox_size = 256

[interaction]
# builtin translators to skip: hoe, shovel, flint_and_steel
disabled = []

[[block_mappings]]
java_id = 4342
bedrock_id = 5120
`
