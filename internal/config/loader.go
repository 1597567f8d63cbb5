package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults
//  2. file (YAML) if STATSNAP_CONFIG is set
//  3. env (prefix STATSNAP_)
func Load() (Config, error) {
	return loadFromPath(os.Getenv("STATSNAP_CONFIG"))
}

func loadFromPath(path string) (Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	// Environment variables: STATSNAP_TELEGRAM_TOKEN -> telegram.token,
	// STATSNAP_WATCH_LOG_FILE -> watch.log_file. Only the first
	// underscore separates the section, so multi-word keys survive.
	envProvider := env.Provider("STATSNAP_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "STATSNAP_"))
		return strings.Replace(s, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	if cfg.Server.Addr == "" {
		return Config{}, errors.New("server addr must not be empty")
	}
	if cfg.Telegram.PollTimeout <= 0 {
		return Config{}, errors.New("telegram poll_timeout must be positive")
	}
	if cfg.Storage.DataDir == "" {
		return Config{}, errors.New("storage data_dir must not be empty")
	}
	return cfg, nil
}
