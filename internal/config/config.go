// Package config defines process configuration and its loading order:
// defaults, then an optional YAML file, then STATSNAP_* environment
// variables.
package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Telegram TelegramConfig `koanf:"telegram"`
	Storage  StorageConfig  `koanf:"storage"`
	Server   ServerConfig   `koanf:"server"`
	Watch    WatchConfig    `koanf:"watch"`
}

type LogConfig struct {
	// Level controls verbosity: debug, info, warn, error.
	Level string `koanf:"level"`
}

type TelegramConfig struct {
	// Token is the bot API token. Required by the run command only.
	Token string `koanf:"token"`

	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int `koanf:"poll_timeout"`
}

type StorageConfig struct {
	DataDir string `koanf:"data_dir"`
}

type ServerConfig struct {
	// Addr is the health endpoint listen address.
	Addr string `koanf:"addr"`
}

type WatchConfig struct {
	// Command and Args name the child process to supervise.
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`

	// RestartDelay is the fixed pause between relaunches, e.g. "2s".
	// There is deliberately no backoff growth and no retry cap: the
	// supervisor is an always-on liveness policy.
	RestartDelay string `koanf:"restart_delay"`

	// LogFile is the rotating supervisor log. Size and backup count are
	// bounded to cap disk usage.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
}

func defaults() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Telegram: TelegramConfig{
			PollTimeout: 60,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8090",
		},
		Watch: WatchConfig{
			Command:       "statsnap",
			Args:          []string{"run"},
			RestartDelay:  "2s",
			LogFile:       "statsnap-watch.log",
			LogMaxSizeMB:  2,
			LogMaxBackups: 5,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".statsnap")
}
