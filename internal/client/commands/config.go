package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Sync modes.
const (
	SyncOutbox = "outbox"
	SyncDirect = "direct"
)

type Config struct {
	Path    string
	Server  string
	Sync    string
	Timeout time.Duration
}

// LoadConfig reads .journalify.yaml from JOURNALIFY_CONFIG_PATH, the working
// directory or the home directory. JOURNALIFY_* env vars override it.
func LoadConfig() (*Config, error) {
	viper.SetDefault("path", "~/.journalify.db")
	viper.SetDefault("server", "http://localhost:8080")
	viper.SetDefault("sync", SyncOutbox)
	viper.SetDefault("timeout", "10s")
	viper.SetConfigName(".journalify") // .yaml is implicit
	viper.SetEnvPrefix("JOURNALIFY")
	viper.AutomaticEnv()

	if override := os.Getenv("JOURNALIFY_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}

	mode := strings.ToLower(strings.TrimSpace(viper.GetString("sync")))
	switch mode {
	case SyncOutbox, SyncDirect:
	default:
		return nil, fmt.Errorf("unknown sync mode %q (want %s or %s)", mode, SyncOutbox, SyncDirect)
	}

	return &Config{
		Path:    path,
		Server:  viper.GetString("server"),
		Sync:    mode,
		Timeout: viper.GetDuration("timeout"),
	}, nil
}
