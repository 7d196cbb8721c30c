// Package config loads the timecard TOML configuration with environment
// overrides. All three binaries share one file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	appName    = "timecard"
	configFile = "config.toml"
)

type Config struct {
	// ServerURL is where the client and monitor reach the server.
	ServerURL string `toml:"server_url"`
	// ListenAddr is the server's bind address.
	ListenAddr string `toml:"listen_addr"`
	// DBPath overrides the default database location. Empty means the
	// platform config directory.
	DBPath string `toml:"db_path"`
	// MonitorIntervalSecs is how often the workday monitor sweeps.
	MonitorIntervalSecs int `toml:"monitor_interval_secs"`
}

func Default() Config {
	return Config{
		ServerURL:           "http://localhost:8001",
		ListenAddr:          ":8001",
		MonitorIntervalSecs: 300,
	}
}

// Path returns the config file location, creating the directory if needed.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, configFile), nil
}

// Load reads the config file if present, then applies environment
// overrides. A missing file is not an error; defaults apply.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TIMECARD_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("TIMECARD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TIMECARD_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TIMECARD_MONITOR_INTERVAL_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.MonitorIntervalSecs = secs
		}
	}
}
