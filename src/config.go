package src

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable the client reads at startup. Values come from
// defaults, then ~/.datadeck/config.toml if present, then DATADECK_*
// environment variables, each layer overriding the previous one.
type Config struct {
	ServerURL   string `toml:"server_url"`   // websocket base, e.g. ws://127.0.0.1:8000
	ListingURL  string `toml:"listing_url"`  // http base for /api/list_dir
	RootPath    string `toml:"root_path"`    // remote path for the initial listing
	HighlightMs int    `toml:"highlight_ms"` // transient highlight duration
	LogFile     string `toml:"log_file"`
	HistoryDB   string `toml:"history_db"`
	Debug       bool   `toml:"debug"`
}

// DefaultConfig returns the built-in defaults. Paths live under
// ~/.datadeck; a missing home directory falls back to the working dir.
func DefaultConfig() Config {
	dir := configDir()
	return Config{
		ServerURL:   "ws://127.0.0.1:8000",
		ListingURL:  "http://127.0.0.1:8000",
		RootPath:    ".",
		HighlightMs: 1000,
		LogFile:     filepath.Join(dir, "datadeck.log"),
		HistoryDB:   filepath.Join(dir, "history.db"),
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".datadeck"
	}
	return filepath.Join(home, ".datadeck")
}

// LoadConfig builds the effective configuration. A missing config file is
// not an error; a malformed one is.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(configDir(), "config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATADECK_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("DATADECK_LISTING_URL"); v != "" {
		cfg.ListingURL = v
	}
	if v := os.Getenv("DATADECK_ROOT_PATH"); v != "" {
		cfg.RootPath = v
	}
	if v := os.Getenv("DATADECK_HIGHLIGHT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.HighlightMs = ms
		}
	}
	if v := os.Getenv("DATADECK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("DATADECK_HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}
	if v := os.Getenv("DATADECK_DEBUG"); v != "" {
		cfg.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate rejects configurations the client cannot start with.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.ServerURL, "ws://") && !strings.HasPrefix(c.ServerURL, "wss://") {
		return fmt.Errorf("server_url must be a ws:// or wss:// URL, got %q", c.ServerURL)
	}
	if !strings.HasPrefix(c.ListingURL, "http://") && !strings.HasPrefix(c.ListingURL, "https://") {
		return fmt.Errorf("listing_url must be an http:// or https:// URL, got %q", c.ListingURL)
	}
	if c.HighlightMs <= 0 {
		return fmt.Errorf("highlight_ms must be positive, got %d", c.HighlightMs)
	}
	return nil
}

// HighlightDelay is HighlightMs as a duration.
func (c Config) HighlightDelay() time.Duration {
	return time.Duration(c.HighlightMs) * time.Millisecond
}

// SocketURL is the full websocket endpoint for one client session.
func (c Config) SocketURL(clientID string) string {
	return strings.TrimSuffix(c.ServerURL, "/") + "/ws/" + clientID
}
