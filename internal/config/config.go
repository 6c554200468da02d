package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the JSON API.
	Listen string `yaml:"listen" json:"listen"`

	// FeedPath points at the schedule document feed file (JSON).
	FeedPath string `yaml:"feed_path" json:"feed_path"`

	// RefreshCron is a cron-style schedule string (e.g. "* * * * *")
	// driving the reminder scanner ticks.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// DefaultSuburb is the suburb id used by one-shot CLI queries when no
	// --suburb flag is given.
	DefaultSuburb string `yaml:"default_suburb" json:"default_suburb"`

	// UpcomingLimit caps the upcoming-session list length.
	UpcomingLimit int `yaml:"upcoming_limit" json:"upcoming_limit"`

	// ReminderLeadMinutes is the lead-time threshold below which an
	// upcoming session is handed to the reminder sink.
	ReminderLeadMinutes int `yaml:"reminder_lead_minutes" json:"reminder_lead_minutes"`

	// WatchSuburbs lists the suburb ids the reminder scanner evaluates on
	// each tick. Empty means scanning is effectively off.
	WatchSuburbs []string `yaml:"watch_suburbs" json:"watch_suburbs"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:              "127.0.0.1:8080",
		FeedPath:            "./schedules.json",
		RefreshCron:         "* * * * *",
		DefaultSuburb:       "",
		UpcomingLimit:       3,
		ReminderLeadMinutes: 60,
		WatchSuburbs:        []string{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.FeedPath == "" {
		c.FeedPath = "./schedules.json"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "* * * * *"
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = 3
	}
	if c.ReminderLeadMinutes <= 0 {
		c.ReminderLeadMinutes = 60
	}
	if c.WatchSuburbs == nil {
		c.WatchSuburbs = []string{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".outagecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
