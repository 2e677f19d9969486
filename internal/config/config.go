// Package config loads the portal's settings from ~/.medicare/config.toml.
//
// Values are resolved in order: built-in defaults, then the TOML file, then
// MEDICARE_* environment variables. A missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/internal/portal"
)

// Environment variables read by Load.
const (
	EnvConfig     = "MEDICARE_CONFIG"
	EnvLogLevel   = "MEDICARE_LOG_LEVEL"
	EnvLogFile    = "MEDICARE_LOG_FILE"
	EnvSupportURL = "MEDICARE_SUPPORT_URL"
)

// Duration is a time.Duration that reads "250ms" style strings from TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full settings file.
type Config struct {
	Scan ScanConfig `toml:"scan"`
	Log  LogConfig  `toml:"log"`
	UI   UIConfig   `toml:"ui"`
}

// ScanConfig paces the simulated biometric scan.
type ScanConfig struct {
	TickInterval Duration `toml:"tick_interval"`
	Increment    int      `toml:"increment"`
	SettleDelay  Duration `toml:"settle_delay"`
}

// LogConfig controls the log file. The terminal belongs to the UI, so logs
// never go to stdout.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	AltScreen   bool   `toml:"alt_screen"`
	SupportURL  string `toml:"support_url"`
	PatientName string `toml:"patient_name"`
}

// Default returns the built-in settings.
func Default() *Config {
	scan := portal.DefaultScanConfig()
	logFile := ""
	if dir, err := Dir(); err == nil {
		logFile = filepath.Join(dir, "medicare.log")
	}
	return &Config{
		Scan: ScanConfig{
			TickInterval: Duration{scan.TickInterval},
			Increment:    scan.Increment,
			SettleDelay:  Duration{scan.SettleDelay},
		},
		Log: LogConfig{
			Level: "info",
			File:  logFile,
		},
		UI: UIConfig{
			AltScreen:  true,
			SupportURL: "https://medicare.example.com/support",
		},
	}
}

// Dir returns ~/.medicare.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config.Dir: %w", err)
	}
	return filepath.Join(home, ".medicare"), nil
}

// Path returns the config file location, honouring MEDICARE_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load resolves the config from Path().
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return LoadFile(path)
}

// LoadFile resolves the config using path as the TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config.Load: %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config.Load: %s: unknown key %q", path, undecoded[0].String())
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays MEDICARE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		c.Log.File = v
	}
	if v := os.Getenv(EnvSupportURL); v != "" {
		c.UI.SupportURL = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ScanConfig().Validate(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.UI.SupportURL != "" {
		u, err := url.Parse(c.UI.SupportURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("support url %q must be an absolute http(s) URL", c.UI.SupportURL)
		}
	}
	return nil
}

// ScanConfig converts the scan section for the portal.
func (c *Config) ScanConfig() portal.ScanConfig {
	return portal.ScanConfig{
		TickInterval: c.Scan.TickInterval.Duration,
		Increment:    c.Scan.Increment,
		SettleDelay:  c.Scan.SettleDelay.Duration,
	}
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String renders c as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := c.Write(&b); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}
