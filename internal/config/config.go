// Package config defines the folio configuration format and helpers for
// loading or saving it to disk, plus the items manifest and its watcher.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edward-ap/folio/internal/contact"
	"github.com/edward-ap/folio/internal/marquee"
)

const (
	// AppID is the stable application identifier used for config storage.
	AppID = "folio"
	// AppConfigSubdir is the OS-specific directory that holds the config file.
	AppConfigSubdir = "Folio"
	// AppConfigName is the JSON file stored on disk.
	AppConfigName = "config.json"
	// DefaultItemsName is the manifest looked up next to config.json.
	DefaultItemsName = "items.yaml"

	// DefaultWidth is the preferred window width when no persisted value exists.
	DefaultWidth = 960
	// DefaultHeight is the preferred window height.
	DefaultHeight = 420
	// MinWindowWidth keeps the strip wide enough to show a few items.
	MinWindowWidth = 480
	// DefaultListenAddr is where `folio serve` listens.
	DefaultListenAddr = "127.0.0.1:8787"
	// DefaultContactEndpoint is the URL the showcase form posts to.
	DefaultContactEndpoint = "http://" + DefaultListenAddr + contact.DefaultPath

	// EnvEmail names the relay account (sender and recipient).
	EnvEmail = "EMAIL"
	// EnvEmailPass names the relay account password or app password.
	EnvEmailPass = "EMAIL_PASS"
)

// MarqueeSettings is the persisted form of marquee.Config.
type MarqueeSettings struct {
	Speed        float64 `json:"speed"`
	Direction    string  `json:"direction"`
	PauseOnHover *bool   `json:"pauseOnHover,omitempty"`
	Paused       bool    `json:"paused,omitempty"`
	Gap          float64 `json:"gap"`
	ItemHeight   float64 `json:"itemHeight"`
	FadeEdges    bool    `json:"fadeEdges,omitempty"`
	// MaxFrameDeltaMS caps a single tick; 0 means the engine default.
	MaxFrameDeltaMS int `json:"maxFrameDeltaMs,omitempty"`
}

// Config aggregates every preference persisted between sessions.
type Config struct {
	WindowW         int             `json:"windowW"`
	WindowH         int             `json:"windowH"`
	Marquee         MarqueeSettings `json:"marquee"`
	ItemsPath       string          `json:"itemsPath,omitempty"`
	// ItemsURL, when set, replaces the local manifest with a polled feed.
	ItemsURL        string          `json:"itemsUrl,omitempty"`
	ContactEndpoint string          `json:"contactEndpoint"`
	ListenAddr      string          `json:"listenAddr"`
	SMTPHost        string          `json:"smtpHost,omitempty"`
	SMTPPort        int             `json:"smtpPort,omitempty"`

	path string
}

// ConfigDir resolves the writable directory that should contain the config file.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppConfigSubdir), nil
}

// ConfigPath is a helper that returns the full path to config.json.
func ConfigPath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppConfigName), nil
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields defaults, which are
// written back on a best-effort basis.
func LoadFrom(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := newDefaultConfig()
			cfg.path = path
			// Try saving an initial config, but still return defaults even if it fails.
			_ = cfg.Save()
			return cfg, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	cfg.path = path
	cfg.applyRuntimeDefaults()
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Save persists the configuration, creating directories as needed.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// AppID returns the stable identifier used by the GUI framework.
func (c *Config) AppID() string { return AppID }

// ResolvedItemsPath returns the manifest path, defaulting to items.yaml next
// to the config file.
func (c *Config) ResolvedItemsPath() string {
	if p := strings.TrimSpace(c.ItemsPath); p != "" {
		return p
	}
	if c.path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(c.path), DefaultItemsName)
}

// MarqueeConfig converts the persisted settings into an engine config.
func (c *Config) MarqueeConfig() marquee.Config {
	m := c.Marquee
	dir, _ := marquee.ParseDirection(m.Direction)
	pause := marquee.DefaultPauseOnHover
	if m.PauseOnHover != nil {
		pause = *m.PauseOnHover
	}
	return marquee.Config{
		Speed:         m.Speed,
		Direction:     dir,
		PauseOnHover:  pause,
		Paused:        m.Paused,
		Gap:           m.Gap,
		ItemHeight:    m.ItemHeight,
		FadeEdges:     m.FadeEdges,
		MaxFrameDelta: time.Duration(m.MaxFrameDeltaMS) * time.Millisecond,
	}.Normalize()
}

// SetMarqueeConfig stores an engine config back into the persisted settings.
func (c *Config) SetMarqueeConfig(mc marquee.Config) {
	pause := mc.PauseOnHover
	c.Marquee = MarqueeSettings{
		Speed:           mc.Speed,
		Direction:       mc.Direction.String(),
		PauseOnHover:    &pause,
		Paused:          mc.Paused,
		Gap:             mc.Gap,
		ItemHeight:      mc.ItemHeight,
		FadeEdges:       mc.FadeEdges,
		MaxFrameDeltaMS: int(mc.MaxFrameDelta / time.Millisecond),
	}
}

// SMTPCredentials reads the relay account from the environment.
func SMTPCredentials() (account, password string, ok bool) {
	account = strings.TrimSpace(os.Getenv(EnvEmail))
	password = os.Getenv(EnvEmailPass)
	return account, password, account != "" && password != ""
}

// newDefaultConfig builds an in-memory config populated with safe defaults.
func newDefaultConfig() *Config {
	cfg := &Config{
		WindowW:         DefaultWidth,
		WindowH:         DefaultHeight,
		ContactEndpoint: DefaultContactEndpoint,
		ListenAddr:      DefaultListenAddr,
	}
	cfg.applyRuntimeDefaults()
	return cfg
}

// applyRuntimeDefaults normalizes config values after a load or when defaults
// are constructed, so every consumer receives sane inputs.
func (c *Config) applyRuntimeDefaults() {
	if c.WindowW == 0 {
		c.WindowW = DefaultWidth
	}
	if c.WindowW < MinWindowWidth {
		c.WindowW = MinWindowWidth
	}
	if c.WindowH <= 0 {
		c.WindowH = DefaultHeight
	}
	if c.Marquee.Speed == 0 {
		c.Marquee.Speed = marquee.DefaultSpeed
	}
	if c.Marquee.Speed < 0 {
		c.Marquee.Speed = -c.Marquee.Speed
	}
	if dir, ok := marquee.ParseDirection(c.Marquee.Direction); ok {
		c.Marquee.Direction = dir.String()
	} else {
		c.Marquee.Direction = marquee.Forward.String()
	}
	if c.Marquee.Gap <= 0 {
		c.Marquee.Gap = marquee.DefaultGap
	}
	if c.Marquee.ItemHeight <= 0 {
		c.Marquee.ItemHeight = marquee.DefaultItemHeight
	}
	if c.Marquee.MaxFrameDeltaMS < 0 {
		c.Marquee.MaxFrameDeltaMS = 0
	}
	if strings.TrimSpace(c.ContactEndpoint) == "" {
		c.ContactEndpoint = DefaultContactEndpoint
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.SMTPHost == "" {
		c.SMTPHost = contact.DefaultSMTPHost
	}
	if c.SMTPPort <= 0 {
		c.SMTPPort = contact.DefaultSMTPPort
	}
}
