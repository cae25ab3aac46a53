package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/d2verb/signit/internal/pathutil"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGitHubBaseURL = "https://github.com"
	DefaultGitHubTimeout = 10 * time.Second
	DefaultLogLevel      = "info"
)

// Config is the content of the configuration file.
type Config struct {
	PrivateKey string       `yaml:"private_key"`
	PublicKey  string       `yaml:"public_key"`
	Pretty     bool         `yaml:"pretty"`
	GitHub     GitHubConfig `yaml:"github"`
	Log        LogConfig    `yaml:"log"`
}

// GitHubConfig controls key lookups on GitHub.
type GitHubConfig struct {
	User    string        `yaml:"user,omitempty"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls the optional log file. An empty Path disables it.
type LogConfig struct {
	Path       string `yaml:"path,omitempty"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Template returns the default configuration as it is written to disk,
// with paths relative to the home directory.
func Template() *Config {
	return &Config{
		PrivateKey: "~/.ssh/id_ed25519",
		PublicKey:  "~/.ssh/id_ed25519.pub",
		GitHub: GitHubConfig{
			BaseURL: DefaultGitHubBaseURL,
			Timeout: DefaultGitHubTimeout,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Load reads the configuration file at path on top of the defaults and
// resolves every path it names. An empty path or a missing file yields the
// defaults.
func Load(path, home string) (*Config, error) {
	cfg := Template()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, &ParseError{File: path, Err: err}
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := cfg.resolve(filepath.Dir(path), home); err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// resolve expands key and log paths. Paths that cannot be expanded because
// the home directory is unknown are cleared so callers report a missing key.
func (c *Config) resolve(baseDir, home string) error {
	for _, p := range []*string{&c.PrivateKey, &c.PublicKey, &c.Log.Path} {
		if *p == "" {
			continue
		}
		resolved, err := pathutil.ResolvePath(*p, baseDir, home)
		if errors.Is(err, pathutil.ErrNoHome) {
			*p = ""
			continue
		}
		if err != nil {
			return err
		}
		*p = resolved
	}
	return nil
}

// Validate checks field values that YAML decoding cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("github.base_url must be an http(s) URL, got %q", c.GitHub.BaseURL)
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("github.timeout must be positive, got %s", c.GitHub.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits cannot be negative")
	}
	return nil
}

// WriteTemplate writes the default configuration to path.
// An existing file is only replaced when overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &AlreadyExistsError{Path: path}
		}
	}

	data, err := yaml.Marshal(Template())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
