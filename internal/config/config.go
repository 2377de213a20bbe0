// Package config resolves eyec settings from defaults, an optional config
// file, and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"eyec/internal/report"
)

// Environment variables read by Resolve.
const (
	EnvReport    = "EYEC_REPORT"
	EnvConfig    = "EYEC_CONFIG"
	EnvLogLevel  = "EYEC_LOG_LEVEL"
	EnvLogFormat = "EYEC_LOG_FORMAT"
	EnvQuiet     = "EYEC_QUIET"
)

// DefaultFile is looked up in the working directory when EYEC_CONFIG is unset.
const DefaultFile = ".eyec.yaml"

const DefaultNoticeInterval = 5 * time.Minute

// File is the on-disk configuration. Every field is optional.
type File struct {
	Report         string   `json:"report,omitempty" yaml:"report,omitempty"`
	Compilers      []string `json:"compilers,omitempty" yaml:"compilers,omitempty"`
	Archivers      []string `json:"archivers,omitempty" yaml:"archivers,omitempty"`
	NoticeInterval string   `json:"notice_interval,omitempty" yaml:"notice_interval,omitempty"`
	LockTimeout    string   `json:"lock_timeout,omitempty" yaml:"lock_timeout,omitempty"`
	LogLevel       string   `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat      string   `json:"log_format,omitempty" yaml:"log_format,omitempty"`
}

// Config is the resolved configuration.
type Config struct {
	ReportPath     string
	Compilers      []string // extra compiler substrings beyond the defaults
	Archivers      []string // extra archiver substrings beyond the defaults
	NoticeInterval time.Duration
	Quiet          bool
	LockTimeout    time.Duration
	LogLevel       string
	LogFormat      string
	Source         string // config file that was applied, if any
}

// Resolve builds the configuration for a process running in cwd.
// getenv is usually os.Getenv.
func Resolve(cwd string, getenv func(string) string) (*Config, error) {
	cfg := Defaults(cwd)
	if err := cfg.ApplyFile(cwd, getenv); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(getenv)
	return cfg, nil
}

// Defaults returns the built-in configuration for cwd.
func Defaults(cwd string) *Config {
	return &Config{
		ReportPath:     filepath.Join(cwd, report.DefaultFilename),
		NoticeInterval: DefaultNoticeInterval,
		LockTimeout:    report.DefaultLockTimeout,
		LogLevel:       "warn",
		LogFormat:      "text",
	}
}

// ApplyFile overlays $EYEC_CONFIG, or DefaultFile in cwd when present.
// A missing DefaultFile is not an error; a missing explicit file is.
func (c *Config) ApplyFile(cwd string, getenv func(string) string) error {
	path, explicit := getenv(EnvConfig), true
	if path == "" {
		path, explicit = filepath.Join(cwd, DefaultFile), false
	}
	f, err := LoadFromPath(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return err
	}
	next := *c
	if err := next.apply(f, filepath.Dir(path)); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	next.Source = path
	*c = next
	return nil
}

// ApplyEnv overlays the EYEC_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvReport); v != "" {
		c.ReportPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := getenv(EnvQuiet); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		c.Quiet = true
	}
}

// apply overlays f. Relative report paths resolve against the config
// file's directory.
func (c *Config) apply(f *File, dir string) error {
	if f.Report != "" {
		c.ReportPath = f.Report
		if !filepath.IsAbs(c.ReportPath) {
			c.ReportPath = filepath.Join(dir, c.ReportPath)
		}
	}
	c.Compilers = append(slices.Clip(c.Compilers), f.Compilers...)
	c.Archivers = append(slices.Clip(c.Archivers), f.Archivers...)
	if f.NoticeInterval != "" {
		d, err := time.ParseDuration(f.NoticeInterval)
		if err != nil {
			return fmt.Errorf("notice_interval: %w", err)
		}
		if d <= 0 {
			c.Quiet = true
		}
		c.NoticeInterval = d
	}
	if f.LockTimeout != "" {
		d, err := time.ParseDuration(f.LockTimeout)
		if err != nil {
			return fmt.Errorf("lock_timeout: %w", err)
		}
		c.LockTimeout = d
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
	return nil
}
