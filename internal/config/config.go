// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads gitlog configuration with a fixed precedence:
// CLI flags > environment variables > config file > defaults.
//
// The config file is the --config path, else $GITLOG_CONFIG, else
// <UserConfigDir>/gitlog/config.yaml when it exists. Files ending in .toml
// are decoded as TOML, anything else as YAML. Unknown keys are rejected.
//
// Environment variables:
//   - GITLOG_BASE_PATH, GITLOG_BACKEND (go-git or exec), GITLOG_GIT_COMMAND
//   - GITLOG_FORMAT, GITLOG_TZ (IANA name), GITLOG_LOG_LEVEL
//
// A .env file supplies variables not already set in the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/gitlog/internal/logging"
)

const (
	BackendGoGit = "go-git"
	BackendExec  = "exec"
)

const (
	EnvConfig     = "GITLOG_CONFIG"
	EnvBasePath   = "GITLOG_BASE_PATH"
	EnvBackend    = "GITLOG_BACKEND"
	EnvGitCommand = "GITLOG_GIT_COMMAND"
	EnvFormat     = "GITLOG_FORMAT"
	EnvTimezone   = "GITLOG_TZ"
	EnvLogLevel   = "GITLOG_LOG_LEVEL"
)

// Config is the resolved configuration.
type Config struct {
	BasePath   string `yaml:"base_path" toml:"base_path"`
	Backend    string `yaml:"backend" toml:"backend"`
	GitCommand string `yaml:"git_command" toml:"git_command"`
	Format     string `yaml:"format" toml:"format"`
	// Timezone is an IANA zone name. Empty means the local zone.
	Timezone string `yaml:"timezone" toml:"timezone"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// Repositories maps repository names to directories. Relative
	// directories are resolved under BasePath.
	Repositories map[string]string `yaml:"repositories" toml:"repositories"`

	// Source is the config file that was read, if any.
	Source string `yaml:"-" toml:"-"`

	loc *time.Location
}

// Overrides holds CLI flag values. Nil fields are left alone.
type Overrides struct {
	BasePath   *string
	Backend    *string
	GitCommand *string
	Format     *string
	Timezone   *string
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// Path is an explicit config file; it must exist.
	Path string
	// DotEnv is a .env file merged under Env. Missing files are ignored.
	DotEnv string
	// Env is a key=value slice; nil means os.Environ().
	Env []string
	// UserConfigDir replaces os.UserConfigDir for the default file lookup.
	UserConfigDir string
	Overrides     *Overrides
}

// Error is a configuration problem worth showing to the user as-is.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BasePath:   ".",
		Backend:    BackendGoGit,
		GitCommand: "git",
		Format:     "TEXT",
		LogLevel:   "info",
	}
}

// Load resolves configuration from every layer and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	env, err := environ(opts)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	path, required, err := configPath(opts, env)
	if err != nil {
		return nil, err
	}
	if path != "" {
		found, err := mergeFile(&cfg, path, required)
		if err != nil {
			return nil, err
		}
		if found {
			cfg.Source = path
		}
	}

	applyEnv(&cfg, env)
	applyOverrides(&cfg, opts.Overrides)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location returns the zone used to render commit times.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendGoGit, BackendExec:
	default:
		return &Error{Msg: fmt.Sprintf("unknown backend %q (must be %s or %s)", c.Backend, BackendGoGit, BackendExec)}
	}
	if strings.TrimSpace(c.BasePath) == "" {
		return &Error{Msg: "base_path must not be empty"}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &Error{Msg: "invalid log_level", Err: err}
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return &Error{Msg: "invalid timezone", Err: err}
		}
		c.loc = loc
	}
	for name, dir := range c.Repositories {
		if name == "" || dir == "" {
			return &Error{Msg: fmt.Sprintf("repositories: empty name or path in entry %q", name)}
		}
	}
	return nil
}

// environ merges the .env file under the supplied environment.
func environ(opts LoadOptions) (map[string]string, error) {
	src := opts.Env
	if src == nil {
		src = os.Environ()
	}
	env := make(map[string]string, len(src))
	for _, kv := range src {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}

	if opts.DotEnv == "" {
		return env, nil
	}
	dot, err := godotenv.Read(opts.DotEnv)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return env, nil
		}
		return nil, &Error{Msg: fmt.Sprintf("reading %s", opts.DotEnv), Err: err}
	}
	for k, v := range dot {
		if _, set := env[k]; !set {
			env[k] = v
		}
	}
	return env, nil
}

// configPath returns the file to read and whether its absence is an error.
func configPath(opts LoadOptions, env map[string]string) (string, bool, error) {
	if opts.Path != "" {
		return opts.Path, true, nil
	}
	if p := env[EnvConfig]; p != "" {
		return p, true, nil
	}
	dir := opts.UserConfigDir
	if dir == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			// No home directory: run on defaults.
			return "", false, nil
		}
		dir = d
	}
	return filepath.Join(dir, "gitlog", "config.yaml"), false, nil
}

// fileConfig mirrors Config with pointers so absent keys keep lower layers.
type fileConfig struct {
	BasePath     *string           `yaml:"base_path" toml:"base_path"`
	Backend      *string           `yaml:"backend" toml:"backend"`
	GitCommand   *string           `yaml:"git_command" toml:"git_command"`
	Format       *string           `yaml:"format" toml:"format"`
	Timezone     *string           `yaml:"timezone" toml:"timezone"`
	LogLevel     *string           `yaml:"log_level" toml:"log_level"`
	Repositories map[string]string `yaml:"repositories" toml:"repositories"`
}

func mergeFile(cfg *Config, path string, required bool) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path chosen by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return false, nil
		}
		return false, &Error{Msg: "could not read config file " + path, Err: err}
	}

	var file fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &file)
		if err != nil {
			return false, &Error{Msg: "invalid TOML in " + path, Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return false, &Error{Msg: fmt.Sprintf("unknown key %q in %s", undecoded[0].String(), path)}
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return false, &Error{Msg: "invalid YAML in " + path, Err: err}
		}
	}

	setString(&cfg.BasePath, file.BasePath)
	setString(&cfg.Backend, file.Backend)
	setString(&cfg.GitCommand, file.GitCommand)
	setString(&cfg.Format, file.Format)
	setString(&cfg.Timezone, file.Timezone)
	setString(&cfg.LogLevel, file.LogLevel)
	if len(file.Repositories) > 0 {
		cfg.Repositories = file.Repositories
	}
	return true, nil
}

func applyEnv(cfg *Config, env map[string]string) {
	lookup := func(k string) *string {
		v, ok := env[k]
		if !ok {
			return nil
		}
		return &v
	}
	setString(&cfg.BasePath, lookup(EnvBasePath))
	setString(&cfg.Backend, lookup(EnvBackend))
	setString(&cfg.GitCommand, lookup(EnvGitCommand))
	setString(&cfg.Format, lookup(EnvFormat))
	setString(&cfg.Timezone, lookup(EnvTimezone))
	setString(&cfg.LogLevel, lookup(EnvLogLevel))
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	setString(&cfg.BasePath, o.BasePath)
	setString(&cfg.Backend, o.Backend)
	setString(&cfg.GitCommand, o.GitCommand)
	setString(&cfg.Format, o.Format)
	setString(&cfg.Timezone, o.Timezone)
}

// setString copies a non-empty trimmed value into dst.
func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
