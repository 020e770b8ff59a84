package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bgunnarsson/rowsql/internal/db"
)

// DefaultPath is read when no -config flag is given. It may be absent.
const DefaultPath = "rowsql.yaml"

const envPrefix = "ROWSQL_"

// Config is loaded once at startup and never mutated afterwards.
type Config struct {
	Backend           string            `yaml:"backend"`
	ConnectionStrings map[string]string `yaml:"connection_strings"`
	Log               LogConfig         `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url"`
}

// Load reads the YAML file at path and then applies ROWSQL_* environment
// overrides. A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv(os.Environ())
	return cfg, nil
}

func (c *Config) applyEnv(environ []string) {
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}

		switch name := strings.TrimPrefix(key, envPrefix); {
		case name == "BACKEND":
			c.Backend = val
		case name == "LOG_LEVEL":
			c.Log.Level = val
		case name == "SEQ_URL":
			c.Log.SeqURL = val
		case strings.HasPrefix(name, "CONN_"):
			id := strings.TrimPrefix(name, "CONN_")
			if id == "" {
				continue
			}
			if c.ConnectionStrings == nil {
				c.ConnectionStrings = map[string]string{}
			}
			// replace any file entry that differs only in case
			for k := range c.ConnectionStrings {
				if strings.EqualFold(k, id) {
					delete(c.ConnectionStrings, k)
				}
			}
			c.ConnectionStrings[id] = val
		}
	}
}

// ActiveBackend parses the configured identity. A blank value yields
// DefaultBackend and usedDefault is set so the caller can warn about it.
func (c *Config) ActiveBackend() (b Backend, usedDefault bool, err error) {
	if strings.TrimSpace(c.Backend) == "" {
		return DefaultBackend, true, nil
	}
	b, err = ParseBackend(c.Backend)
	return b, false, err
}

// ResolveConnectionString returns the connection string registered for b.
// An exact key wins; otherwise keys are matched case-insensitively in
// sorted order. Blank entries are skipped.
func (c *Config) ResolveConnectionString(b Backend) (string, error) {
	if b == "" {
		b = DefaultBackend
	}

	if v := c.ConnectionStrings[string(b)]; strings.TrimSpace(v) != "" {
		return v, nil
	}

	for _, k := range slices.Sorted(maps.Keys(c.ConnectionStrings)) {
		v := c.ConnectionStrings[k]
		if !strings.EqualFold(k, string(b)) || strings.TrimSpace(v) == "" {
			continue
		}
		return v, nil
	}

	return "", &db.ConfigurationError{
		Backend: string(b),
		Reason:  fmt.Sprintf("no connection string registered (set connection_strings.%s or %sCONN_%s)", b, envPrefix, strings.ToUpper(string(b))),
	}
}
