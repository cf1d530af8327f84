// Package tdbconfig holds the client's connection configuration and a
// pair of optional loaders (plain YAML, viper) for embedders that want
// config-file/env-var discovery. tdbhttp.Client never requires either
// loader: a Config can always be built by hand or via New.
package tdbconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConnectTimeout = 30 * time.Second

// Config is the client's connection configuration, spec §6 "Client
// configuration: {endpoint: URL, user, password, org, connect_timeout
// (default 30s)}".
type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Org            string        `yaml:"org"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// New returns a Config with ConnectTimeout defaulted to 30s, the rest
// taken verbatim from the arguments.
func New(endpoint, user, password, org string) Config {
	return Config{
		Endpoint:       endpoint,
		User:           user,
		Password:       password,
		Org:            org,
		ConnectTimeout: defaultConnectTimeout,
	}
}

// WithConnectTimeout returns a copy of c with ConnectTimeout set to d.
func (c Config) WithConnectTimeout(d time.Duration) Config {
	c.ConnectTimeout = d
	return c
}

// Validate checks that the fields a Client cannot function without are
// populated. ConnectTimeout is normalized to the default if left zero
// rather than rejected, since a Config built with a bare struct literal
// has no other way to pick up the default.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("tdbconfig: endpoint is required")
	}
	if c.User == "" {
		return fmt.Errorf("tdbconfig: user is required")
	}
	if c.Org == "" {
		return fmt.Errorf("tdbconfig: org is required")
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	return nil
}

// LoadYAML reads a Config from a YAML file at path, defaulting
// ConnectTimeout to 30s when the file omits it.
func LoadYAML(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("tdbconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("tdbconfig: parse %s: %w", path, err)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return cfg, nil
}

// LoadViper builds a Config from a viper instance, the form an embedding
// CLI/service uses when it already wires flags, env vars and config
// files through viper (mirroring the bind-then-read pattern of a
// Cobra/viper root command). Keys read: endpoint, user, password, org,
// connect_timeout (a duration string such as "30s", or a bare integer
// number of seconds).
func LoadViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Endpoint: v.GetString("endpoint"),
		User:     v.GetString("user"),
		Password: v.GetString("password"),
		Org:      v.GetString("org"),
	}
	if v.IsSet("connect_timeout") {
		if secs, err := strconv.Atoi(v.GetString("connect_timeout")); err == nil {
			cfg.ConnectTimeout = time.Duration(secs) * time.Second
		} else {
			cfg.ConnectTimeout = v.GetDuration("connect_timeout")
		}
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return cfg, nil
}
