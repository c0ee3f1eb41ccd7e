package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/narayanwaraich/bookie-sub004/internal/duration"
	"github.com/narayanwaraich/bookie-sub004/internal/expiry"
	"github.com/narayanwaraich/bookie-sub004/internal/util"
)

// Config is the on-disk configuration for the bookie tools.
type Config struct {
	Log    Log    `yaml:"log"`
	Tokens Tokens `yaml:"tokens"`
	Batch  Batch  `yaml:"batch"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Tokens holds one lifetime per token kind. Values are validated while the
// file is decoded.
type Tokens struct {
	Access        duration.Value `yaml:"access"`
	Refresh       duration.Value `yaml:"refresh"`
	VerifyEmail   duration.Value `yaml:"verify_email"`
	ResetPassword duration.Value `yaml:"reset_password"`
}

type Batch struct {
	// MaxBytes caps decompressed batch input, e.g. "64MiB".
	MaxBytes string `yaml:"max_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := expiry.DefaultPolicy()
	return &Config{
		Log: Log{Level: "info", Format: "text"},
		Tokens: Tokens{
			Access:        p[expiry.Access],
			Refresh:       p[expiry.Refresh],
			VerifyEmail:   p[expiry.VerifyEmail],
			ResetPassword: p[expiry.ResetPassword],
		},
		Batch: Batch{MaxBytes: "64MiB"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if _, err := c.MaxBatchBytes(); err != nil {
		return err
	}
	return nil
}

// Policy converts the token section into an expiry.Policy. Unset entries keep
// their defaults.
func (c *Config) Policy() expiry.Policy {
	p := expiry.DefaultPolicy()
	set := func(k expiry.Kind, v duration.Value) {
		if v != "" {
			p[k] = v
		}
	}
	set(expiry.Access, c.Tokens.Access)
	set(expiry.Refresh, c.Tokens.Refresh)
	set(expiry.VerifyEmail, c.Tokens.VerifyEmail)
	set(expiry.ResetPassword, c.Tokens.ResetPassword)
	return p
}

// MaxBatchBytes parses Batch.MaxBytes. Empty or "0" means unlimited.
func (c *Config) MaxBatchBytes() (int64, error) {
	if c.Batch.MaxBytes == "" {
		return 0, nil
	}
	n, err := util.ParseByteSize(c.Batch.MaxBytes)
	if err != nil {
		return 0, fmt.Errorf("batch.max_bytes: %w", err)
	}
	return n, nil
}

// YAML renders the configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
