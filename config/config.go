package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// OwnerCodeEnv overrides the owner code from the config file when set.
const OwnerCodeEnv = "PIXCODE_OWNER_CODE"

const (
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
	maxOwnerCodeLength       = 64
)

// Config is the config for the application. It is built once at startup and
// handed to the server, nothing mutates it afterwards.
type Config struct {
	DatabasePath string `json:"sqlite"`
	ImagePath    string `json:"image_path"`
	MediaPath    string `json:"media_path"`
	// BasePath is the public url the upload response links are built from.
	BasePath  string `json:"base_path"`
	OwnerCode string `json:"owner_code"`
	Listen    string `json:"listen"`
	// MaxBodySize is the largest request body accepted, in bytes.
	MaxBodySize int64 `json:"max_body_size"`
}

// New returns a config with default values
func New() *Config {
	return &Config{
		ImagePath:   "images",
		MediaPath:   "media",
		BasePath:    "/",
		Listen:      ":8080",
		MaxBodySize: DefaultMaxBodySize,
	}
}

// FromReader creates a config from a reader that contains json content.
func FromReader(f io.Reader) (*Config, error) {
	cfg := New()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config from reader: %w", err)
	}

	if code := os.Getenv(OwnerCodeEnv); code != "" {
		cfg.OwnerCode = code
	}

	return cfg, nil
}

// FromFile opens path and reads a config from it.
func FromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return FromReader(f)
}

// Validate reports the first problem that would stop the server from running.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.New("config didn't provide a 'sqlite' option as a path to an sqlite file")
	}
	if c.OwnerCode == "" {
		return errors.New("config didn't provide an 'owner_code'")
	}
	if len(c.OwnerCode) > maxOwnerCodeLength {
		return fmt.Errorf("'owner_code' is longer than %d characters", maxOwnerCodeLength)
	}
	if c.ImagePath == "" || c.MediaPath == "" {
		return errors.New("'image_path' and 'media_path' can't be empty")
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("'max_body_size' must be positive, got %d", c.MaxBodySize)
	}

	return nil
}
