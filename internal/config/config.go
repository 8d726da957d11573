package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config locates the data files. All paths default to the data dir so a
// fresh install needs no config file at all.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	DBPath      string `yaml:"db_path"`
	AuthFile    string `yaml:"auth_file"`
	SessionFile string `yaml:"session_file"`
}

// Default returns the zero-config layout under ~/.secondmind.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".secondmind")}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "secondmind", "config.yaml"), nil
}

// Load reads a config file, falling back to defaults when it does not
// exist. Relative paths are resolved against the data dir.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.resolve(), nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.resolve(), nil
}

// Save writes the config file, creating its directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) resolve() Config {
	if c.DataDir == "" {
		c.DataDir = Default().DataDir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "secondmind.db")
	}
	if c.AuthFile == "" {
		c.AuthFile = filepath.Join(c.DataDir, "users.txt")
	}
	if c.SessionFile == "" {
		c.SessionFile = filepath.Join(c.DataDir, "session")
	}
	return c
}
