// Package config loads the ludoserver configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Server is the ludoserver configuration.
type Server struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// Worker pool limits: fast slots gate game operations, slow slots
	// gate simulations.
	MaxFastWorkers int `yaml:"max_fast_workers"`
	MaxSlowWorkers int `yaml:"max_slow_workers"`

	// Games older than this with no activity are dropped from the
	// registry. Zero disables expiry.
	GameTTL time.Duration `yaml:"game_ttl"`

	LogLevel string `yaml:"log_level"`
}

// serverYAML mirrors Server with durations as strings, since yaml.v3
// does not decode "30s" style values into time.Duration.
type serverYAML struct {
	Host           *string `yaml:"host"`
	Port           *int    `yaml:"port"`
	ReadTimeout    *string `yaml:"read_timeout"`
	WriteTimeout   *string `yaml:"write_timeout"`
	IdleTimeout    *string `yaml:"idle_timeout"`
	MaxFastWorkers *int    `yaml:"max_fast_workers"`
	MaxSlowWorkers *int    `yaml:"max_slow_workers"`
	GameTTL        *string `yaml:"game_ttl"`
	LogLevel       *string `yaml:"log_level"`
}

// UnmarshalYAML decodes a server config, keeping the current values for
// any key the document omits.
func (s *Server) UnmarshalYAML(value *yaml.Node) error {
	var raw serverYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Host != nil {
		s.Host = *raw.Host
	}
	if raw.Port != nil {
		s.Port = *raw.Port
	}
	if raw.MaxFastWorkers != nil {
		s.MaxFastWorkers = *raw.MaxFastWorkers
	}
	if raw.MaxSlowWorkers != nil {
		s.MaxSlowWorkers = *raw.MaxSlowWorkers
	}
	if raw.LogLevel != nil {
		s.LogLevel = *raw.LogLevel
	}

	for _, d := range []struct {
		key string
		src *string
		dst *time.Duration
	}{
		{"read_timeout", raw.ReadTimeout, &s.ReadTimeout},
		{"write_timeout", raw.WriteTimeout, &s.WriteTimeout},
		{"idle_timeout", raw.IdleTimeout, &s.IdleTimeout},
		{"game_ttl", raw.GameTTL, &s.GameTTL},
	} {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

// DefaultServer returns the built-in defaults.
func DefaultServer() Server {
	return Server{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
		GameTTL:        24 * time.Hour,
		LogLevel:       "info",
	}
}

// LoadServer loads the server configuration.
// Search order: customPath -> ~/.ludo/server.yaml -> ./server.yaml ->
// built-in defaults. Missing keys keep their default values.
func LoadServer(customPath string) (Server, error) {
	cfg := DefaultServer()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userPath := userConfigPath("server.yaml"); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("server.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if the
// home directory is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ludo", filename)
}
