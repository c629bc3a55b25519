// Package config provides declarative pool configuration for spawnpool.
// Settings carry everything about a pool that is data rather than behavior —
// sizes, caps, observability switches — so applications can keep pool shape
// in their config files and inject only the lifecycle capabilities in code.
//
// Example usage:
//
//	var settings config.Settings
//	if err := config.Load("pools.yaml", &settings); err != nil {
//	    log.Fatal(err)
//	}
//	settings.ApplyDefaults()
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := spawn.Config[*Bullet]{ /* capabilities */ }
//	config.Apply(settings, &cfg)
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/spawnpool/pkg/errors"
	"github.com/ajitpratap0/spawnpool/pkg/spawn"
)

// Settings is the data half of a pool configuration.
type Settings struct {
	// Name identifies the pool in logs, errors, and metrics
	Name string `yaml:"name" json:"name"`
	// InitialSize is the number of instances pre-created by Initialize
	InitialSize int `yaml:"initial_size" json:"initial_size"`
	// MaxSize caps growth; zero means unbounded
	MaxSize int `yaml:"max_size" json:"max_size"`
	// EnableMetrics turns on Prometheus recording for the pool
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// LogLevel sets the pool's log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// ApplyDefaults fills unset fields with sensible defaults.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = "pool"
	}
	if s.InitialSize == 0 {
		s.InitialSize = 16
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// Validate checks the settings for internal consistency.
func (s *Settings) Validate() error {
	if s.InitialSize < 0 {
		return errors.New(errors.ErrorTypeValidation, "initial_size must not be negative").
			WithDetail("pool", s.Name).
			WithDetail("initial_size", s.InitialSize)
	}
	if s.MaxSize < 0 {
		return errors.New(errors.ErrorTypeValidation, "max_size must not be negative").
			WithDetail("pool", s.Name).
			WithDetail("max_size", s.MaxSize)
	}
	if s.MaxSize > 0 && s.MaxSize < s.InitialSize {
		return errors.New(errors.ErrorTypeValidation, "max_size must not be below initial_size").
			WithDetail("pool", s.Name).
			WithDetail("initial_size", s.InitialSize).
			WithDetail("max_size", s.MaxSize)
	}
	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown log_level").
			WithDetail("pool", s.Name).
			WithDetail("log_level", s.LogLevel)
	}
	return nil
}

// Apply copies the settings onto a pool configuration, leaving the
// capability functions untouched.
func Apply[T comparable](s Settings, cfg *spawn.Config[T]) {
	cfg.Name = s.Name
	cfg.InitialSize = s.InitialSize
	cfg.MaxSize = s.MaxSize
	cfg.EnableMetrics = s.EnableMetrics
}

// Load reads a YAML file into config, substituting ${VAR} references with
// environment variable values first.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller and validated
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file")
	}

	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML")
	}

	return nil
}

// Save writes a configuration to a YAML file.
func Save(filePath string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file")
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
