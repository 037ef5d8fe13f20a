// Package config handles loading and validation of the fleetview configuration.
// Configuration is a single YAML file layered over built-in defaults.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/verbose"
)

// LoadConfig loads configuration from the specified path or defaults.
//
// If configPath is provided, it loads that specific config file.
// Otherwise, it looks for .fleetview.yml in the working directory.
// If no config is found, it returns the built-in default configuration.
// Keys missing from the file keep their default values.
//
// Parameters:
//   - configPath: path to the config file, or empty to look in workDir
//   - workDir: working directory for the configuration
//
// Returns:
//   - *Config: the loaded and validated configuration
//   - error: read, parse or *errors.ValidationError failures
func LoadConfig(configPath, workDir string) (*Config, error) {
	var cfg *Config

	if configPath != "" {
		loaded, err := loadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		cfg = loaded
	} else {
		localConfig := filepath.Join(workDir, ConfigFileName)
		if _, err := os.Stat(localConfig); err == nil {
			verbose.Infof("Found local config: %s", localConfig)
			loaded, err := loadConfigFile(localConfig)
			if err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", localConfig, err)
			}
			cfg = loaded
		}
	}

	if cfg == nil {
		cfg = loadDefaultConfig()
	}
	verbose.ConfigLoaded(cfg.SourcePath)

	if workDir != "" {
		cfg.WorkingDir = workDir
	} else {
		cfg.WorkingDir = "."
	}

	if result := cfg.Validate(); result.HasErrors() {
		return nil, result.Err()
	}

	return cfg, nil
}

// ValidateFile loads the config file at path and validates it without failing on errors.
//
// Parse failures such as unknown keys or type mismatches are returned in the
// result rather than as an error, so callers can report every problem at once.
//
// Parameters:
//   - path: path to the config file
//
// Returns:
//   - *ValidationResult: errors and warnings found
//   - error: the file could not be read
func ValidateFile(path string) (*ValidationResult, error) {
	cfg, err := loadConfigFile(path)
	if err != nil {
		if verr, ok := errors.IsValidationError(err); ok {
			return &ValidationResult{Errors: []*errors.ValidationError{verr}}, nil
		}
		return nil, err
	}
	return cfg.Validate(), nil
}

// loadConfigFileWithLimit loads a config file with a size limit.
//
// Parameters:
//   - path: path to the config file
//   - maxSize: maximum allowed file size in bytes
//
// Returns:
//   - *Config: the loaded configuration, defaults filled in
//   - error: error if file is too large, not found, or has invalid YAML
func loadConfigFileWithLimit(path string, maxSize int64) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfigData(data)
	if err != nil {
		return nil, err
	}
	cfg.SourcePath = path
	return cfg, nil
}

// loadConfigFile loads a config file with DefaultMaxConfigFileSize.
func loadConfigFile(path string) (*Config, error) {
	return loadConfigFileWithLimit(path, DefaultMaxConfigFileSize)
}

// loadConfigData decodes YAML over the defaults, rejecting unknown keys.
//
// Parameters:
//   - data: YAML configuration data
//
// Returns:
//   - *Config: the parsed configuration
//   - error: *errors.ValidationError for unknown keys or type mismatches
func loadConfigData(data []byte) (*Config, error) {
	cfg := loadDefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if stderrors.Is(err, io.EOF) {
			// empty file
			return cfg, nil
		}
		verbose.Printf("Config validation FAILED: YAML decode error: %v\n", err)
		return nil, decodeError(err)
	}

	return cfg, nil
}

// ParseConfig parses YAML configuration data without touching the filesystem.
//
// Parameters:
//   - data: YAML configuration data
//
// Returns:
//   - *Config: the parsed and validated configuration
//   - error: parse or validation failure
func ParseConfig(data []byte) (*Config, error) {
	cfg, err := loadConfigData(data)
	if err != nil {
		return nil, err
	}
	if result := cfg.Validate(); result.HasErrors() {
		return nil, result.Err()
	}
	return cfg, nil
}

// YAML renders the effective configuration.
//
// Returns:
//   - []byte: YAML document
//   - error: marshaling failure
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
