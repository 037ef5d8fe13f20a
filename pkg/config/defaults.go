package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/flatcar/nebraska-sub000/pkg/timeline"
	"github.com/flatcar/nebraska-sub000/pkg/versions"
)

//go:embed default.yml
var defaultConfigYAML string

//go:embed template.yml
var templateConfigYAML string

// loadDefaultConfig loads the embedded default configuration.
//
// If the embedded YAML cannot be parsed, the compiled-in defaults are returned.
//
// Returns:
//   - *Config: the default configuration
func loadDefaultConfig() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &cfg); err == nil {
		return &cfg
	}
	return builtinDefaults()
}

// builtinDefaults mirrors default.yml.
func builtinDefaults() *Config {
	return &Config{
		Breakdown: BreakdownCfg{ThresholdPct: versions.DefaultThresholdPct},
		Timeline:  TimelineCfg{TickCount: timeline.DefaultTickCount, Timezone: "UTC"},
		Output:    OutputCfg{Format: "table"},
	}
}

// GetDefaultConfig returns the embedded default configuration YAML.
//
// Returns:
//   - string: the default configuration as YAML
func GetDefaultConfig() string {
	return defaultConfigYAML
}

// GetTemplateConfig returns the embedded, commented template configuration YAML.
//
// Useful for generating a starter .fleetview.yml.
//
// Returns:
//   - string: the template configuration as YAML
func GetTemplateConfig() string {
	return templateConfigYAML
}
