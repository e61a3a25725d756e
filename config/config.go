// Package config loads the release run configuration from the repository's
// .shipwright.yaml, applying defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up at the repository root.
const FileName = ".shipwright.yaml"

// EnvPrefix is prepended to keys for environment variable overrides,
// e.g. SHIPWRIGHT_TAG_PREFIX.
const EnvPrefix = "SHIPWRIGHT_"

// Config is the process-wide run configuration. Loaded once, immutable for
// the run.
type Config struct {
	// Independent selects per-workspace versioning instead of lock-step.
	Independent bool `yaml:"independent"`

	// FeatureBump is "always" or "conventional". Conventional demotes
	// feature bumps to patch while a unit's major version is 0.
	FeatureBump string `yaml:"featureBump"`

	// TagPrefix prefixes version tags. Default "v".
	TagPrefix string `yaml:"tagPrefix"`

	// Plugins are the publish plugins to run after a successful release,
	// in declared order.
	Plugins []Plugin `yaml:"plugins"`
}

// Plugin names one publish plugin and carries its free-form options. Each
// plugin owns the interpretation of its options block.
type Plugin struct {
	Name    string    `yaml:"name"`
	Options yaml.Node `yaml:"options"`
}

// DecodeOptions unmarshals the plugin's options block into out.
func (p Plugin) DecodeOptions(out any) error {
	if p.Options.IsZero() {
		return nil
	}
	return p.Options.Decode(out)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Independent: false,
		FeatureBump: "always",
		TagPrefix:   "v",
	}
}

// Load reads the configuration from the repository root. A missing file is
// not an error; defaults apply. Environment overrides are applied last.
func Load(repoPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(repoPath, FileName))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum fields.
func (c *Config) Validate() error {
	switch c.FeatureBump {
	case "always", "conventional":
	default:
		return fmt.Errorf("featureBump must be \"always\" or \"conventional\", got %q", c.FeatureBump)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "TAG_PREFIX"); v != "" {
		cfg.TagPrefix = v
	}
	if v := os.Getenv(EnvPrefix + "FEATURE_BUMP"); v != "" {
		cfg.FeatureBump = v
	}
	if v := os.Getenv(EnvPrefix + "INDEPENDENT"); v != "" {
		cfg.Independent = v == "true" || v == "1"
	}
}
