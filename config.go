package nexttag

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config supplies the defaults for version parsing and calculation. The zero
// value is not useful; start from DefaultConfig.
type Config struct {
	// VersionType is the granularity versions are normalized to.
	VersionType Granularity `yaml:"version_type"`

	// IncrementType is the component advanced when no explicit kind is
	// requested.
	IncrementType IncrementKind `yaml:"increment_type"`

	// AllowPrerelease permits pre-release suffixes; when unset, DefaultSuffix
	// is ignored during normalization.
	AllowPrerelease bool `yaml:"allow_prerelease"`

	// DefaultPrefix and DefaultSuffix fill unset qualifiers during
	// normalization.
	DefaultPrefix string `yaml:"default_prefix"`
	DefaultSuffix string `yaml:"default_suffix"`

	// ValidationPolicy selects the module-name rule (strict or permissive).
	ValidationPolicy ValidationPolicy `yaml:"validation_policy"`

	// LegacyBaseline restores the old behavior of publishing the baseline
	// unchanged when it is strictly ahead of every tag.
	LegacyBaseline bool `yaml:"legacy_baseline"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		VersionType:      GranularitySemver,
		IncrementType:    IncrementPatch,
		ValidationPolicy: ValidationStrict,
	}
}

// Validate checks the enum-valued fields.
func (c Config) Validate() error {
	if _, err := ParseGranularity(string(c.VersionType)); err != nil {
		return err
	}
	if _, err := ParseIncrementKind(string(c.IncrementType)); err != nil {
		return err
	}
	if _, err := ParseValidationPolicy(string(c.ValidationPolicy)); err != nil {
		return err
	}
	return nil
}

// configFile is the on-disk document shape; settings live under a
// version_config key so the file can carry unrelated sections.
type configFile struct {
	VersionConfig *Config `yaml:"version_config"`
}

// LoadConfig reads and validates a YAML configuration file. Keys absent from
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, &ConfigError{Key: "config_file", Reason: fmt.Sprintf("configuration file not found: %s", path)}
		}
		return Config{}, &ConfigError{Key: "config_file", Reason: err.Error()}
	}

	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, &ConfigError{Key: "config_file", Reason: fmt.Sprintf("invalid YAML format: %v", err)}
	}
	if len(probe) == 0 {
		return Config{}, &ConfigError{Key: "config_file", Reason: "configuration file is empty"}
	}

	// Absent keys keep their defaults; a missing version_config section
	// means an all-default configuration.
	cfg := DefaultConfig()
	doc := configFile{VersionConfig: &cfg}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, &ConfigError{Key: "config_file", Reason: fmt.Sprintf("invalid YAML format: %v", err)}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteDefaultConfig scaffolds a starter configuration file at path.
func WriteDefaultConfig(path string) error {
	doc := configFile{VersionConfig: &Config{
		VersionType:      GranularitySemver,
		IncrementType:    IncrementPatch,
		ValidationPolicy: ValidationStrict,
	}}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return &ConfigError{Key: "config_creation", Reason: err.Error()}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ConfigError{Key: "config_creation", Reason: fmt.Sprintf("failed to create config file: %v", err)}
	}
	return nil
}
