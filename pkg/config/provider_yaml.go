package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML profile files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig reads and validates every profile in the file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	if y.config != nil {
		return y.config, nil
	}

	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var config ConfigData
	if err := yaml.UnmarshalStrict(cfgFile, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}

	seen := make(map[string]bool, len(config.Profiles))
	for i := range config.Profiles {
		profile := &config.Profiles[i]
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		if seen[profile.Name] {
			return nil, fmt.Errorf("duplicate profile %s in %s", profile.Name, y.filename)
		}
		seen[profile.Name] = true
	}

	y.config = &config
	return y.config, nil
}

// GetProfiles returns all profiles in file order
func (y *YAMLProvider) GetProfiles() ([]ProfileData, error) {
	config, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return config.Profiles, nil
}

// GetProfile returns the profile called name
func (y *YAMLProvider) GetProfile(name string) (*ProfileData, error) {
	profiles, err := y.GetProfiles()
	if err != nil {
		return nil, err
	}
	return findProfile(profiles, name)
}

// IsReadOnly returns true for YAML provider
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// WriteYAML writes config to filename in the format YAMLProvider reads
func WriteYAML(filename string, config *ConfigData) error {
	out, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	return os.WriteFile(filename, out, 0644)
}
