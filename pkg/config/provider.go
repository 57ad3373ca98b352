// Package config loads viewer profiles: the unit preference and per-channel
// chart settings applied over the built-in presentation table.
package config

import (
	"errors"
	"fmt"

	"github.com/chrissnell/shotchart/pkg/shotchart"
)

// DefaultProfileName is the profile used when none is named
const DefaultProfileName = "default"

const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

var (
	// ErrProfileNotFound is returned when a named profile does not exist
	ErrProfileNotFound = errors.New("profile not found")

	// ErrReadOnly is returned by write operations on a read-only backend
	ErrReadOnly = errors.New("configuration backend is read-only")
)

// ConfigProvider defines the interface for profile data sources
type ConfigProvider interface {
	// Load every profile
	LoadConfig() (*ConfigData, error)

	GetProfiles() ([]ProfileData, error)
	GetProfile(name string) (*ProfileData, error)

	IsReadOnly() bool
	Close() error
}

// WritableProvider is a ConfigProvider that can store profiles
type WritableProvider interface {
	ConfigProvider

	SaveProfile(profile *ProfileData) error
	DeleteProfile(name string) error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Profiles []ProfileData `json:"profiles" yaml:"profiles"`
}

// ProfileData holds one viewer's chart preferences
type ProfileData struct {
	Name             string                        `json:"name" yaml:"name"`
	PreferFahrenheit *bool                         `json:"prefer_fahrenheit,omitempty" yaml:"prefer_fahrenheit,omitempty"`
	ChartSettings    map[string]shotchart.Settings `json:"chart_settings,omitempty" yaml:"chart_settings,omitempty"`
}

// Overrides returns the profile's chart settings in the form the engine takes
func (p *ProfileData) Overrides() shotchart.Overrides {
	if p == nil || len(p.ChartSettings) == 0 {
		return nil
	}
	overrides := make(shotchart.Overrides, len(p.ChartSettings))
	for channel, settings := range p.ChartSettings {
		overrides[channel] = settings
	}
	return overrides
}

// Validate checks the fields a backend needs to store the profile
func (p *ProfileData) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	for channel, settings := range p.ChartSettings {
		if channel == "" {
			return fmt.Errorf("profile %s: chart setting with empty channel name", p.Name)
		}
		if settings.Opacity != nil && (*settings.Opacity < 0 || *settings.Opacity > 1) {
			return fmt.Errorf("profile %s: channel %s: opacity %v out of range [0, 1]", p.Name, channel, *settings.Opacity)
		}
		if settings.Type != nil && *settings.Type != shotchart.SeriesTypeSpline && *settings.Type != shotchart.SeriesTypeLine {
			return fmt.Errorf("profile %s: channel %s: unknown series type %q", p.Name, channel, *settings.Type)
		}
	}
	return nil
}

// NewProvider opens the named backend at path
func NewProvider(backend, path string) (ConfigProvider, error) {
	switch backend {
	case BackendYAML:
		return NewYAMLProvider(path), nil
	case BackendSQLite:
		provider, err := NewSQLiteProvider(path)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown config backend %q", backend)
	}
}

// findProfile returns the profile called name from profiles
func findProfile(profiles []ProfileData, name string) (*ProfileData, error) {
	for i := range profiles {
		if profiles[i].Name == name {
			p := profiles[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrProfileNotFound)
}
