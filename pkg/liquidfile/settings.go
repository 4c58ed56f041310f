package liquidfile

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/liquid-toolkit/pkg/liquid"
)

// AppName is the storage name used by the viewers.
const AppName = "liquid_toolkit"

// ViewerSettings are the viewer preferences kept between runs.
type ViewerSettings struct {
	ReducedMotion bool   `yaml:"reducedMotion"`
	Scene         string `yaml:"scene,omitempty"` // last opened scene file
	Shape         int    `yaml:"shape"`           // selected shape index
	FPS           int    `yaml:"fps"`
	ShowPoints    bool   `yaml:"showPoints"`
}

// DefaultViewerSettings returns the settings used on first run.
func DefaultViewerSettings() *ViewerSettings {
	return &ViewerSettings{FPS: 60}
}

// Storage keys
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// SettingsStore loads and saves viewer settings. A store without a gdata
// manager keeps settings in memory only.
type SettingsStore struct {
	manager  *gdata.Manager
	settings *ViewerSettings
}

// OpenSettings opens persistent storage for appName. If storage cannot be
// opened the returned store works in memory and the error says why.
func OpenSettings(appName string) (*SettingsStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		liquid.Logger().Warn("settings storage unavailable, using memory", "err", err)
		s, _ := NewSettingsStore(nil)
		return s, fmt.Errorf("opening settings storage: %w", err)
	}
	return NewSettingsStore(manager)
}

// NewSettingsStore creates a store on top of manager, which may be nil.
// A load failure leaves the defaults in place and is returned, but the
// store is still usable.
func NewSettingsStore(manager *gdata.Manager) (*SettingsStore, error) {
	s := &SettingsStore{
		manager:  manager,
		settings: DefaultViewerSettings(),
	}
	if err := s.Load(); err != nil {
		liquid.Logger().Warn("failed to load settings, using defaults", "err", err)
		return s, err
	}
	return s, nil
}

// Persistent reports whether settings survive the process.
func (s *SettingsStore) Persistent() bool {
	return s.manager != nil
}

// Load reads saved settings. Missing settings are not an error.
func (s *SettingsStore) Load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		s.settings = DefaultViewerSettings()
		return nil
	}

	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		s.settings = DefaultViewerSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultViewerSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		s.settings = DefaultViewerSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.FPS <= 0 {
		loaded.FPS = 60
	}
	if loaded.Shape < 0 {
		loaded.Shape = 0
	}

	s.settings = loaded
	liquid.Logger().Debug("settings loaded")
	return nil
}

// Save writes the settings. Without storage it does nothing.
func (s *SettingsStore) Save() error {
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	liquid.Logger().Debug("settings saved")
	return nil
}

// Settings returns the current settings. Changes are kept until the
// next Load and written by Save.
func (s *SettingsStore) Settings() *ViewerSettings {
	return s.settings
}
