package config

import (
	"encoding/json"
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/ytget/app-organizer/internal/model"
	"github.com/ytget/app-organizer/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyMaxParallel   = "max_parallel_fetches"
	KeyPrettyExport  = "pretty_export"
	KeyLanguage      = "app_language"
	KeyLastDirectory = "last_directory"
	KeyAppState      = "app_state"
)

// Default values
const (
	DefaultMaxParallel  = 4
	DefaultPrettyExport = true
	DefaultLanguage     = "system"

	MinMaxParallel = 1
	MaxMaxParallel = 16
)

// UIState is the app list and selection restored on the next start
type UIState struct {
	Apps     []model.AndroidApp `json:"app_list"`
	Selected *int               `json:"selected"`
}

// Settings manages per-user UI preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetMaxParallelFetches returns the maximum number of concurrent icon fetches
func (s *Settings) GetMaxParallelFetches() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelFetches(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelFetches sets the maximum number of concurrent icon fetches
func (s *Settings) SetMaxParallelFetches(count int) {
	if count < MinMaxParallel {
		count = MinMaxParallel
	}
	if count > MaxMaxParallel {
		count = MaxMaxParallel
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetPrettyExport returns whether JSON exports are indented by default
func (s *Settings) GetPrettyExport() bool {
	return s.app.Preferences().BoolWithFallback(KeyPrettyExport, DefaultPrettyExport)
}

// SetPrettyExport sets whether JSON exports are indented by default
func (s *Settings) SetPrettyExport(pretty bool) {
	s.app.Preferences().SetBool(KeyPrettyExport, pretty)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
	}
}

// GetLastDirectory returns the directory of the last imported or exported file
func (s *Settings) GetLastDirectory() string {
	dir := s.app.Preferences().String(KeyLastDirectory)
	if dir == "" {
		if home, err := platform.GetHomeDir(); err == nil {
			return home
		}
	}
	return dir
}

// SetLastDirectory remembers the directory of the last used file
func (s *Settings) SetLastDirectory(dir string) {
	s.app.Preferences().SetString(KeyLastDirectory, dir)
}

// SaveState persists the app list and selection
func (s *Settings) SaveState(state UIState) error {
	if state.Apps == nil {
		state.Apps = []model.AndroidApp{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode app state: %w", err)
	}
	s.app.Preferences().SetString(KeyAppState, string(data))
	return nil
}

// LoadState returns the persisted state. An absent state is empty; a
// selection pointing outside the list is dropped.
func (s *Settings) LoadState() (UIState, error) {
	raw := s.app.Preferences().String(KeyAppState)
	if raw == "" {
		return UIState{}, nil
	}

	var state UIState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return UIState{}, fmt.Errorf("failed to decode app state: %w", err)
	}
	if state.Selected != nil && (*state.Selected < 0 || *state.Selected >= len(state.Apps)) {
		state.Selected = nil
	}
	return state, nil
}
