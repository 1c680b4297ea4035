package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconDelete   = "🗑"
	IconStore    = "↗"
	IconClear    = "×"
)

// Text fragments
const (
	IDLabelPrefix      = "id: "
	MiddleDotSeparator = " · "
)

// Layout sizing
const (
	DetailIconSize float32 = 100
	RowIconSize    float32 = 32

	ListMinWidth    float32 = 220
	SplitOffset             = 0.3
	NotesMinHeight  float32 = 160
	SettingsWidth   float32 = 420
	SettingsHeight  float32 = 260
	FileDialogWidth float32 = 720
	FileDialogH     float32 = 520
)

// Debounce durations
const (
	IconRefreshDebounce = 100 * time.Millisecond
)

// File dialog filters
var (
	JSONExtensions = []string{".json"}
)

// DefaultExportName is suggested by the save dialog
const DefaultExportName = "apps.json"
