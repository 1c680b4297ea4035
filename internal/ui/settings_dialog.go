package ui

import (
	"fmt"
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/app-organizer/internal/config"
)

// SettingsDialog edits the per-user preferences
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	maxParallelEntry  *widget.Entry
	prettyExportCheck *widget.Check
	languageSelect    *widget.Select
	languageCodes     map[string]string // display name -> code
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// ShowSettingsDialog creates and shows the settings dialog
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(window, settings, localization, onSaved)
	sd.Show()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder(fmt.Sprintf("%d-%d", config.MinMaxParallel, config.MaxMaxParallel))
	sd.maxParallelEntry.Validator = validateMaxParallel

	sd.prettyExportCheck = widget.NewCheck(sd.localization.GetText(KeyPrettyExport), nil)

	sd.languageCodes = make(map[string]string)
	var names []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		names = append(names, name)
	}
	sort.Strings(names)
	sd.languageSelect = widget.NewSelect(names, nil)

	form := container.NewVBox(
		widget.NewLabel(sd.localization.GetText(KeyMaxParallel)+":"),
		sd.maxParallelEntry,
		widget.NewLabel(sd.localization.GetText(KeyRestartRequired)),
		widget.NewSeparator(),
		sd.prettyExportCheck,
		widget.NewSeparator(),
		widget.NewLabel(sd.localization.GetText(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsWidth, SettingsHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelFetches()))
	sd.prettyExportCheck.SetChecked(sd.settings.GetPrettyExport())

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
			break
		}
	}
}

// onSave stores the edited values. Invalid numbers keep the old value.
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if n, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelFetches(n)
	}

	sd.settings.SetPrettyExport(sd.prettyExportCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

func validateMaxParallel(text string) error {
	n, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < config.MinMaxParallel || n > config.MaxMaxParallel {
		return fmt.Errorf("must be between %d and %d", config.MinMaxParallel, config.MaxMaxParallel)
	}
	return nil
}
