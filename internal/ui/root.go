package ui

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/app-organizer/internal/config"
	"github.com/ytget/app-organizer/internal/fetch"
	"github.com/ytget/app-organizer/internal/logging"
	"github.com/ytget/app-organizer/internal/model"
	"github.com/ytget/app-organizer/internal/platform"
	"github.com/ytget/app-organizer/internal/search"
)

// Options carries the collaborators of the root UI
type Options struct {
	Fetcher fetch.Ensurer
	Cache   *IconCache
	Logger  zerolog.Logger

	// StorePageURL builds the store link for an app; nil uses the default
	// store page template
	StorePageURL func(id string) string
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	logger       zerolog.Logger
	fetcher      fetch.Ensurer
	icons        *IconProvider
	storePageURL func(id string) string

	apps     []model.AndroidApp
	visible  []int // indices into apps, in display order
	selected int   // index into apps, -1 when nothing is selected

	filterEntry  *widget.Entry
	flaggedCheck *widget.Check
	appList      *widget.List
	detail       *DetailPanel
	statusLabel  *widget.Label

	refreshMu      sync.Mutex
	refreshPending bool
	closed         atomic.Bool
	closeOnce      sync.Once
}

// NewRootUI creates the main UI and restores the previous session
func NewRootUI(window fyne.Window, app fyne.App, opts Options) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	storePageURL := opts.StorePageURL
	if storePageURL == nil {
		storePageURL = defaultStorePageURL
	}

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		logger:       logging.Component(opts.Logger, "ui"),
		fetcher:      opts.Fetcher,
		icons:        NewIconProvider(opts.Cache),
		storePageURL: storePageURL,
		apps:         make([]model.AndroidApp, 0),
		selected:     -1,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.fetcher.SetStoredCallback(ui.onIconStored)

	ui.setupUI()
	ui.restoreState()

	window.SetCloseIntercept(func() {
		ui.Close()
		window.Close()
	})
	return ui
}

func defaultStorePageURL(id string) string {
	return fmt.Sprintf(config.DefaultPageURLTemplate, url.QueryEscape(id))
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.filterEntry = widget.NewEntry()
	ui.filterEntry.SetPlaceHolder(ui.localization.GetText(KeyFilter))
	ui.filterEntry.OnChanged = func(string) { ui.applyFilter() }

	clearFilterBtn := widget.NewButton(IconClear, func() { ui.filterEntry.SetText("") })
	clearFilterBtn.Importance = widget.LowImportance

	ui.flaggedCheck = widget.NewCheck(ui.localization.GetText(KeyFlaggedOnly), func(bool) { ui.applyFilter() })

	ui.appList = widget.NewList(
		func() int { return len(ui.visible) },
		func() fyne.CanvasObject { return NewAppRow() },
		ui.updateAppItem,
	)
	ui.appList.OnSelected = func(id widget.ListItemID) {
		if id >= 0 && id < len(ui.visible) {
			ui.selectIndex(ui.visible[id])
		}
	}

	ui.detail = NewDetailPanel(ui.localization)
	ui.detail.SetCallbacks(ui.onDeleteChanged, ui.onNotesChanged, ui.onOpenStore)

	ui.statusLabel = widget.NewLabel("")

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	filterRow := container.NewBorder(nil, nil, settingsBtn, clearFilterBtn, ui.filterEntry)
	left := container.NewBorder(container.NewVBox(filterRow, ui.flaggedCheck), nil, nil, nil, ui.appList)

	var split *container.Split
	if fyne.CurrentDevice().IsMobile() {
		split = container.NewVSplit(left, ui.detail.Container())
	} else {
		split = container.NewHSplit(left, ui.detail.Container())
	}
	split.Offset = SplitOffset

	ui.window.SetContent(container.NewBorder(nil, ui.statusLabel, nil, nil, split))
	ui.addShortcuts()
	ui.updateStatus()
}

// addShortcuts binds Ctrl+O to JSON import and Ctrl+S to export in the
// preferred JSON style
func (ui *RootUI) addShortcuts() {
	canvas := ui.window.Canvas()
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { ui.showOpenDialog(platform.FormatJSON, JSONExtensions) })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { ui.showSaveDialog(ui.settings.GetPrettyExport()) })
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	quitItem := fyne.NewMenuItem(ui.localization.GetText(KeyQuit), func() {
		ui.Close()
		fyne.CurrentApp().Quit()
	})
	quitItem.IsQuit = true

	fileMenu := fyne.NewMenu(ui.localization.GetText(KeyFile),
		fyne.NewMenuItem(ui.localization.GetText(KeyImportLMA), func() {
			ui.showOpenDialog(platform.FormatLMA, nil)
		}),
		fyne.NewMenuItem(ui.localization.GetText(KeyImportJSON), func() {
			ui.showOpenDialog(platform.FormatJSON, JSONExtensions)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(ui.localization.GetText(KeySaveJSON), func() { ui.showSaveDialog(false) }),
		fyne.NewMenuItem(ui.localization.GetText(KeySavePrettyJSON), func() { ui.showSaveDialog(true) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(ui.localization.GetText(KeyClear), ui.onClear),
		fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings),
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	available := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		langCode := code
		item := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, languageMenu))
}

// restoreState loads the app list saved by the previous session
func (ui *RootUI) restoreState() {
	state, err := ui.settings.LoadState()
	if err != nil {
		ui.logger.Warn().Err(err).Msg("discarding saved state")
		return
	}
	if len(state.Apps) == 0 {
		return
	}

	ui.SetApps(state.Apps)
	if state.Selected != nil {
		ui.Select(*state.Selected)
	}
	ui.logger.Info().Int("apps", len(state.Apps)).Msg("state restored")
}

// State returns the app list and selection for persistence
func (ui *RootUI) State() config.UIState {
	state := config.UIState{Apps: ui.Apps()}
	if ui.selected >= 0 {
		selected := ui.selected
		state.Selected = &selected
	}
	return state
}

// Apps returns a copy of the current app list
func (ui *RootUI) Apps() []model.AndroidApp {
	return append([]model.AndroidApp(nil), ui.apps...)
}

// Selected returns the selected index, or -1
func (ui *RootUI) Selected() int {
	return ui.selected
}

// SetApps replaces the list, clears the selection and requests every icon
func (ui *RootUI) SetApps(apps []model.AndroidApp) {
	if apps == nil {
		apps = make([]model.AndroidApp, 0)
	}
	ui.apps = apps
	ui.selected = -1
	ui.appList.UnselectAll()
	ui.detail.SetApp(nil, nil)
	ui.applyFilter()

	if len(apps) > 0 {
		ui.fetcher.EnsureCached(model.IDs(apps))
	}
	ui.updateStatus()
}

// LoadApps decodes data and replaces the list. On error the list is left
// unchanged.
func (ui *RootUI) LoadApps(data []byte, format platform.Format) error {
	apps, err := platform.DecodeApps(data, format)
	if err != nil {
		return err
	}
	ui.SetApps(apps)
	ui.logger.Info().Str("format", string(format)).Int("apps", len(apps)).Msg("apps imported")
	return nil
}

// ExportApps encodes the current list as JSON
func (ui *RootUI) ExportApps(pretty bool) ([]byte, error) {
	return platform.EncodeAppsJSON(ui.apps, pretty)
}

// Select shows apps[index] in the detail panel. Out of range clears it.
func (ui *RootUI) Select(index int) {
	if index < 0 || index >= len(ui.apps) {
		ui.selected = -1
		ui.appList.UnselectAll()
		ui.detail.SetApp(nil, nil)
		return
	}

	for pos, i := range ui.visible {
		if i == index {
			ui.appList.Select(pos)
			break
		}
	}
	ui.selectIndex(index)
}

func (ui *RootUI) selectIndex(index int) {
	ui.selected = index
	app := &ui.apps[index]
	ui.detail.SetApp(app, ui.icons.Image(app.ID))
}

func (ui *RootUI) selectedApp() *model.AndroidApp {
	if ui.selected < 0 || ui.selected >= len(ui.apps) {
		return nil
	}
	return &ui.apps[ui.selected]
}

// applyFilter recomputes the visible rows from the filter entry and the
// flagged-only toggle
func (ui *RootUI) applyFilter() {
	visible := search.FilterApps(ui.apps, ui.filterEntry.Text)
	if ui.flaggedCheck.Checked {
		visible = search.FilterFlagged(ui.apps, visible)
	}
	ui.visible = visible

	ui.appList.UnselectAll()
	ui.appList.Refresh()
	for pos, i := range ui.visible {
		if i == ui.selected {
			ui.appList.Select(pos)
			break
		}
	}
}

// updateAppItem fills a list row
func (ui *RootUI) updateAppItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(ui.visible) {
		return
	}
	row, ok := item.(*AppRow)
	if !ok {
		return
	}
	app := ui.apps[ui.visible[id]]
	row.SetApp(app, ui.icons.Image(app.ID))
}

func (ui *RootUI) onDeleteChanged(checked bool) {
	app := ui.selectedApp()
	if app == nil {
		return
	}
	app.Delete = checked
	ui.appList.Refresh()
	ui.updateStatus()
}

func (ui *RootUI) onNotesChanged(text string) {
	if app := ui.selectedApp(); app != nil {
		app.Notes = text
	}
}

func (ui *RootUI) onOpenStore() {
	app := ui.selectedApp()
	if app == nil {
		return
	}
	if err := platform.OpenURL(ui.storePageURL(app.ID)); err != nil {
		ui.showError(err)
	}
}

// onIconStored runs on a fetch goroutine. Bursts of stored icons collapse
// into one refresh on the UI goroutine.
func (ui *RootUI) onIconStored(string) {
	ui.refreshMu.Lock()
	defer ui.refreshMu.Unlock()

	if ui.refreshPending || ui.closed.Load() {
		return
	}
	ui.refreshPending = true
	time.AfterFunc(IconRefreshDebounce, func() {
		if ui.closed.Load() {
			return
		}
		fyne.Do(ui.refreshIcons)
	})
}

// refreshIcons redraws everything that shows an icon
func (ui *RootUI) refreshIcons() {
	ui.refreshMu.Lock()
	ui.refreshPending = false
	ui.refreshMu.Unlock()

	ui.appList.Refresh()
	if app := ui.selectedApp(); app != nil {
		ui.detail.SetIcon(ui.icons.Image(app.ID))
	}
	ui.updateStatus()
}

func (ui *RootUI) updateStatus() {
	ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyStatusSummary),
		len(ui.apps), model.CountFlagged(ui.apps), ui.icons.Count()))
}

// showNotice replaces the status line until the next status update
func (ui *RootUI) showNotice(key string, count int) {
	ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(key), count))
}

// showOpenDialog imports a file in format. Cancelling is not an error.
func (ui *RootUI) showOpenDialog(format platform.Format, extensions []string) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			ui.showError(fmt.Errorf("failed to read %s: %w", reader.URI().Name(), err))
			return
		}
		ui.rememberDirectory(reader.URI())

		if err := ui.LoadApps(data, format); err != nil {
			ui.showError(fmt.Errorf("%s: %w", reader.URI().Name(), err))
			return
		}
		ui.showNotice(KeyAppsLoaded, len(ui.apps))
	}, ui.window)

	if len(extensions) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(extensions))
	}
	ui.setDialogLocation(d)
	d.Resize(fyne.NewSize(FileDialogWidth, FileDialogH))
	d.Show()
}

// showSaveDialog exports the list as JSON
func (ui *RootUI) showSaveDialog(pretty bool) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		data, err := ui.ExportApps(pretty)
		if err != nil {
			ui.showError(err)
			return
		}
		if _, err := writer.Write(data); err != nil {
			ui.showError(fmt.Errorf("failed to write %s: %w", writer.URI().Name(), err))
			return
		}
		ui.rememberDirectory(writer.URI())
		ui.showNotice(KeyAppsSaved, len(ui.apps))
		ui.logger.Info().Str("file", writer.URI().Name()).Int("apps", len(ui.apps)).Bool("pretty", pretty).Msg("apps exported")
	}, ui.window)

	d.SetFilter(storage.NewExtensionFileFilter(JSONExtensions))
	d.SetFileName(DefaultExportName)
	ui.setDialogLocation(d)
	d.Resize(fyne.NewSize(FileDialogWidth, FileDialogH))
	d.Show()
}

func (ui *RootUI) setDialogLocation(d *dialog.FileDialog) {
	dir := ui.settings.GetLastDirectory()
	if dir == "" {
		return
	}
	if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
		d.SetLocation(lister)
	}
}

func (ui *RootUI) rememberDirectory(uri fyne.URI) {
	if parent, err := storage.Parent(uri); err == nil && parent.Scheme() == "file" {
		ui.settings.SetLastDirectory(parent.Path())
	}
}

func (ui *RootUI) onClear() {
	if len(ui.apps) == 0 {
		return
	}
	dialog.ShowConfirm(ui.localization.GetText(KeyClear), ui.localization.GetText(KeyClearConfirm), func(ok bool) {
		if ok {
			ui.SetApps(nil)
		}
	}, ui.window)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.onLanguageChange(ui.settings.GetLanguage())
	})
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.filterEntry.SetPlaceHolder(ui.localization.GetText(KeyFilter))
	ui.flaggedCheck.Text = ui.localization.GetText(KeyFlaggedOnly)
	ui.flaggedCheck.Refresh()
	ui.detail.RefreshTexts()
	ui.updateStatus()
}

func (ui *RootUI) showError(err error) {
	ui.logger.Error().Err(err).Msg("operation failed")
	dialog.ShowError(err, ui.window)
}

// Close persists the session and stops icon fetching. Safe to call more
// than once.
func (ui *RootUI) Close() {
	ui.closeOnce.Do(func() {
		ui.closed.Store(true)

		if err := ui.settings.SaveState(ui.State()); err != nil {
			ui.logger.Error().Err(err).Msg("failed to save state")
		}
		ui.fetcher.Shutdown()
		ui.logger.Info().Msg("ui closed")
	})
}
