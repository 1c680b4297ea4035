package ui

import (
	"reflect"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/app-organizer/internal/config"
	"github.com/ytget/app-organizer/internal/imagecache"
	"github.com/ytget/app-organizer/internal/logging"
	"github.com/ytget/app-organizer/internal/model"
	"github.com/ytget/app-organizer/internal/platform"
)

type fakeEnsurer struct {
	mu        sync.Mutex
	batches   [][]string
	shutdowns int
	callback  func(string)
}

func (f *fakeEnsurer) SetStoredCallback(callback func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = callback
}

func (f *fakeEnsurer) EnsureCached(ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), ids...))
}

func (f *fakeEnsurer) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
}

func (f *fakeEnsurer) lastBatch() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1]
}

type rootFixture struct {
	app     fyne.App
	ui      *RootUI
	fetcher *fakeEnsurer
	cache   *IconCache
}

func newRootFixture(t *testing.T, app fyne.App) rootFixture {
	t.Helper()

	fetcher := &fakeEnsurer{}
	cache := imagecache.New[*canvas.Image]()
	window := app.NewWindow("test")
	t.Cleanup(window.Close)

	ui := NewRootUI(window, app, Options{
		Fetcher: fetcher,
		Cache:   cache,
		Logger:  logging.Nop(),
	})
	return rootFixture{app: app, ui: ui, fetcher: fetcher, cache: cache}
}

func testIconPixels(t *testing.T) imagecache.Pixels {
	t.Helper()
	px, err := imagecache.NewPixels(1, 1, []byte{255, 0, 0, 255})
	if err != nil {
		t.Fatalf("NewPixels: %v", err)
	}
	return px
}

func TestRootUI_RegistersStoredCallback(t *testing.T) {
	f := newRootFixture(t, test.NewApp())

	if f.fetcher.callback == nil {
		t.Fatal("Expected stored callback to be registered")
	}
	if f.ui.Selected() != -1 || len(f.ui.Apps()) != 0 {
		t.Errorf("Expected empty initial state, got %d apps, selected %d", len(f.ui.Apps()), f.ui.Selected())
	}
}

func TestRootUI_LoadAppsRequestsIcons(t *testing.T) {
	f := newRootFixture(t, test.NewApp())

	err := f.ui.LoadApps([]byte("Maps\n\tcom.google.maps\nSignal\n\torg.signal\n"), platform.FormatLMA)
	if err != nil {
		t.Fatalf("LoadApps failed: %v", err)
	}

	if len(f.ui.Apps()) != 2 {
		t.Fatalf("Expected 2 apps, got %d", len(f.ui.Apps()))
	}
	expected := []string{"com.google.maps", "org.signal"}
	if got := f.fetcher.lastBatch(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected batch %v, got %v", expected, got)
	}
	if f.ui.appList.Length() != 2 {
		t.Errorf("Expected 2 visible rows, got %d", f.ui.appList.Length())
	}
}

func TestRootUI_LoadAppsErrorKeepsList(t *testing.T) {
	f := newRootFixture(t, test.NewApp())
	f.ui.SetApps([]model.AndroidApp{{Name: "Maps", ID: "com.google.maps"}})
	f.ui.Select(0)

	if err := f.ui.LoadApps([]byte(`[{"name":`), platform.FormatJSON); err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
	if apps := f.ui.Apps(); len(apps) != 1 || apps[0].ID != "com.google.maps" {
		t.Errorf("Expected list to be unchanged, got %+v", apps)
	}
	if f.ui.Selected() != 0 {
		t.Errorf("Expected selection to be kept, got %d", f.ui.Selected())
	}
}

func TestRootUI_ReplaceClearsSelection(t *testing.T) {
	f := newRootFixture(t, test.NewApp())
	f.ui.SetApps([]model.AndroidApp{{Name: "A", ID: "com.a"}, {Name: "B", ID: "com.b"}})
	f.ui.Select(1)

	f.ui.SetApps([]model.AndroidApp{{Name: "C", ID: "com.c"}})
	if f.ui.Selected() != -1 {
		t.Errorf("Expected selection cleared after replace, got %d", f.ui.Selected())
	}
	if f.ui.detail.details.Visible() {
		t.Error("Expected detail panel to show the empty placeholder")
	}
}

func TestRootUI_EditsSelectedApp(t *testing.T) {
	f := newRootFixture(t, test.NewApp())
	f.ui.SetApps([]model.AndroidApp{{Name: "A", ID: "com.a"}, {Name: "B", ID: "com.b"}})
	f.ui.Select(1)

	if f.ui.detail.idLabel.Text != "id: com.b" {
		t.Errorf("Expected id label for com.b, got %q", f.ui.detail.idLabel.Text)
	}

	f.ui.detail.deleteCheck.SetChecked(true)
	f.ui.detail.notesEntry.OnChanged("uninstall later")

	apps := f.ui.Apps()
	if !apps[1].Delete || apps[1].Notes != "uninstall later" {
		t.Errorf("Expected edits on the selected app, got %+v", apps[1])
	}
	if apps[0].Delete || apps[0].Notes != "" {
		t.Errorf("Unselected app must not change, got %+v", apps[0])
	}

	// Switching selection must not write the previous values into the new app
	f.ui.Select(0)
	if apps := f.ui.Apps(); apps[0].Delete || apps[0].Notes != "" {
		t.Errorf("Selecting an app must not edit it, got %+v", apps[0])
	}
}

func TestRootUI_Filter(t *testing.T) {
	f := newRootFixture(t, test.NewApp())
	f.ui.SetApps([]model.AndroidApp{
		{Name: "Google Maps", ID: "com.google.maps"},
		{Name: "Calculator", ID: "com.android.calculator2", Delete: true},
	})

	f.ui.filterEntry.Text = "calc"
	f.ui.applyFilter()
	if !reflect.DeepEqual(f.ui.visible, []int{1}) {
		t.Errorf("Expected only the calculator, got %v", f.ui.visible)
	}

	f.ui.filterEntry.Text = ""
	f.ui.flaggedCheck.Checked = true
	f.ui.applyFilter()
	if !reflect.DeepEqual(f.ui.visible, []int{1}) {
		t.Errorf("Expected only flagged apps, got %v", f.ui.visible)
	}
}

func TestRootUI_IconRefreshPromotes(t *testing.T) {
	f := newRootFixture(t, test.NewApp())
	f.ui.SetApps([]model.AndroidApp{{Name: "A", ID: "com.a"}})
	f.ui.Select(0)

	if f.ui.detail.icon.Image != nil {
		t.Fatal("Expected no icon before fetch")
	}

	f.cache.InsertIfAbsent("com.a", testIconPixels(t))
	f.ui.refreshIcons()

	if f.cache.State("com.a") != model.IconStateReady {
		t.Errorf("Expected icon promoted to ready, got %s", f.cache.State("com.a"))
	}
	if f.ui.detail.icon.Image == nil {
		t.Error("Expected detail panel to show the icon")
	}
}

func TestRootUI_CloseSavesStateAndShutsDownOnce(t *testing.T) {
	app := test.NewApp()
	f := newRootFixture(t, app)
	f.ui.SetApps([]model.AndroidApp{{Name: "A", ID: "com.a"}, {Name: "B", ID: "com.b", Notes: "n"}})
	f.ui.Select(1)

	f.ui.Close()
	f.ui.Close()
	if f.fetcher.shutdowns != 1 {
		t.Errorf("Expected a single shutdown, got %d", f.fetcher.shutdowns)
	}

	state, err := config.NewSettings(app).LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(state.Apps) != 2 || state.Selected == nil || *state.Selected != 1 {
		t.Errorf("Unexpected saved state %+v", state)
	}

	// A new window restores the session and requests its icons
	restored := newRootFixture(t, app)
	if !reflect.DeepEqual(restored.ui.Apps(), f.ui.Apps()) {
		t.Errorf("Expected restored apps, got %+v", restored.ui.Apps())
	}
	if restored.ui.Selected() != 1 {
		t.Errorf("Expected restored selection 1, got %d", restored.ui.Selected())
	}
	if got := restored.fetcher.lastBatch(); !reflect.DeepEqual(got, []string{"com.a", "com.b"}) {
		t.Errorf("Expected restored ids to be requested, got %v", got)
	}
}

func TestRootUI_ExportRoundTrip(t *testing.T) {
	f := newRootFixture(t, test.NewApp())
	apps := []model.AndroidApp{{Name: "A", ID: "com.a", Notes: "x", Delete: true}}
	f.ui.SetApps(apps)

	data, err := f.ui.ExportApps(true)
	if err != nil {
		t.Fatalf("ExportApps failed: %v", err)
	}
	decoded, err := platform.DecodeAppsJSON(data)
	if err != nil {
		t.Fatalf("DecodeAppsJSON failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, apps) {
		t.Errorf("Expected %+v, got %+v", apps, decoded)
	}
}

func TestRootUI_LanguageChange(t *testing.T) {
	f := newRootFixture(t, test.NewApp())

	f.ui.onLanguageChange("ru")
	if f.ui.localization.GetCurrentLanguage() != "ru" {
		t.Errorf("Expected ru, got %s", f.ui.localization.GetCurrentLanguage())
	}
	if f.ui.settings.GetLanguage() != "ru" {
		t.Errorf("Expected language persisted, got %s", f.ui.settings.GetLanguage())
	}
	if f.ui.detail.emptyLabel.Text != "Ничего не выбрано" {
		t.Errorf("Expected translated placeholder, got %q", f.ui.detail.emptyLabel.Text)
	}
}
