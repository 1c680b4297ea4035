package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/app-organizer/internal/model"
)

// DetailPanel shows and edits the selected app
type DetailPanel struct {
	localization *Localization

	heading     *widget.Label
	icon        *canvas.Image
	idLabel     *widget.Label
	deleteCheck *widget.Check
	notesLabel  *widget.Label
	notesEntry  *widget.Entry
	storeButton *widget.Button
	emptyLabel  *widget.Label

	details   *fyne.Container
	container *fyne.Container

	// updating suppresses change callbacks while fields are filled in
	updating bool

	onDeleteChanged func(bool)
	onNotesChanged  func(string)
	onOpenStore     func()
}

// NewDetailPanel creates a panel showing nothing
func NewDetailPanel(localization *Localization) *DetailPanel {
	p := &DetailPanel{localization: localization}
	p.createUI()
	p.SetApp(nil, nil)
	return p
}

func (p *DetailPanel) createUI() {
	p.heading = widget.NewLabel("")
	p.heading.TextStyle = fyne.TextStyle{Bold: true}
	p.heading.Wrapping = fyne.TextWrapWord

	p.icon = canvas.NewImageFromImage(nil)
	p.icon.FillMode = canvas.ImageFillContain
	p.icon.SetMinSize(fyne.NewSize(DetailIconSize, DetailIconSize))

	p.idLabel = widget.NewLabel("")
	p.idLabel.Selectable = true

	p.deleteCheck = widget.NewCheck("", func(checked bool) {
		if !p.updating && p.onDeleteChanged != nil {
			p.onDeleteChanged(checked)
		}
	})

	p.notesLabel = widget.NewLabel("")
	p.notesEntry = widget.NewMultiLineEntry()
	p.notesEntry.Wrapping = fyne.TextWrapWord
	p.notesEntry.SetMinRowsVisible(6)
	p.notesEntry.OnChanged = func(text string) {
		if !p.updating && p.onNotesChanged != nil {
			p.onNotesChanged(text)
		}
	}

	p.storeButton = widget.NewButton("", func() {
		if p.onOpenStore != nil {
			p.onOpenStore()
		}
	})
	p.storeButton.Importance = widget.LowImportance

	p.emptyLabel = widget.NewLabel("")
	p.emptyLabel.Alignment = fyne.TextAlignCenter

	header := container.NewBorder(nil, nil, container.NewCenter(p.icon), nil,
		container.NewVBox(p.heading, p.idLabel, container.NewHBox(p.deleteCheck, p.storeButton)))

	p.details = container.NewBorder(
		container.NewVBox(header, p.notesLabel),
		nil, nil, nil,
		p.notesEntry,
	)
	p.container = container.NewStack(p.details, container.NewCenter(p.emptyLabel))
	p.RefreshTexts()
}

// SetCallbacks sets the edit callbacks
func (p *DetailPanel) SetCallbacks(onDeleteChanged func(bool), onNotesChanged func(string), onOpenStore func()) {
	p.onDeleteChanged = onDeleteChanged
	p.onNotesChanged = onNotesChanged
	p.onOpenStore = onOpenStore
}

// SetApp shows app, or the empty placeholder when app is nil
func (p *DetailPanel) SetApp(app *model.AndroidApp, icon image.Image) {
	p.updating = true
	defer func() { p.updating = false }()

	if app == nil {
		p.details.Hide()
		p.emptyLabel.Show()
		p.icon.Image = nil
		p.icon.Refresh()
		return
	}

	p.heading.SetText(app.DisplayName())
	p.idLabel.SetText(IDLabelPrefix + app.ID)
	p.deleteCheck.SetChecked(app.Delete)
	if p.notesEntry.Text != app.Notes {
		p.notesEntry.SetText(app.Notes)
	}
	p.SetIcon(icon)

	p.emptyLabel.Hide()
	p.details.Show()
}

// SetIcon replaces the icon without touching the edit fields
func (p *DetailPanel) SetIcon(icon image.Image) {
	if p.icon.Image == icon {
		return
	}
	p.icon.Image = icon
	p.icon.Refresh()
}

// RefreshTexts reapplies localized labels
func (p *DetailPanel) RefreshTexts() {
	p.deleteCheck.Text = p.localization.GetText(KeyToDelete)
	p.deleteCheck.Refresh()
	p.notesLabel.SetText(p.localization.GetText(KeyNotes))
	p.storeButton.SetText(IconStore + " " + p.localization.GetText(KeyOpenStorePage))
	p.emptyLabel.SetText(p.localization.GetText(KeyNothingSelected))
}

// Container returns the panel's canvas object
func (p *DetailPanel) Container() fyne.CanvasObject {
	return p.container
}
