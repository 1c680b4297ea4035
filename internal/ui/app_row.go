package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/app-organizer/internal/model"
)

// AppRow is a list row: icon thumbnail, name and a marker for apps flagged
// for deletion
type AppRow struct {
	widget.BaseWidget

	app model.AndroidApp

	icon      *canvas.Image
	nameLabel *widget.Label
	marker    *canvas.Text
}

// NewAppRow creates an empty row
func NewAppRow() *AppRow {
	r := &AppRow{}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

func (r *AppRow) createUI() {
	r.icon = canvas.NewImageFromImage(nil)
	r.icon.FillMode = canvas.ImageFillContain
	r.icon.SetMinSize(fyne.NewSize(RowIconSize, RowIconSize))

	r.nameLabel = widget.NewLabel("")
	r.nameLabel.Truncation = fyne.TextTruncateEllipsis

	r.marker = canvas.NewText(IconDelete, theme.Color(theme.ColorNameError))
	r.marker.Hide()
}

// SetApp shows app with icon. A nil icon leaves the thumbnail blank.
func (r *AppRow) SetApp(app model.AndroidApp, icon image.Image) {
	r.app = app
	r.nameLabel.SetText(app.DisplayName())

	r.nameLabel.TextStyle = fyne.TextStyle{Italic: app.Delete}
	if app.Delete {
		r.marker.Show()
	} else {
		r.marker.Hide()
	}

	if r.icon.Image != icon {
		r.icon.Image = icon
		r.icon.Refresh()
	}
	r.Refresh()
}

// App returns the app currently shown
func (r *AppRow) App() model.AndroidApp {
	return r.app
}

// HasIcon reports whether a thumbnail is shown
func (r *AppRow) HasIcon() bool {
	return r.icon.Image != nil
}

// CreateRenderer creates the widget renderer
func (r *AppRow) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(nil, nil, r.icon, r.marker, r.nameLabel)
	return widget.NewSimpleRenderer(content)
}
