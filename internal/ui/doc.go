package ui

// Package ui contains the Fyne desktop interface: the app list with fuzzy
// filter, the detail editor, import/export menus and settings. Icons are
// requested from the fetch coordinator and promoted from decoded pixels to
// canvas images the first time a row or the detail panel shows them.
// All UI strings are localized via Localization.
