package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ytget/app-organizer/internal/model"
)

// appIndex implements fuzzy.Source over lowercased "name id" keys
type appIndex struct {
	keys []string
}

// String returns the search key at index i (implements fuzzy.Source)
func (idx appIndex) String(i int) string { return idx.keys[i] }

// Len returns the number of apps (implements fuzzy.Source)
func (idx appIndex) Len() int { return len(idx.keys) }

func newAppIndex(apps []model.AndroidApp) appIndex {
	keys := make([]string, len(apps))
	for i, app := range apps {
		keys[i] = strings.ToLower(app.Name + " " + app.ID)
	}
	return appIndex{keys: keys}
}

// FilterApps returns the indices of apps matching query, best match first.
// A blank query returns every index in list order.
func FilterApps(apps []model.AndroidApp, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		all := make([]int, len(apps))
		for i := range apps {
			all[i] = i
		}
		return all
	}

	matches := fuzzy.FindFrom(query, newAppIndex(apps))

	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	return indices
}

// FilterFlagged narrows indices to apps marked for deletion
func FilterFlagged(apps []model.AndroidApp, indices []int) []int {
	flagged := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(apps) && apps[i].Delete {
			flagged = append(flagged, i)
		}
	}
	return flagged
}
