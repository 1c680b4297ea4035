package model

import "strings"

// AndroidApp is a single imported application. Field order matches the
// exported JSON object.
type AndroidApp struct {
	Name   string `json:"name"`
	ID     string `json:"id"` // store identifier, used as icon cache key
	Notes  string `json:"notes"`
	Delete bool   `json:"delete"` // flagged for removal from the device
}

// DisplayName returns the name, or the identifier when the name is blank
func (a AndroidApp) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.ID
}

// IDs returns the identifiers of apps in list order
func IDs(apps []AndroidApp) []string {
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ID)
	}
	return ids
}

// CountFlagged returns how many apps are flagged for deletion
func CountFlagged(apps []AndroidApp) int {
	n := 0
	for _, a := range apps {
		if a.Delete {
			n++
		}
	}
	return n
}
