package platform

import (
	"regexp"
	"strings"

	"github.com/ytget/app-organizer/internal/model"
)

// lmaAppRegex matches a display name line followed by a tab-indented id line
var lmaAppRegex = regexp.MustCompile(`([^\n]+)\n\t(\S+)`)

// ParseLMAText extracts every name/id pair from an LMA text export.
// Lines outside such pairs are ignored. The result is never nil.
func ParseLMAText(text string) []model.AndroidApp {
	apps := make([]model.AndroidApp, 0)

	for _, match := range lmaAppRegex.FindAllStringSubmatch(text, -1) {
		apps = append(apps, model.AndroidApp{
			Name: strings.TrimSuffix(match[1], "\r"),
			ID:   match[2],
		})
	}
	return apps
}
