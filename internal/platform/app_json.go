package platform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/app-organizer/internal/model"
)

// Format identifies an app list file format
type Format string

const (
	// FormatJSON is the native export format
	FormatJSON Format = "json"

	// FormatLMA is the List My Apps text export
	FormatLMA Format = "lma"
)

// JSONIndent is the indentation of prettified exports
const JSONIndent = "  "

// ErrUnknownFormat is returned when a format cannot be determined
var ErrUnknownFormat = errors.New("unknown app list format")

// DecodeAppsJSON decodes an app list. Compact and indented documents are
// both accepted; null decodes to an empty list.
func DecodeAppsJSON(data []byte) ([]model.AndroidApp, error) {
	var apps []model.AndroidApp
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("invalid app list JSON: %w", err)
	}
	if apps == nil {
		apps = make([]model.AndroidApp, 0)
	}
	return apps, nil
}

// EncodeAppsJSON encodes apps compactly, or indented when pretty is set.
// A nil list encodes as [].
func EncodeAppsJSON(apps []model.AndroidApp, pretty bool) ([]byte, error) {
	if apps == nil {
		apps = make([]model.AndroidApp, 0)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", JSONIndent)
	}
	if err := encoder.Encode(apps); err != nil {
		return nil, fmt.Errorf("failed to encode app list: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParseFormat converts a user supplied name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "lma", "txt", "text":
		return FormatLMA, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat guesses the format of a file from its extension, then its
// first non-blank byte
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".txt", ".lma":
		return FormatLMA
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatLMA
}

// DecodeApps decodes data in the given format
func DecodeApps(data []byte, format Format) ([]model.AndroidApp, error) {
	switch format {
	case FormatJSON:
		return DecodeAppsJSON(data)
	case FormatLMA:
		return ParseLMAText(string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ReadAppsFile reads an app list. An empty format detects it from the file.
func ReadAppsFile(path string, format Format) ([]model.AndroidApp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if format == "" {
		format = DetectFormat(path, data)
	}
	return DecodeApps(data, format)
}

// WriteAppsFile writes apps as JSON, creating parent directories
func WriteAppsFile(path string, apps []model.AndroidApp, pretty bool) error {
	data, err := EncodeAppsJSON(apps, pretty)
	if err != nil {
		return err
	}
	if err := EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
