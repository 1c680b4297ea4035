package platform

// Package platform contains OS integration and file format glue:
// filesystem helpers, opening URLs in the system browser, and the LMA text
// and JSON app list formats.
