package bootstrap

// Package bootstrap builds the shared services of the desktop app and the
// command line tool from the file configuration: logger, icon store, store
// page source and icon fetcher.
