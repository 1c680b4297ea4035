package search

// Package search implements fuzzy filtering of the app list by name and id.
