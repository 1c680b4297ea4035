package config

// Package config holds the two configuration layers of the app: the fetch,
// cache and logging settings read from a YAML file (with APPORG_ environment
// overrides), and the per-user UI preferences stored through Fyne, including
// the persisted app list.
