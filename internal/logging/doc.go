package logging

// Package logging builds the application's zerolog logger: a human-readable
// console writer for interactive runs plus an optional JSON log file.
