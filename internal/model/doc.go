package model

// Package model defines domain data structures shared across the app: imported
// Android applications, icon cache states and icon fetch batches. Structures
// are plain values designed for direct JSON encoding and UI binding.
