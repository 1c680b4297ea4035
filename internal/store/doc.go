package store

// Package store persists downloaded icon bytes in a bbolt database so icons
// survive restarts without another round trip to the store page.
