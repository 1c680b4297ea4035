package imagecache

// Package imagecache holds decoded app icons shared between the fetch worker
// and the UI. Entries start as raw pixels written by the worker and are
// promoted by the UI to a render handle the first time they are displayed.
// The cache carries its own locking; callers never see the mutex.
