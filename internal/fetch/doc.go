package fetch

// Package fetch implements the background icon pipeline. A Coordinator owns a
// single worker goroutine that drains batches of app identifiers in
// submission order, reserves each uncached identifier in the shared image
// cache and fetches the reserved ones concurrently.
