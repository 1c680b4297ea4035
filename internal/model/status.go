package model

// IconState represents where an app icon is in the fetch/render pipeline
type IconState string

const (
	// IconStateMissing means nothing is cached and no fetch is running
	IconStateMissing IconState = "Missing"

	// IconStateFetching means a fetch for the icon is in flight
	IconStateFetching IconState = "Fetching"

	// IconStateDecoded means decoded pixels are cached but not yet uploaded
	IconStateDecoded IconState = "Decoded"

	// IconStateReady means the icon has been promoted to a render handle
	IconStateReady IconState = "Ready"
)

// String returns the string representation of IconState
func (s IconState) String() string {
	return string(s)
}

// HasValue returns true if pixels or a render handle are cached
func (s IconState) HasValue() bool {
	return s == IconStateDecoded || s == IconStateReady
}

// IsOccupied returns true if the cache holds anything for the key,
// including an in-flight reservation
func (s IconState) IsOccupied() bool {
	return s != IconStateMissing
}
