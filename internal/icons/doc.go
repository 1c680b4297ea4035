package icons

// Package icons fetches app icons from the public store page: it scrapes the
// page for the icon URL, downloads the image and decodes it to RGBA pixels.
// Downloaded bytes can be kept in a persistent store so restarts do not hit
// the network again.
