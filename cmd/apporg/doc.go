package main

// Command apporg converts, lists and prefetches icons for app lists without
// opening the desktop window. It shares the icon store with the desktop app.
