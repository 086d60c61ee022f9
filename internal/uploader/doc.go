// Package uploader drives the scan/match/upload cycle over Plex library
// sections.
//
// For every item in a movie or show section it derives the item's remote
// path, resolves it to a local directory through the location mapping, looks
// for a clear-logo file there, and uploads it unless the run is a dry run or
// the item already carries a logo. Every per-item failure is isolated: the
// batch's value is aggregate completion, so nothing short of context
// cancellation stops the loop.
package uploader
