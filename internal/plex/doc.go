// Package plex implements the subset of the Plex Media Server HTTP API the
// uploader needs: listing library sections and their items (including which
// artwork types an item already carries) and uploading a clear-logo image to
// one item.
//
// Upload failures carry a three-way classification (bad request, unsupported
// item, transport) so callers never have to inspect error text.
package plex
