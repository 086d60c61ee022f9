// Package locations maintains the persisted mapping from Plex storage
// locations to local directory roots and resolves remote media paths to
// local directories through it.
//
// The mapping is stored as a flat JSON object (remote prefix -> local root)
// so it can be inspected or edited by hand, and is written atomically.
// Resolution selects the longest matching prefix at a path-segment boundary,
// so /media/tv never claims paths under /media/tv-anime.
package locations
