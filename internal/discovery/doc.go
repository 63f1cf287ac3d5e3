// Package discovery populates the catalog.
//
// A Source enumerates the entities of one mode: AppSource scans application
// directories (macOS .app bundles and freedesktop .desktop files) and adds the
// built-in actions, FileSource walks the configured file roots, and
// CommandSource turns the configured commands into the Run catalog.
//
// AppCache keeps the last application scan on disk so that a freshly started
// launcher can list apps without rescanning. The Refresher runs sources into a
// catalog.Catalog on start, on a timer and in response to watcher batches.
package discovery
