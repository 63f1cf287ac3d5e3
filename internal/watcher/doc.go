// Package watcher reports filesystem changes under a set of discovery roots
// so the catalog can be refreshed without waiting for the periodic rescan.
//
// Each root is watched with fsnotify down to a maximum depth. Directories
// created later are added as they appear. Events are coalesced per path by a
// Debouncer and delivered in batches that name the roots they touched.
//
// Usage:
//
//	w, err := watcher.New(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	_ = w.Add("/Applications")
//	go w.Run(ctx)
//
//	for batch := range w.Events() {
//	    for _, root := range batch.Roots {
//	        // refresh whatever was discovered under root
//	    }
//	}
package watcher
