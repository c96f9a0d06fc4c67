// Package watcher reports changes to a fixed set of dictionary files.
//
// fsnotify is the primary mechanism. The parent directory of each file is
// watched rather than the file itself, so editors that save by writing a
// temporary file and renaming it over the original are still seen. When
// fsnotify cannot be initialized the watcher falls back to polling file
// modification times.
//
// Events are debounced so a burst of writes produces one batch:
//
//	w, err := watcher.New([]string{"/usr/share/dict/words"}, watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	go func() { _ = w.Start(ctx) }()
//	for batch := range w.Events() {
//	    rebuild(batch)
//	}
package watcher
