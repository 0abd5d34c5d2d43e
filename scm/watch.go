/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package scm

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// watchState queues changed module files. The watcher goroutine only
// records paths; PollWatches reloads them on the evaluating goroutine so
// evaluation never runs concurrently.
type watchState struct {
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]bool
	targets map[string]*Env
}

func (it *Interp) watchFile(path string, en *Env) error {
	if it.watch == nil {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("cannot create file watcher: %w", err)
		}
		it.watch = &watchState{watcher: watcher, pending: make(map[string]bool), targets: make(map[string]*Env)}
		go it.watch.run()
	}
	w := it.watch
	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	w.mu.Lock()
	w.targets[path] = en
	w.mu.Unlock()
	return nil
}

func (w *watchState) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			if _, watched := w.targets[event.Name]; watched {
				w.pending[event.Name] = true
			}
			w.mu.Unlock()
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.watcher.Add(event.Name) // text editors rename, so we have to rewatch
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintln(os.Stderr, "watch:", err)
		}
	}
}

func (w *watchState) unwatch(path string) bool {
	w.mu.Lock()
	_, ok := w.targets[path]
	delete(w.targets, path)
	delete(w.pending, path)
	w.mu.Unlock()
	if ok {
		w.watcher.Remove(path)
	}
	return ok
}

func (w *watchState) close() error {
	return w.watcher.Close()
}

// PollWatches reloads every watched file that changed since the last poll
// and returns their paths. Reloading continues after a failing file; the
// first error is returned.
func (it *Interp) PollWatches() ([]string, error) {
	if it.watch == nil {
		return nil, nil
	}
	w := it.watch
	w.mu.Lock()
	var paths []string
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	targets := make([]*Env, len(paths))
	sort.Strings(paths)
	for i, path := range paths {
		targets[i] = w.targets[path]
	}
	w.mu.Unlock()
	var firstErr error
	var reloaded []string
	for i, path := range paths {
		if targets[i] == nil {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue // renamed away and not yet back
		}
		reloaded = append(reloaded, path)
		if _, err := it.LoadFile(path, targets[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return reloaded, firstErr
}

func stringsToList(s []string) Scmer {
	result := make([]Scmer, len(s))
	for i, x := range s {
		result[i] = x
	}
	return List(result...)
}

func init_watch() {
	DeclareTitle("File Watches")

	Declare(&Declaration{
		"watch", "loads a file and loads it again whenever it changes; reloads happen between top-level forms",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "file name"},
			DeclarationParameter{"environment", "any", "target environment (default: global)"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, err := pathArg("watch", en, a[0])
			if err != nil {
				return nil, err
			}
			path = filepath.Clean(path)
			target := en.Root()
			if len(a) > 1 {
				if target, err = envArg("watch", en, a, 1); err != nil {
					return nil, err
				}
			}
			it := en.Interp()
			result, err := it.LoadFile(path, target)
			if err != nil {
				return nil, err
			}
			if err := it.watchFile(path, target); err != nil {
				return nil, asSignal(err)
			}
			return result, nil
		},
	})
	Declare(&Declaration{
		"unwatch", "stops watching a file",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "file name"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, err := pathArg("unwatch", en, a[0])
			if err != nil {
				return nil, err
			}
			it := en.Interp()
			if it.watch == nil {
				return false, nil
			}
			return it.watch.unwatch(filepath.Clean(path)), nil
		},
	})
	Declare(&Declaration{
		"poll-watches", "reloads all watched files that changed and returns their paths",
		0, 0,
		[]DeclarationParameter{}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			paths, err := en.Interp().PollWatches()
			if err != nil {
				return nil, err
			}
			return stringsToList(paths), nil
		},
	})
}
