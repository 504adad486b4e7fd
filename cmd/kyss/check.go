package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc/pool"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/internal/console"
)

type checkResult struct {
	path   string
	report string // empty when the file parsed
}

// checkFiles parses every path concurrently and writes one success line or
// one error rendering per file, in argument order. It returns true when
// every file parsed.
func checkFiles(w io.Writer, paths []string, quiet bool) bool {
	p := pool.NewWithResults[checkResult]().WithMaxGoroutines(8)
	for _, path := range paths {
		p.Go(func() checkResult {
			return checkOne(path)
		})
	}
	ok := true
	for _, res := range p.Wait() {
		if res.report != "" {
			ok = false
			fmt.Fprint(w, res.report)
			continue
		}
		if !quiet {
			fmt.Fprintln(w, console.FormatSuccessMessage(res.path))
		}
	}
	return ok
}

func checkOne(path string) checkResult {
	if _, err := kyss.ParseFile(path); err != nil {
		return checkResult{path: path, report: console.FormatError(path, err)}
	}
	return checkResult{path: path}
}

// watchFiles checks paths, then re-checks whichever change until
// interrupted. Directories are watched so editors that replace files on
// save are still seen.
func watchFiles(w io.Writer, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	named := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		named[path] = true
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	checkFiles(w, paths, false)
	fmt.Fprintln(w, console.FormatInfoMessage("watching for changes, Ctrl+C to stop"))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	const debounceDelay = 300 * time.Millisecond
	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
		modified      = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher channel closed")
			}
			if !named[event.Name] && !strings.HasSuffix(event.Name, ".kyss") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			mu.Lock()
			modified[event.Name] = struct{}{}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				mu.Lock()
				files := make([]string, 0, len(modified))
				for f := range modified {
					files = append(files, f)
				}
				modified = make(map[string]struct{})
				mu.Unlock()
				sort.Strings(files)
				checkFiles(w, files, false)
			})
			mu.Unlock()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			fmt.Fprintln(w, console.FormatErrorMessage(werr.Error()))
		case <-sigChan:
			return nil
		}
	}
}
