package rpc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

// watchLogger is the logging surface the watcher needs. *log.Logger
// satisfies it.
type watchLogger interface {
	Printf(format string, args ...interface{})
}

// FileWatcher monitors the record tree for edits made outside this
// process, using filesystem events or polling. It watches the issues
// root for the alias table and both partition directories for records.
type FileWatcher struct {
	watcher      *fsnotify.Watcher
	debouncer    *Debouncer
	root         string
	aliasPath    string
	openDir      string
	closedDir    string
	pollingMode  bool
	lastPollSig  pollSignature
	pollInterval time.Duration
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// pollSignature fingerprints the record tree for the polling fallback.
type pollSignature struct {
	count   int
	size    int64
	latest  time.Time
	aliasOK bool
}

// NewFileWatcher creates a watcher over the store's record tree.
// onChanged fires after debouncing. fsnotify failures fall back to
// polling unless BUGS_WATCHER_FALLBACK disables it.
func NewFileWatcher(store *storage.Store, onChanged func()) (*FileWatcher, error) {
	fw := &FileWatcher{
		debouncer:    NewDebouncer(500*time.Millisecond, onChanged),
		root:         store.Root(),
		aliasPath:    store.AliasFile(),
		openDir:      store.PartitionDir(types.PartitionOpen),
		closedDir:    store.PartitionDir(types.PartitionClosed),
		pollInterval: 5 * time.Second,
	}
	fw.lastPollSig = fw.pollSig()

	fallbackEnv := os.Getenv("BUGS_WATCHER_FALLBACK")
	fallbackDisabled := fallbackEnv == "false" || fallbackEnv == "0"

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		if fallbackDisabled {
			return nil, fmt.Errorf("fsnotify.NewWatcher() failed and BUGS_WATCHER_FALLBACK is disabled: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: fsnotify.NewWatcher() failed (%v), falling back to polling mode (%v interval)\n", err, fw.pollInterval)
		fmt.Fprintf(os.Stderr, "Set BUGS_WATCHER_FALLBACK=false to disable this fallback and require fsnotify\n")
		fw.pollingMode = true
		return fw, nil
	}
	fw.watcher = watcher

	for _, dir := range []string{fw.root, fw.openDir, fw.closedDir} {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			if fallbackDisabled {
				return nil, fmt.Errorf("failed to watch %s and BUGS_WATCHER_FALLBACK is disabled: %w", dir, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: failed to watch %s (%v), falling back to polling mode (%v interval)\n", dir, err, fw.pollInterval)
			fmt.Fprintf(os.Stderr, "Set BUGS_WATCHER_FALLBACK=false to disable this fallback and require fsnotify\n")
			fw.pollingMode = true
			fw.watcher = nil
			return fw, nil
		}
	}
	return fw, nil
}

// relevant reports whether an event path is a record, the alias table,
// or a partition directory. The lock file and the cache directory also
// live under the root and must not retrigger the index rebuilds they
// cause.
func (fw *FileWatcher) relevant(name string) bool {
	if name == fw.aliasPath || name == fw.openDir || name == fw.closedDir {
		return true
	}
	if !strings.HasSuffix(name, storage.RecordExt) {
		return false
	}
	dir := filepath.Dir(name)
	return dir == fw.openDir || dir == fw.closedDir
}

// Start begins monitoring in a background goroutine until the context
// is canceled. Call once per watcher.
func (fw *FileWatcher) Start(ctx context.Context, log watchLogger) {
	ctx, cancel := context.WithCancel(ctx)
	fw.cancel = cancel

	if fw.pollingMode {
		fw.startPolling(ctx, log)
		return
	}

	fw.wg.Add(1)
	go func() {
		defer fw.wg.Done()
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if !fw.relevant(event.Name) {
					continue
				}

				// A partition directory going away usually means a git
				// checkout replaced the tree. Re-add with backoff.
				if (event.Name == fw.openDir || event.Name == fw.closedDir) &&
					event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					log.Printf("partition directory removed, re-establishing watch: %s", event.Name)
					_ = fw.watcher.Remove(event.Name)
					fw.reEstablishWatch(ctx, log, event.Name)
					continue
				}

				log.Printf("change detected: %s", event.Name)
				fw.debouncer.Trigger()

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher error: %v", err)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// reEstablishWatch re-adds a directory watch with backoff, for trees
// that are briefly absent mid-checkout.
func (fw *FileWatcher) reEstablishWatch(ctx context.Context, log watchLogger, dir string) {
	delays := []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

	for _, delay := range delays {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			if err := fw.watcher.Add(dir); err != nil {
				if os.IsNotExist(err) {
					log.Printf("%s still missing after %v, retrying...", dir, delay)
					continue
				}
				log.Printf("failed to re-watch %s after %v: %v", dir, delay, err)
				return
			}
			log.Printf("re-established watch on %s after %v", dir, delay)
			fw.debouncer.Trigger()
			return
		}
	}
	log.Printf("failed to re-establish watch on %s after all retries", dir)
}

// pollSig fingerprints the records and alias table. Count, total size,
// and the newest modification time together catch edits, creates,
// deletes, and moves between partitions.
func (fw *FileWatcher) pollSig() pollSignature {
	var sig pollSignature
	for _, dir := range []string{fw.openDir, fw.closedDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), storage.RecordExt) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			sig.count++
			sig.size += info.Size()
			if info.ModTime().After(sig.latest) {
				sig.latest = info.ModTime()
			}
		}
	}
	if stat, err := os.Stat(fw.aliasPath); err == nil {
		sig.aliasOK = true
		sig.size += stat.Size()
		if stat.ModTime().After(sig.latest) {
			sig.latest = stat.ModTime()
		}
	}
	return sig
}

// startPolling checks the tree fingerprint on a ticker.
func (fw *FileWatcher) startPolling(ctx context.Context, log watchLogger) {
	log.Printf("starting polling mode with %v interval", fw.pollInterval)
	ticker := time.NewTicker(fw.pollInterval)
	fw.wg.Add(1)
	go func() {
		defer fw.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sig := fw.pollSig()
				if sig != fw.lastPollSig {
					fw.lastPollSig = sig
					log.Printf("change detected (polling): %s", fw.root)
					fw.debouncer.Trigger()
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the watcher and releases resources.
func (fw *FileWatcher) Close() error {
	if fw.cancel != nil {
		fw.cancel()
	}
	fw.wg.Wait()
	fw.debouncer.Cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}
