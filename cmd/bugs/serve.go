package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/rpc"
	"github.com/bugsdev/bugs/internal/search"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "advanced",
	Short:   "Run the stdio tool server",
	Long: `Run the JSON-RPC tool server on stdin and stdout.

The server exposes the tracker operations as tools for agents that
speak the protocol: one request per line in, one response per line
out. Stdout belongs to the protocol, so all logging goes to a
rotating file under the cache directory (or the server.log-file
config key).

A lock under the cache directory keeps the tree to one server at a
time. A file watcher picks up records edited behind the server's back
and rebuilds the search index.

The server runs until stdin closes or it receives an interrupt.`,
	Run: func(cmd *cobra.Command, args []string) {
		cacheDir := store.CacheDir()
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			FatalError("creating cache directory: %v", err)
		}

		logPath := config.GetString("server.log-file")
		if logPath == "" {
			logPath = filepath.Join(cacheDir, "server.log")
		}
		logger := log.New(&lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    config.GetInt("server.log-max-size"),
			MaxBackups: config.GetInt("server.log-max-backups"),
		}, "", log.LstdFlags)

		lock := flock.New(filepath.Join(cacheDir, "server.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			FatalError("acquiring server lock: %v", err)
		}
		if !locked {
			FatalError("another server is already running for %s", store.Root())
		}
		defer func() { _ = lock.Unlock() }()

		pidPath := filepath.Join(cacheDir, "server.pid")
		if err := rpc.WritePIDFile(pidPath); err != nil {
			FatalError("%v", err)
		}
		defer rpc.RemovePIDFile(pidPath)

		rpc.ServerVersion = Version

		// A broken index degrades search; it must not take the server
		// down with it.
		var ix *search.Index
		if opened, err := search.Open(filepath.Join(cacheDir, "search.db")); err != nil {
			logger.Printf("search index unavailable: %v", err)
		} else {
			ix = opened
			defer ix.Close()
		}

		srv := rpc.NewServer(store, ix)
		if err := srv.Reindex(); err != nil {
			logger.Printf("initial index build: %v", err)
		}

		watcher, err := rpc.NewFileWatcher(store, func() {
			logger.Printf("records changed, rebuilding index")
			if err := srv.Reindex(); err != nil {
				logger.Printf("reindex: %v", err)
			}
		})
		if err != nil {
			logger.Printf("file watcher unavailable: %v", err)
		} else {
			watcher.Start(rootCtx, logger)
			defer watcher.Close()
		}

		logger.Printf("server started (version %s, root %s)", Version, store.Root())
		fmt.Fprintf(os.Stderr, "bugs server %s listening on stdio (log: %s)\n", Version, logPath)

		if err := srv.Serve(rootCtx, os.Stdin, os.Stdout); err != nil {
			logger.Printf("server stopped: %v", err)
			FatalError("%v", err)
		}
		logger.Printf("server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
