package rpc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WritePIDFile records this process's pid. A pid file pointing at a
// live process refuses the write; a stale one from a dead server is
// replaced silently.
func WritePIDFile(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		pid, perr := strconv.Atoi(strings.TrimSpace(string(data)))
		if perr == nil && pid > 0 && pid != os.Getpid() && processAlive(pid) {
			return fmt.Errorf("server already running with pid %d", pid)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

// RemovePIDFile deletes the pid file on shutdown, best effort.
func RemovePIDFile(path string) {
	_ = os.Remove(path)
}
