//go:build unix

package rpc

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processAlive probes the pid with signal 0. EPERM means the process
// exists but belongs to someone else, which still counts as alive.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
