//go:build windows

package rpc

import "os"

// processAlive reports whether the pid can be opened. Windows has no
// signal 0 probe; os.FindProcess only succeeds for live processes
// there.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
