// Package bugs provides a minimal public API for driving the tracker
// from Go instead of through the CLI.
//
// Most automation should shell out to the bugs binary or talk to
// 'bugs serve'; the records it reads and writes are plain files. This
// package exports only the types and entry points a Go program needs
// to use the storage layer directly.
package bugs

import (
	"os"

	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

// Store manages a record tree. All mutations are safe across processes;
// see the storage layer for the locking protocol.
type Store = storage.Store

// Open returns a store over the given issues directory. The directory
// does not need to exist yet; the first write creates it.
func Open(root string) *Store {
	return storage.Open(root)
}

// FindIssuesDir locates the nearest record tree, walking up from the
// current directory the way the CLI does. ok is false when no tree
// exists yet.
func FindIssuesDir() (root string, ok bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return storage.Discover(cwd)
}

// Ref formats an issue id the way the CLI prints it.
func Ref(id int) string {
	return types.Ref(id)
}

// Core types from internal/types.
type (
	Issue      = types.Issue
	Checkpoint = types.Checkpoint
	CloseNote  = types.CloseNote
	Status     = types.Status
	Priority   = types.Priority
	Partition  = types.Partition
	Filter     = types.Filter
	Outcome    = types.Outcome
)

// Error kinds callers may want to test with errors.As.
type (
	NotFoundError      = storage.NotFoundError
	AliasConflictError = storage.AliasConflictError
)

// Status constants
const (
	StatusOpen    = types.StatusOpen
	StatusActive  = types.StatusActive
	StatusBlocked = types.StatusBlocked
	StatusDone    = types.StatusDone
	StatusClosed  = types.StatusClosed
	StatusBacklog = types.StatusBacklog
)

// Priority constants
const (
	PriorityCritical = types.PriorityCritical
	PriorityHigh     = types.PriorityHigh
	PriorityMedium   = types.PriorityMedium
	PriorityLow      = types.PriorityLow
)

// Partition constants
const (
	PartitionOpen   = types.PartitionOpen
	PartitionClosed = types.PartitionClosed
)
