package storage

import (
	"fmt"

	"github.com/bugsdev/bugs/internal/types"
)

// NotFoundError reports a reference that resolves to no issue, or an
// alias that does not exist.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("issue not found: %s", e.Ref)
}

// AliasConflictError reports an attempt to bind an alias that already
// points at a different issue.
type AliasConflictError struct {
	Alias string
	ID    int
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("alias %q already points to %s", e.Alias, types.Ref(e.ID))
}

// CorruptedError reports a record move whose freshly written copy failed
// verification. The previous copy is left in place untouched.
type CorruptedError struct {
	Path string
	Err  error
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("record verification failed for %s: %v", e.Path, e.Err)
}

func (e *CorruptedError) Unwrap() error { return e.Err }
