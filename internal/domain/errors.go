package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports an invariant violation on input. No state changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// TemplateMissingError reports unmet provisioning preconditions. Nothing was
// created on disk.
type TemplateMissingError struct {
	Dir     string
	Missing []string
}

func (e *TemplateMissingError) Error() string {
	return fmt.Sprintf("missing template files in %s: %s", e.Dir, strings.Join(e.Missing, ", "))
}

// PathCollisionError reports that a derived folder path is already occupied.
type PathCollisionError struct {
	Path string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("path already exists: %s", e.Path)
}

// StorageError wraps a persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// FilesystemError wraps a copy/move/delete failure with enough context for
// manual recovery.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// ReconcileWarning signals that the database change committed but the
// filesystem step failed. The record is authoritative; re-running
// provisioning or reconciliation repairs the tree.
type ReconcileWarning struct {
	Err error
}

func (e *ReconcileWarning) Error() string {
	return fmt.Sprintf("needs reconciliation: %v", e.Err)
}

func (e *ReconcileWarning) Unwrap() error { return e.Err }
