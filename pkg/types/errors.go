package types

import "errors"

// Entity operation errors. Every operation that returns one of these has
// left its store unchanged.
var (
	ErrNameCollision       = errors.New("name already exists")
	ErrNotFound            = errors.New("not found")
	ErrProtectedColumn     = errors.New("variant column is protected")
	ErrIndexOutOfRange     = errors.New("step index out of range")
	ErrNothingCopied       = errors.New("clipboard is empty")
	ErrInvalidName         = errors.New("invalid name")
	ErrIncompleteSelection = errors.New("placeholder selection is incomplete")
	ErrInvalidDirection    = errors.New("invalid move direction")
)

// Document errors.
var (
	// ErrMalformedDocument reports persisted data that failed to parse. The
	// session recovers from it by starting the affected store empty.
	ErrMalformedDocument = errors.New("malformed document")
	ErrInvalidImport     = errors.New("invalid import table")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
