// Package apperr defines the sentinel errors shared across the worklog core.
package apperr

import "errors"

var (
	// ErrInvalidBoard reports a board name outside todo/doing/done.
	ErrInvalidBoard = errors.New("invalid board")
	// ErrUnknownWorklog reports an id with no record behind it.
	ErrUnknownWorklog = errors.New("unknown worklog")
	// ErrRecordUnreadable reports a record whose title cannot be extracted,
	// either because the file is missing or the document carries no title.
	ErrRecordUnreadable = errors.New("record unreadable")
	// ErrAlreadyLinked reports a board pointer that already exists under the
	// same name. Recoverable: the caller decides whether to remove and retry.
	ErrAlreadyLinked = errors.New("already linked")
)
