// Package board implements the three-board pointer index.
//
// Membership of a worklog on a board is a single relative symlink in that
// board's directory, pointing back into the record area. The relation is
// (board, id) → record path and nothing more: create a pointer, list the
// pointers of a board, delete a pointer if it really is one.
package board

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/ident"
	"github.com/example/worklog/internal/record"
)

// Board names one of the three worklog states.
type Board string

const (
	Todo  Board = "todo"
	Doing Board = "doing"
	Done  Board = "done"
)

// All returns the boards in their fixed display order.
func All() []Board { return []Board{Todo, Doing, Done} }

// Parse validates a board name.
func Parse(name string) (Board, error) {
	switch b := Board(name); b {
	case Todo, Doing, Done:
		return b, nil
	}
	return "", fmt.Errorf("board: %q: %w", name, apperr.ErrInvalidBoard)
}

// Index is the pointer relation, persisted as one directory per board under
// the store root.
type Index struct {
	root string // absolute store root
}

// NewIndex creates an Index rooted at root. Board directories are created
// lazily by the operations.
func NewIndex(root string) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("board: resolve root: %w", err)
	}
	return &Index{root: abs}, nil
}

// Dir returns the pointer directory for b, creating it (idempotently,
// including parents) if absent.
func (ix *Index) Dir(b Board) (string, error) {
	if _, err := Parse(string(b)); err != nil {
		return "", err
	}
	dir := filepath.Join(ix.root, string(b))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("board: create %s dir: %w", b, err)
	}
	return dir, nil
}

// EnsureLayout creates all three board directories.
func (ix *Index) EnsureLayout() error {
	for _, b := range All() {
		if _, err := ix.Dir(b); err != nil {
			return err
		}
	}
	return nil
}

// List enumerates the ids present on b. Entries whose names are not
// record-shaped are silently skipped. The order is whatever os.ReadDir
// yields, which is lexical by entry name.
func (ix *Index) List(b Board) ([]string, error) {
	dir, err := ix.Dir(b)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("board: list %s: %w", b, err)
	}
	var ids []string
	for _, e := range entries {
		if id := record.IDFromName(e.Name()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// AddTo creates the pointer entry for id on b. The symlink target is relative
// to the board directory so the store tree stays portable when moved. An
// existing entry under the same name fails with ErrAlreadyLinked and is never
// overwritten.
func (ix *Index) AddTo(id string, b Board) error {
	if !ident.Valid(id) {
		return fmt.Errorf("board: malformed id %q: %w", id, apperr.ErrUnknownWorklog)
	}
	dir, err := ix.Dir(b)
	if err != nil {
		return err
	}
	name := record.FileName(id)
	target := filepath.Join("..", record.DirName, name)
	if err := os.Symlink(target, filepath.Join(dir, name)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("board: %s already on %s: %w", id, b, apperr.ErrAlreadyLinked)
		}
		return fmt.Errorf("board: link %s on %s: %w", id, b, err)
	}
	return nil
}

// RemoveFrom deletes id's pointer entries across all three boards. Only
// symlinks are ever deleted; a regular file squatting on a pointer name is
// left alone. Sweeping every board lets a broken exactly-one-board state heal
// on the next move. No pointer anywhere is a no-op, not an error.
//
// Returns the first board a pointer was removed from, for callers that report
// where a worklog came from.
func (ix *Index) RemoveFrom(id string) (Board, bool, error) {
	if !ident.Valid(id) {
		return "", false, fmt.Errorf("board: malformed id %q: %w", id, apperr.ErrUnknownWorklog)
	}
	name := record.FileName(id)
	var from Board
	removed := false
	for _, b := range All() {
		dir, err := ix.Dir(b)
		if err != nil {
			return "", false, err
		}
		p := filepath.Join(dir, name)
		fi, err := os.Lstat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, fmt.Errorf("board: lstat %s: %w", p, err)
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			// Never delete anything that is not a pointer.
			continue
		}
		if err := os.Remove(p); err != nil {
			return "", false, fmt.Errorf("board: unlink %s from %s: %w", id, b, err)
		}
		if !removed {
			from = b
			removed = true
		}
	}
	return from, removed, nil
}

// Locate reports which board currently holds a pointer for id. With the
// exactly-one-board invariant intact there is at most one; if the store was
// damaged, the first board in All() order wins.
func (ix *Index) Locate(id string) (Board, bool, error) {
	if !ident.Valid(id) {
		return "", false, fmt.Errorf("board: malformed id %q: %w", id, apperr.ErrUnknownWorklog)
	}
	name := record.FileName(id)
	for _, b := range All() {
		dir, err := ix.Dir(b)
		if err != nil {
			return "", false, err
		}
		fi, err := os.Lstat(filepath.Join(dir, name))
		if err == nil && fi.Mode()&os.ModeSymlink != 0 {
			return b, true, nil
		}
	}
	return "", false, nil
}
