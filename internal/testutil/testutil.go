// Package testutil provides shared test helpers for setting up worklog stores.
package testutil

import (
	"testing"

	"github.com/example/worklog/internal/board"
	"github.com/example/worklog/internal/record"
	"github.com/example/worklog/internal/worklog"
)

// TestStore creates a temporary store root with the layout directories in
// place and returns the record store and board index bound to it.
func TestStore(t *testing.T) (string, *record.Store, *board.Index) {
	t.Helper()
	root := t.TempDir()
	rec, err := record.NewStore(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	ix, err := board.NewIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := ix.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	return root, rec, ix
}

// TestService creates a worklog service over a temporary store.
func TestService(t *testing.T) *worklog.Service {
	t.Helper()
	svc, err := worklog.NewAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	return svc
}
