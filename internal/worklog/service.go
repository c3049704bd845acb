// Package worklog provides the service façade over the identifier generator,
// record store, and board index, and makes the per-id state machine explicit:
// a record is either untracked or on exactly one of the three boards.
package worklog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/board"
	"github.com/example/worklog/internal/checksum"
	"github.com/example/worklog/internal/ident"
	"github.com/example/worklog/internal/parser"
	"github.com/example/worklog/internal/record"
)

// State is the explicit per-id state: untracked, or on one board.
type State struct {
	OnBoard bool        `json:"on_board"`
	Board   board.Board `json:"board,omitempty"`
}

// Untracked is the state of a record with no board pointer.
func Untracked() State { return State{} }

// On returns the state for membership on b.
func On(b board.Board) State { return State{OnBoard: true, Board: b} }

func (s State) String() string {
	if !s.OnBoard {
		return "untracked"
	}
	return string(s.Board)
}

// Entry is one row of a board listing, the dashboard-input (id, title) pair.
// Unreadable marks an entry whose title could not be extracted; the listing
// carries on and renderers show a placeholder for it.
type Entry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Unreadable bool   `json:"unreadable,omitempty"`
}

// BoardListing pairs a board with its ordered entries.
type BoardListing struct {
	Board   board.Board `json:"board"`
	Entries []Entry     `json:"entries"`
}

// Snapshot is the aggregate dashboard input: all three boards in fixed
// todo, doing, done order.
type Snapshot struct {
	Boards []BoardListing `json:"boards"`
}

// Detail is the full representation of a single worklog. Title may be empty
// when the document carries none; unlike listings, the detail view does not
// depend on it.
type Detail struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Tags      []string  `json:"tags"`
	Body      string    `json:"body"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates record storage and board membership.
type Service struct {
	rec    *record.Store
	boards *board.Index
}

// NewService creates a new worklog service.
func NewService(rec *record.Store, boards *board.Index) *Service {
	return &Service{rec: rec, boards: boards}
}

// NewAt builds the service and its collaborators rooted at root.
func NewAt(root string) (*Service, error) {
	rec, err := record.NewStore(root)
	if err != nil {
		return nil, err
	}
	ix, err := board.NewIndex(root)
	if err != nil {
		return nil, err
	}
	return NewService(rec, ix), nil
}

// Root returns the absolute store root.
func (s *Service) Root() string { return s.rec.Root() }

// EnsureLayout creates the whole on-disk layout: the record area, the three
// board directories, and the reserved tags directory.
func (s *Service) EnsureLayout() error {
	if err := s.rec.EnsureLayout(); err != nil {
		return err
	}
	return s.boards.EnsureLayout()
}

// Create generates a fresh id, materializes its record document, and places
// it on the todo board.
func (s *Service) Create(_ context.Context, title, body string) (string, error) {
	var id string
	for attempt := 0; ; attempt++ {
		id = ident.New()
		if !s.rec.Exists(id) {
			break
		}
		// A collision needs the same random draw within the same second.
		if attempt == 2 {
			return "", fmt.Errorf("worklog: id collision on %s", id)
		}
	}
	if err := s.rec.Write(id, record.Compose(title, body)); err != nil {
		return "", err
	}
	if err := s.boards.AddTo(id, board.Todo); err != nil {
		return "", err
	}
	return id, nil
}

// Open returns the absolute record path for id so the editing collaborator
// can be pointed at it. The containing directory is created if missing; the
// record file itself is not, new records go through Create. Valid from any
// state, including untracked.
func (s *Service) Open(_ context.Context, id string) (string, error) {
	return s.rec.PathFor(id)
}

// MoveTo places id on the named board, regardless of where (or whether) it
// was tracked before. The remove-then-add pair is not atomic: a crash in
// between leaves the id untracked, and a later MoveTo repairs that.
func (s *Service) MoveTo(_ context.Context, boardName, id string) error {
	b, err := board.Parse(boardName)
	if err != nil {
		return err
	}
	if !s.rec.Exists(id) {
		return fmt.Errorf("worklog: %s: %w", id, apperr.ErrUnknownWorklog)
	}
	if _, _, err := s.boards.RemoveFrom(id); err != nil {
		return err
	}
	return s.boards.AddTo(id, b)
}

// List returns the entries of one board.
func (s *Service) List(_ context.Context, boardName string) ([]Entry, error) {
	b, err := board.Parse(boardName)
	if err != nil {
		return nil, err
	}
	return s.listBoard(b)
}

// Snapshot returns all three boards in fixed order.
func (s *Service) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := &Snapshot{Boards: make([]BoardListing, 0, 3)}
	for _, b := range board.All() {
		entries, err := s.listBoard(b)
		if err != nil {
			return nil, err
		}
		snap.Boards = append(snap.Boards, BoardListing{Board: b, Entries: entries})
	}
	return snap, nil
}

// IsWorklog reports whether a record exists for id, independent of board
// membership.
func (s *Service) IsWorklog(_ context.Context, id string) bool {
	return s.rec.Exists(id)
}

// StateOf reports the explicit state of id. An id with no record fails with
// ErrUnknownWorklog; a record with no pointer is untracked, not an error.
func (s *Service) StateOf(_ context.Context, id string) (State, error) {
	if !s.rec.Exists(id) {
		return State{}, fmt.Errorf("worklog: %s: %w", id, apperr.ErrUnknownWorklog)
	}
	b, found, err := s.boards.Locate(id)
	if err != nil {
		return State{}, err
	}
	if !found {
		return Untracked(), nil
	}
	return On(b), nil
}

// Detail reads and parses the full record for id.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	data, err := s.rec.Read(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, apperr.ErrUnknownWorklog) {
			return nil, fmt.Errorf("worklog: %s: %w", id, apperr.ErrUnknownWorklog)
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("worklog: parse %s: %w: %w", id, apperr.ErrRecordUnreadable, err)
	}
	st, err := s.StateOf(ctx, id)
	if err != nil {
		return nil, err
	}
	created, _ := ident.Time(id)
	updated, _ := s.rec.ModTime(id)
	return &Detail{
		ID:        id,
		Title:     res.Title,
		State:     st.String(),
		Tags:      nonNilSlice(res.Tags),
		Body:      res.Body,
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// listBoard builds the entries of one board, tolerating unreadable records.
func (s *Service) listBoard(b board.Board) ([]Entry, error) {
	ids, err := s.boards.List(b)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		title, err := s.rec.TitleOf(id)
		if err != nil {
			slog.Warn("unreadable record in listing",
				slog.String("id", id),
				slog.String("board", string(b)),
				slog.String("error", err.Error()))
			entries = append(entries, Entry{ID: id, Unreadable: true})
			continue
		}
		entries = append(entries, Entry{ID: id, Title: title})
	}
	return entries, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
