package api

import (
	"github.com/example/worklog/internal/worklog"
)

// CreateWorklogRequest is the request body for creating a worklog.
type CreateWorklogRequest struct {
	Title string `json:"title" example:"Fix the build" validate:"required"`
	Body  string `json:"body" example:"The nightly job is red since Tuesday."`
}

// MoveWorklogRequest is the request body for moving a worklog onto a board.
type MoveWorklogRequest struct {
	Board string `json:"board" example:"doing" validate:"required"`
}

// MoveWorklogResponse is returned after a successful move.
type MoveWorklogResponse struct {
	ID    string `json:"id" example:"a1b2-0065f3c2aa" validate:"required"`
	Board string `json:"board" example:"doing" validate:"required"`
}

// WorklogDetail is the full worklog response type (aliased from the domain layer).
type WorklogDetail = worklog.Detail

// BoardEntry is a row in a board listing (aliased from the domain layer).
type BoardEntry = worklog.Entry

// BoardResponse wraps a single board listing.
type BoardResponse struct {
	Board   string       `json:"board" example:"todo" validate:"required"`
	Entries []BoardEntry `json:"entries" validate:"required"`
}

// SnapshotResponse is the aggregate three-board view (aliased from the domain layer).
type SnapshotResponse = worklog.Snapshot
