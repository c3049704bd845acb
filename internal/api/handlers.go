package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/sse"
	"github.com/example/worklog/internal/worklog"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *worklog.Service
	events *sse.Broker
}

// NewHandler creates a new Handler. events may be nil when no broker runs.
func NewHandler(svc *worklog.Service, events *sse.Broker) *Handler {
	return &Handler{svc: svc, events: events}
}

// GetBoards handles GET /api/boards.
//
//	@Summary		Get all three boards in fixed todo, doing, done order
//	@Tags			boards
//	@Produce		json
//	@Success		200	{object}	SnapshotResponse
//	@Security		BearerAuth
//	@Router			/boards [get]
func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		slog.Error("board snapshot failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetBoard handles GET /api/boards/{board}.
//
//	@Summary		Get the entries of one board
//	@Tags			boards
//	@Produce		json
//	@Param			board	path		string	true	"Board name"	Enums(todo, doing, done)
//	@Success		200		{object}	BoardResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{board} [get]
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "board")
	entries, err := h.svc.List(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidBoard) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid board"))
		} else {
			slog.Error("list board failed", slog.String("board", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, BoardResponse{Board: name, Entries: entries})
}

// CreateWorklog handles POST /api/worklogs.
//
//	@Summary		Create a new worklog on the todo board
//	@Tags			worklogs
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateWorklogRequest	true	"Worklog to create"
//	@Success		201		{object}	WorklogDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/worklogs [post]
func (h *Handler) CreateWorklog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateWorklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	id, err := h.svc.Create(r.Context(), req.Title, req.Body)
	if err != nil {
		slog.Error("create worklog failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if h.events != nil {
		h.events.PublishChange(sse.Created(id, req.Title))
	}
	detail, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		slog.Error("detail after create failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// GetWorklog handles GET /api/worklogs/{id}.
//
//	@Summary		Get a single worklog by id
//	@Tags			worklogs
//	@Produce		json
//	@Param			id	path		string	true	"Worklog id"
//	@Success		200	{object}	WorklogDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/worklogs/{id} [get]
func (h *Handler) GetWorklog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownWorklog) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get worklog failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// MoveWorklog handles POST /api/worklogs/{id}/move.
//
//	@Summary		Move a worklog onto a board
//	@Tags			worklogs
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Worklog id"
//	@Param			body	body		MoveWorklogRequest	true	"Target board"
//	@Success		200		{object}	MoveWorklogResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/worklogs/{id}/move [post]
func (h *Handler) MoveWorklog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req MoveWorklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Board == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("board is required"))
		return
	}
	if err := h.svc.MoveTo(r.Context(), req.Board, id); err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidBoard):
			writeJSON(w, http.StatusBadRequest, errorBody("invalid board"))
		case errors.Is(err, apperr.ErrUnknownWorklog):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrAlreadyLinked):
			writeJSON(w, http.StatusConflict, errorBody("pointer name occupied"))
		default:
			slog.Error("move worklog failed", slog.String("id", id), slog.String("board", req.Board), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if h.events != nil {
		h.events.PublishChange(sse.Moved(id, req.Board))
	}
	writeJSON(w, http.StatusOK, MoveWorklogResponse{ID: id, Board: req.Board})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
