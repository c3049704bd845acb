package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/worklog/internal/ident"
	"github.com/example/worklog/internal/sse"
	"github.com/example/worklog/internal/testutil"
	"github.com/example/worklog/internal/worklog"
)

// testEnv sets up a temp store, service, and router for testing.
// authEnabled=false means disabled mode; a non-empty token means token mode.
func testEnv(t *testing.T, authToken string) (*worklog.Service, http.Handler) {
	t.Helper()
	svc, router, _ := testEnvWithRoot(t, authToken != "", authToken)
	return svc, router
}

func testEnvWithRoot(t *testing.T, authEnabled bool, authToken string) (*worklog.Service, http.Handler, string) {
	t.Helper()

	svc := testutil.TestService(t)
	router := NewRouter(svc, nil, authEnabled, authToken, nil)
	return svc, router, svc.Root()
}

func createWorklog(t *testing.T, router http.Handler, title, body string) WorklogDetail {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"title": title, "body": body})
	req := httptest.NewRequest(http.MethodPost, "/worklogs", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail WorklogDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	return detail
}

func TestCreateAndGetWorklog(t *testing.T) {
	_, router := testEnv(t, "")

	detail := createWorklog(t, router, "Fix the build", "The nightly job is red.\n")
	if !ident.Valid(detail.ID) {
		t.Fatalf("created id = %q, want a well-formed id", detail.ID)
	}
	if detail.Title != "Fix the build" {
		t.Errorf("title = %q, want Fix the build", detail.Title)
	}
	if detail.State != "todo" {
		t.Errorf("state = %q, want todo", detail.State)
	}
	if len(detail.Checksum) != 64 {
		t.Errorf("checksum = %q, want 64 hex chars", detail.Checksum)
	}

	req := httptest.NewRequest(http.MethodGet, "/worklogs/"+detail.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got WorklogDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != detail.ID || got.Checksum != detail.Checksum {
		t.Errorf("get = %+v, want same id and checksum as create", got)
	}
}

func TestCreateWorklog_MissingTitle(t *testing.T) {
	_, router := testEnv(t, "")

	payload, _ := json.Marshal(map[string]string{"body": "no title"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without title = %d, want 400", w.Code)
	}
}

func TestCreateWorklog_InvalidJSON(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/worklogs", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("create with bad JSON = %d, want 400", w.Code)
	}
}

func TestGetWorklog_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	for _, id := range []string{"0000-0000000000", "not-an-id"} {
		req := httptest.NewRequest(http.MethodGet, "/worklogs/"+id, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("get %q = %d, want 404", id, w.Code)
		}
	}
}

func TestGetBoards(t *testing.T) {
	_, router := testEnv(t, "")

	first := createWorklog(t, router, "First", "")
	second := createWorklog(t, router, "Second", "")

	movePayload, _ := json.Marshal(map[string]string{"board": "done"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs/"+second.ID+"/move", bytes.NewReader(movePayload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/boards", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("boards status = %d", w.Code)
	}
	var snap SnapshotResponse
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	if len(snap.Boards) != 3 {
		t.Fatalf("boards = %d, want 3", len(snap.Boards))
	}
	order := []string{"todo", "doing", "done"}
	for i, want := range order {
		if string(snap.Boards[i].Board) != want {
			t.Errorf("boards[%d] = %s, want %s", i, snap.Boards[i].Board, want)
		}
	}
	if len(snap.Boards[0].Entries) != 1 || snap.Boards[0].Entries[0].ID != first.ID {
		t.Errorf("todo = %+v, want only %s", snap.Boards[0].Entries, first.ID)
	}
	if len(snap.Boards[2].Entries) != 1 || snap.Boards[2].Entries[0].ID != second.ID {
		t.Errorf("done = %+v, want only %s", snap.Boards[2].Entries, second.ID)
	}
}

func TestGetBoard(t *testing.T) {
	_, router := testEnv(t, "")

	detail := createWorklog(t, router, "On todo", "")

	req := httptest.NewRequest(http.MethodGet, "/boards/todo", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("board status = %d", w.Code)
	}
	var resp BoardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Board != "todo" {
		t.Errorf("board = %q, want todo", resp.Board)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].ID != detail.ID {
		t.Errorf("entries = %+v, want only %s", resp.Entries, detail.ID)
	}
}

func TestGetBoard_Invalid(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/boards/backlog", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid board = %d, want 400", w.Code)
	}
}

func TestMoveWorklog(t *testing.T) {
	_, router := testEnv(t, "")

	detail := createWorklog(t, router, "Mover", "")

	payload, _ := json.Marshal(map[string]string{"board": "doing"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs/"+detail.ID+"/move", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("move = %d, body = %s", w.Code, w.Body.String())
	}
	var resp MoveWorklogResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID != detail.ID || resp.Board != "doing" {
		t.Errorf("move response = %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/worklogs/"+detail.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var got WorklogDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.State != "doing" {
		t.Errorf("state after move = %q, want doing", got.State)
	}
}

func TestMoveWorklog_InvalidBoard(t *testing.T) {
	_, router := testEnv(t, "")

	detail := createWorklog(t, router, "Stuck", "")

	payload, _ := json.Marshal(map[string]string{"board": "shipped"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs/"+detail.ID+"/move", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("move to invalid board = %d, want 400", w.Code)
	}
}

func TestMoveWorklog_Unknown(t *testing.T) {
	_, router := testEnv(t, "")

	payload, _ := json.Marshal(map[string]string{"board": "doing"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs/0000-0000000000/move", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("move unknown = %d, want 404", w.Code)
	}
}

func TestMoveWorklog_MissingBoard(t *testing.T) {
	_, router := testEnv(t, "")

	detail := createWorklog(t, router, "No target", "")

	req := httptest.NewRequest(http.MethodPost, "/worklogs/"+detail.ID+"/move", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("move without board = %d, want 400", w.Code)
	}
}

func TestMoveWorklog_ConflictOnOccupiedName(t *testing.T) {
	_, router, root := testEnvWithRoot(t, false, "")

	detail := createWorklog(t, router, "Blocked", "")

	// A regular file squatting on the pointer name in the target board.
	squatter := filepath.Join(root, "doing", detail.ID+".md")
	if err := os.WriteFile(squatter, []byte("squatter"), 0o644); err != nil {
		t.Fatal(err)
	}

	payload, _ := json.Marshal(map[string]string{"board": "doing"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs/"+detail.ID+"/move", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("move onto occupied name = %d, want 409", w.Code)
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	svc := testutil.TestService(t)
	broker := sse.NewBroker(time.Hour)
	defer broker.Close()
	router := NewRouter(svc, broker, false, "", nil)

	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	detail := createWorklog(t, router, "Event source", "")

	payload, _ := json.Marshal(map[string]string{"board": "doing"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs/"+detail.ID+"/move", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("move = %d", w.Code)
	}

	wantTypes := []string{"worklog.created", "worklog.moved"}
	var got []string
	deadline := time.After(2 * time.Second)
	for len(got) < len(wantTypes)+1 {
		select {
		case msg := <-ch:
			got = append(got, string(msg))
		case <-deadline:
			t.Fatalf("timed out with events %q", got)
		}
	}
	joined := strings.Join(got, "\n")
	for _, want := range wantTypes {
		if !strings.Contains(joined, "event: "+want) {
			t.Errorf("events missing %s:\n%s", want, joined)
		}
	}
	if !strings.Contains(joined, "event: boards.changed") {
		t.Errorf("events missing boards.changed:\n%s", joined)
	}
}

// Auth middleware tests.

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	payload, _ := json.Marshal(map[string]string{"title": "Authed"})
	req := httptest.NewRequest(http.MethodPost, "/worklogs", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("authed create = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")

	// No token → 401.
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}

// testEnvWithSSE creates a router with a stub SSE handler to test auth on /events.
func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()

	svc := testutil.TestService(t)

	// Minimal SSE handler stub: writes headers and blocks until context done.
	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})

	return NewRouter(svc, nil, authEnabled, token, sseHandler)
}
