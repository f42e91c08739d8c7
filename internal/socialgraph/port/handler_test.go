package port_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averso/socialstore/internal/domain"
	"github.com/averso/socialstore/internal/domain/domaintest"
	"github.com/averso/socialstore/internal/socialgraph/app"
	"github.com/averso/socialstore/internal/socialgraph/port"
)

// memStore keeps the committed document in memory with the same copy
// semantics as the file adapter: Load hands out a deep copy, Persist
// replaces the committed document.
type memStore struct {
	committed *domain.Document
}

func (s *memStore) Load(context.Context) (*domain.Document, error) {
	return s.copyDoc(s.committed), nil
}

func (s *memStore) Persist(_ context.Context, doc *domain.Document) error {
	s.committed = s.copyDoc(doc)
	return nil
}

func (s *memStore) copyDoc(doc *domain.Document) *domain.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var out domain.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type testServer struct {
	*httptest.Server
	store *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &memStore{
		committed: &domain.Document{
			Info:  domain.DefaultLimits(),
			Users: []domain.User{},
			Chats: []domain.Chat{},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.NewService(app.ServiceConfig{
		Store:  store,
		Clock:  domaintest.NewFakeClock(time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)),
		Logger: logger,
	})

	router := chi.NewRouter()
	port.NewHandler(svc, logger).Mount(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

// do sends a JSON request and decodes the JSON response body.
func (ts *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// registerUser registers a user over HTTP and returns its ID.
func (ts *testServer) registerUser(t *testing.T, name string) string {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/users", map[string]any{"name": name, "pass": "pass01"})
	require.Equal(t, http.StatusCreated, status)
	id, ok := body["userId"].(string)
	require.True(t, ok)
	return id
}

// createChat creates a chat over HTTP and returns its ID.
func (ts *testServer) createChat(t *testing.T, name string, members ...string) string {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/chats", map[string]any{"name": name, "users": members})
	require.Equal(t, http.StatusCreated, status)
	id, ok := body["chatId"].(string)
	require.True(t, ok)
	return id
}

// errorCode extracts the machine-checkable code from an error response.
func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response must carry an error object: %v", body)
	code, ok := errObj["code"].(string)
	require.True(t, ok)
	require.NotEmpty(t, errObj["message"])
	return code
}

func TestReadEndpoint(t *testing.T) {
	t.Run("returns the value at the path", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodGet, "/api/read?path=info.minUsernameLength", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(4), body["value"])
	})

	t.Run("slash separators work", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "User0")

		status, body := ts.do(t, http.MethodGet, "/api/read?path=users/0/name", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "User0", body["value"])
	})

	t.Run("missing value is 404", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodGet, "/api/read?path=info.noSuchLimit", nil)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NO_VALUE_AT_PATH", errorCode(t, body))
	})

	t.Run("missing path parameter is 400", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodGet, "/api/read", nil)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "PATH_REQUIRED", errorCode(t, body))
	})
}

func TestWriteEndpoint(t *testing.T) {
	t.Run("writes and confirms", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodPost, "/api/write", map[string]any{
			"path":  "info.maxChatUserCount",
			"value": 250,
		})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, `"250" successfully written to "info.maxChatUserCount"`, body["message"])
		assert.Equal(t, 250, ts.store.committed.Info.MaxChatUserCount)
	})

	t.Run("missing parent is 400", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodPost, "/api/write", map[string]any{
			"path":  "users.0.name",
			"value": "ghost",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "MISSING_PARENT", errorCode(t, body))
	})

	t.Run("schema-breaking value is 400", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodPost, "/api/write", map[string]any{
			"path":  "users",
			"value": "not a list",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, body))
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := ts.Client().Post(ts.URL+"/api/write", "application/json", bytes.NewReader([]byte("{nope")))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUserEndpoints(t *testing.T) {
	t.Run("register then login", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "User0")

		status, body := ts.do(t, http.MethodPost, "/api/login", map[string]any{"name": "User0", "pass": "pass01"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ok"])

		status, body = ts.do(t, http.MethodPost, "/api/login", map[string]any{"name": "User0", "pass": "wrong1"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["ok"])
	})

	t.Run("register with short username is 400", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodPost, "/api/users", map[string]any{"name": "abc", "pass": "pass01"})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, body))
	})

	t.Run("change password", func(t *testing.T) {
		ts := newTestServer(t)
		id := ts.registerUser(t, "User0")

		status, body := ts.do(t, http.MethodPut, "/api/users/"+id+"/password", map[string]any{"pass": "next-pass"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])

		status, body = ts.do(t, http.MethodPost, "/api/login", map[string]any{"name": "User0", "pass": "next-pass"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ok"])
	})

	t.Run("malformed user ID in path is 400", func(t *testing.T) {
		ts := newTestServer(t)

		status, body := ts.do(t, http.MethodPut, "/api/users/not-a-uuid/password", map[string]any{"pass": "next-pass"})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, body))
	})
}

func TestChatEndpoints(t *testing.T) {
	t.Run("create chat and manage members", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		c := ts.registerUser(t, "User2")
		chatID := ts.createChat(t, "trio", a, b)

		status, body := ts.do(t, http.MethodPost, "/api/chats/"+chatID+"/members", map[string]any{"userId": c})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])

		status, body = ts.do(t, http.MethodPost, "/api/chats/"+chatID+"/members", map[string]any{"userId": c})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "ALREADY_MEMBER", errorCode(t, body))

		status, _ = ts.do(t, http.MethodDelete, "/api/chats/"+chatID+"/members/"+c, nil)
		assert.Equal(t, http.StatusOK, status)

		status, body = ts.do(t, http.MethodDelete, "/api/chats/"+chatID+"/members/"+c, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "NOT_MEMBER", errorCode(t, body))
	})

	t.Run("unknown chat is 404", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		ghost := domain.GenerateChatID().String()

		status, body := ts.do(t, http.MethodPost, "/api/chats/"+ghost+"/members", map[string]any{"userId": a})

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", errorCode(t, body))
	})

	t.Run("chat with unknown member is 404", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")

		status, body := ts.do(t, http.MethodPost, "/api/chats", map[string]any{
			"name":  "orphans",
			"users": []string{a, domain.GenerateUserID().String()},
		})

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", errorCode(t, body))
	})
}

func TestMessageEndpoints(t *testing.T) {
	t.Run("send then fetch with count", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		chatID := ts.createChat(t, "pair", a, b)

		for i := 0; i < 3; i++ {
			status, _ := ts.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", map[string]any{
				"userId": a,
				"body":   fmt.Sprintf("msg-%d", i),
			})
			require.Equal(t, http.StatusCreated, status)
		}

		status, body := ts.do(t, http.MethodGet, "/api/chats/"+chatID+"/messages?count=2", nil)
		require.Equal(t, http.StatusOK, status)
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		first := messages[0].(map[string]any)
		assert.Equal(t, "msg-1", first["body"])
		assert.Equal(t, a, first["senderUserId"])
	})

	t.Run("count defaults when absent", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		chatID := ts.createChat(t, "pair", a, b)

		status, body := ts.do(t, http.MethodGet, "/api/chats/"+chatID+"/messages", nil)

		require.Equal(t, http.StatusOK, status)
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Empty(t, messages)
	})

	t.Run("non-integer count is 400", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		chatID := ts.createChat(t, "pair", a, b)

		status, body := ts.do(t, http.MethodGet, "/api/chats/"+chatID+"/messages?count=lots", nil)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, body))
	})

	t.Run("non-member sender is 409", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		outsider := ts.registerUser(t, "User2")
		chatID := ts.createChat(t, "pair", a, b)

		status, body := ts.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", map[string]any{
			"userId": outsider,
			"body":   "let me in",
		})

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "NOT_MEMBER", errorCode(t, body))
	})
}

func TestFriendEndpoints(t *testing.T) {
	t.Run("request, accept, remove", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		pair := map[string]any{"from": a, "to": b}

		status, body := ts.do(t, http.MethodPost, "/api/friend-requests", pair)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])

		status, _ = ts.do(t, http.MethodPost, "/api/friend-requests/accept", pair)
		assert.Equal(t, http.StatusOK, status)

		status, body = ts.do(t, http.MethodGet, "/api/read?path=users/0/friends/0", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, b, body["value"])

		status, _ = ts.do(t, http.MethodDelete, "/api/friends", pair)
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, ts.store.committed.Users[0].Friends)
	})

	t.Run("deny clears the request", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")
		pair := map[string]any{"from": a, "to": b}

		status, _ := ts.do(t, http.MethodPost, "/api/friend-requests", pair)
		require.Equal(t, http.StatusOK, status)

		status, _ = ts.do(t, http.MethodPost, "/api/friend-requests/deny", pair)
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, ts.store.committed.Users[1].PendingRequests)
	})

	t.Run("accept with nothing pending is 409", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")
		b := ts.registerUser(t, "User1")

		status, body := ts.do(t, http.MethodPost, "/api/friend-requests/accept", map[string]any{"from": a, "to": b})

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "NO_PENDING_REQUEST", errorCode(t, body))
	})

	t.Run("self request is 400", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")

		status, body := ts.do(t, http.MethodPost, "/api/friend-requests", map[string]any{"from": a, "to": a})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "SELF_REQUEST", errorCode(t, body))
	})

	t.Run("malformed ID is 400", func(t *testing.T) {
		ts := newTestServer(t)
		a := ts.registerUser(t, "User0")

		status, body := ts.do(t, http.MethodPost, "/api/friend-requests", map[string]any{"from": a, "to": "not-a-uuid"})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, body))
	})
}
