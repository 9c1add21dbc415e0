package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playloop/tictactoe-server/internal/entity"
	"github.com/playloop/tictactoe-server/internal/game"
	"github.com/playloop/tictactoe-server/internal/repository"
	"github.com/playloop/tictactoe-server/internal/service"
)

// stubAuth accepts exactly one token string.
type stubAuth struct {
	token  string
	claims *service.TokenClaims
}

func (that *stubAuth) VerifyToken(tokenString string) (*service.TokenClaims, error) {
	if tokenString != that.token {
		return nil, fmt.Errorf("token rejected")
	}

	return that.claims, nil
}

// stubSessions is an in-memory session repo.
type stubSessions struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: make(map[string]*entity.Session)}
}

func (that *stubSessions) Save(_ context.Context, session *entity.Session, _ time.Duration) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.Token] = session

	return nil
}

func (that *stubSessions) GetByToken(_ context.Context, token string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[token]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}

	return session, nil
}

func newWSTestServer(t *testing.T) (*httptest.Server, *stubSessions) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auth := &stubAuth{
		token:  "good-token",
		claims: &service.TokenClaims{UserID: "42", Username: "Alice"},
	}
	sessions := newStubSessions()
	coordinator := game.NewCoordinator(logger, repository.NewRoomStore())

	server := New(logger, coordinator, auth, sessions, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.serveConnection(ctx, w, r)
	}))
	t.Cleanup(ts.Close)

	return ts, sessions
}

func wsURL(ts *httptest.Server, query string) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "?" + query
}

func readEvent(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	return &message
}

func TestServer_Handshake(t *testing.T) {
	t.Run("Bad token is rejected before the upgrade", func(t *testing.T) {
		// Given: a running server
		ts, _ := newWSTestServer(t)

		// When: dialing with a broken token
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "token=broken"), nil)

		// Then: the handshake fails with 401
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, conn)
	})

	t.Run("Missing credentials are rejected", func(t *testing.T) {
		ts, _ := newWSTestServer(t)

		_, resp, err := websocket.DefaultDialer.Dial(strings.Replace(ts.URL, "http", "ws", 1), nil)

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid token connects and issues a session", func(t *testing.T) {
		// Given: a running server
		ts, sessions := newWSTestServer(t)

		// When: dialing with the accepted token
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "token=good-token"), nil)
		require.NoError(t, err)
		defer conn.Close()

		// Then: the first event carries the identity and a session token
		event := readEvent(t, conn)
		require.Equal(t, ActionConnected, event.Action)

		var payload connectedPayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "42", payload.UserID)
		assert.Equal(t, "Alice", payload.Username)
		require.NotEmpty(t, payload.Session)

		stored, err := sessions.GetByToken(context.Background(), payload.Session)
		require.NoError(t, err)
		assert.Equal(t, "42", stored.UserID)
	})

	t.Run("Session token restores the identity", func(t *testing.T) {
		// Given: a session issued on a previous connection
		ts, sessions := newWSTestServer(t)

		err := sessions.Save(context.Background(), &entity.Session{
			Token:    "session-1",
			UserID:   "42",
			Username: "Alice",
		}, time.Minute)
		require.NoError(t, err)

		// When: dialing with the session token instead of a JWT
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "session=session-1"), nil)
		require.NoError(t, err)
		defer conn.Close()

		// Then: the identity comes back under the same session
		event := readEvent(t, conn)
		require.Equal(t, ActionConnected, event.Action)

		var payload connectedPayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "42", payload.UserID)
		assert.Equal(t, "session-1", payload.Session)
	})
}

func TestServer_RoomActions(t *testing.T) {
	t.Run("Create room round trip", func(t *testing.T) {
		// Given: a connected client
		ts, _ := newWSTestServer(t)

		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "token=good-token"), nil)
		require.NoError(t, err)
		defer conn.Close()

		readEvent(t, conn) // connected

		// When: creating a room
		payload, err := json.Marshal(createRoomRequest{Name: "My Game"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(Message{Action: ActionRoomCreate, Payload: payload}))

		// Then: the room id comes back, followed by the lobby snapshot
		event := readEvent(t, conn)
		require.Equal(t, ActionRoomCreated, event.Action)

		var created roomCreatedPayload
		require.NoError(t, json.Unmarshal(event.Payload, &created))
		assert.Len(t, created.RoomID, 5)

		event = readEvent(t, conn)
		require.Equal(t, ActionLobbyUpdate, event.Action)

		var rooms []entity.RoomSummary
		require.NoError(t, json.Unmarshal(event.Payload, &rooms))
		require.Len(t, rooms, 1)
		assert.Equal(t, created.RoomID, rooms[0].ID)
		assert.Equal(t, "My Game", rooms[0].Name)
	})

	t.Run("Joining an unknown room reports the reason", func(t *testing.T) {
		ts, _ := newWSTestServer(t)

		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "token=good-token"), nil)
		require.NoError(t, err)
		defer conn.Close()

		readEvent(t, conn) // connected

		payload, err := json.Marshal(roomRequest{RoomID: "ZZZZZ"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(Message{Action: ActionRoomJoin, Payload: payload}))

		event := readEvent(t, conn)
		require.Equal(t, ActionRoomJoinError, event.Action)

		var failure errorPayload
		require.NoError(t, json.Unmarshal(event.Payload, &failure))
		assert.Equal(t, "room not found", failure.Message)
	})
}
