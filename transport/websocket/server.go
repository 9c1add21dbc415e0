package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playloop/tictactoe-server/internal/entity"
	"github.com/playloop/tictactoe-server/internal/game"
	"github.com/playloop/tictactoe-server/internal/service"
)

type gameCoordinator interface {
	CreateRoom(userID, username, connectionID, name string) *entity.Room
	JoinRoom(roomID, userID, username, connectionID string) (*game.JoinResult, error)
	MakeMove(roomID, userID string, cell int) (*game.MoveResult, error)
	RequestRematch(roomID, userID string) (*game.RematchResult, error)
	HandleDisconnect(connectionID string) *game.DisconnectResult
	UpdateConnection(userID, newConnectionID string) bool
	AvailableRooms() []entity.RoomSummary
	Room(roomID string) (*entity.Room, bool)
}

type authService interface {
	VerifyToken(tokenString string) (*service.TokenClaims, error)
}

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	GetByToken(ctx context.Context, token string) (*entity.Session, error)
}

// client is one authenticated WebSocket connection.
type client struct {
	id       string
	userID   string
	username string
	session  string

	conn    *websocket.Conn
	writeMu sync.Mutex
}

// send writes one message; gorilla connections allow a single concurrent
// writer, so writes are serialized per client.
func (that *client) send(action string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

type Server struct {
	logger *slog.Logger

	coordinator gameCoordinator
	auth        authService
	sessions    sessionRepo
	sessionTTL  time.Duration

	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[string]*client

	handlers map[string]func(ctx context.Context, c *client, message *Message) error
}

func New(logger *slog.Logger, coordinator gameCoordinator, auth authService, sessions sessionRepo, sessionTTL time.Duration) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),

		coordinator: coordinator,
		auth:        auth,
		sessions:    sessions,
		sessionTTL:  sessionTTL,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin is allowed; the browser client is served from
			// a different origin and identity comes from the token.
			CheckOrigin: func(*http.Request) bool { return true },
		},

		clients:  make(map[string]*client),
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[ActionLobbyList] = server.handleLobbyList
	server.handlers[ActionRoomCreate] = server.handleCreateRoom
	server.handlers[ActionRoomJoin] = server.handleJoinRoom
	server.handlers[ActionRoomState] = server.handleRoomState
	server.handlers[ActionGameMove] = server.handleGameMove
	server.handlers[ActionGameRematch] = server.handleGameRematch
	server.handlers[ActionChatMessage] = server.handleChatMessage

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - authenticates the handshake, upgrades the connection
// and runs its read loop until the client goes away.
func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	identity, sessionToken, err := that.authenticate(ctx, req)
	if err != nil {
		log.Warn("rejected unauthenticated connection", "error", err)
		http.Error(writer, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:       uuid.NewString(),
		userID:   identity.UserID,
		username: identity.Username,
		session:  sessionToken,
		conn:     conn,
	}

	that.clientsMu.Lock()
	that.clients[c.id] = c
	that.clientsMu.Unlock()

	// An already-known user gets its room binding moved to this connection
	// before any event can target the stale one.
	that.coordinator.UpdateConnection(c.userID, c.id)

	log.Info("WebSocket connection established", "userID", c.userID, "connectionID", c.id)

	if err = c.send(ActionConnected, connectedPayload{
		UserID:   c.userID,
		Username: c.username,
		Session:  c.session,
	}); err != nil {
		log.Error("failed to send connected message", "error", err)
	}

	that.readLoop(ctx, c)
}

// authenticate resolves the connection identity from a JWT (fresh login)
// or a session token issued on a previous connection.
func (that *Server) authenticate(ctx context.Context, req *http.Request) (*service.TokenClaims, string, error) {
	if tokenString := req.URL.Query().Get("token"); tokenString != "" {
		claims, err := that.auth.VerifyToken(tokenString)
		if err != nil {
			return nil, "", fmt.Errorf("token rejected: %w", err)
		}

		sessionToken := uuid.NewString()
		session := &entity.Session{
			Token:    sessionToken,
			UserID:   claims.UserID,
			Username: claims.Username,
		}
		if err = that.sessions.Save(ctx, session, that.sessionTTL); err != nil {
			return nil, "", fmt.Errorf("failed to save session: %w", err)
		}

		return claims, sessionToken, nil
	}

	if sessionToken := req.URL.Query().Get("session"); sessionToken != "" {
		session, err := that.sessions.GetByToken(ctx, sessionToken)
		if err != nil {
			return nil, "", fmt.Errorf("session rejected: %w", err)
		}

		// Sliding expiration: a reconnect refreshes the window.
		if err = that.sessions.Save(ctx, session, that.sessionTTL); err != nil {
			return nil, "", fmt.Errorf("failed to refresh session: %w", err)
		}

		return &service.TokenClaims{UserID: session.UserID, Username: session.Username}, sessionToken, nil
	}

	return nil, "", fmt.Errorf("no token or session supplied")
}

// readLoop - processes messages from the client until the connection drops.
func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "connectionID", c.id)

	defer that.disconnect(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// disconnect tears the connection down and lets the coordinator settle
// the player's room.
func (that *Server) disconnect(c *client) {
	log := that.logger.With("method", "disconnect", "connectionID", c.id)

	_ = c.conn.Close()

	that.clientsMu.Lock()
	delete(that.clients, c.id)
	that.clientsMu.Unlock()

	result := that.coordinator.HandleDisconnect(c.id)
	if !result.Affected {
		log.Info("player disconnected", "userID", c.userID)
		return
	}

	if result.Abandoned {
		message := fmt.Sprintf("Opponent (%s) disconnected. Game ended.", result.DisconnectedUsername)
		that.sendTo(result.RemainingConnectionID, ActionPlayerDisconnected, errorPayload{Message: message})
	}

	that.broadcastLobby()

	log.Info("player disconnected", "userID", c.userID, "roomID", result.RoomID, "roomDeleted", result.RoomDeleted)
}

// sendTo delivers one message to one connection; a missing connection is
// normal during disconnect races.
func (that *Server) sendTo(connectionID, action string, payload any) {
	that.clientsMu.RLock()
	c, ok := that.clients[connectionID]
	that.clientsMu.RUnlock()

	if !ok {
		return
	}

	if err := c.send(action, payload); err != nil {
		that.logger.Error("failed to send message", "connectionID", connectionID, "action", action, "error", err)
	}
}

// sendToRoom delivers a message to every player in the room snapshot.
func (that *Server) sendToRoom(room *entity.Room, action string, payload any) {
	for _, player := range room.Players {
		that.sendTo(player.ConnectionID, action, payload)
	}
}

// broadcastLobby pushes the joinable-room snapshot to every connection.
func (that *Server) broadcastLobby() {
	rooms := that.coordinator.AvailableRooms()

	that.clientsMu.RLock()
	clients := make([]*client, 0, len(that.clients))
	for _, c := range that.clients {
		clients = append(clients, c)
	}
	that.clientsMu.RUnlock()

	for _, c := range clients {
		if err := c.send(ActionLobbyUpdate, rooms); err != nil {
			that.logger.Error("failed to send lobby update", "connectionID", c.id, "error", err)
		}
	}
}
