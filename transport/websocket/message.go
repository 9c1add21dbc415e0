package websocket

import (
	"encoding/json"

	"github.com/playloop/tictactoe-server/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound actions.
const (
	ActionLobbyList   = "lobby:list"
	ActionRoomCreate  = "room:create"
	ActionRoomJoin    = "room:join"
	ActionRoomState   = "room:state"
	ActionGameMove    = "game:move"
	ActionGameRematch = "game:rematch"
	ActionChatMessage = "chat:message"
)

// Outbound actions.
const (
	ActionConnected          = "connected"
	ActionLobbyUpdate        = "lobby:update"
	ActionRoomCreated        = "room:created"
	ActionRoomJoined         = "room:joined"
	ActionRoomJoinError      = "room:join-error"
	ActionRoomError          = "room:error"
	ActionPlayersUpdate      = "players:update"
	ActionGameStart          = "game:start"
	ActionGameError          = "game:error"
	ActionGameTurn           = "game:turn"
	ActionGameOver           = "game:over"
	ActionRematchStatus      = "rematch:status"
	ActionPlayerDisconnected = "player:disconnected"
)

// Rematch status values carried by ActionRematchStatus.
const (
	rematchStatusWaiting           = "waiting-for-opponent"
	rematchStatusOpponentRequested = "opponent-requested"
	rematchStatusError             = "error"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

type roomRequest struct {
	RoomID string `json:"roomId"`
}

type moveRequest struct {
	RoomID string `json:"roomId"`
	Cell   *int   `json:"cell"`
}

type chatRequest struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type connectedPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Session  string `json:"session"`
}

type roomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// playerView is the per-player slice of room state clients render.
type playerView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Symbol   string `json:"symbol,omitempty"`
}

type gameStatePayload struct {
	Board   entity.Board `json:"board"`
	Turn    string       `json:"turn,omitempty"`
	Status  string       `json:"status"`
	Winner  string       `json:"winner,omitempty"`
	Players []playerView `json:"players"`
}

type boardPayload struct {
	Board entity.Board `json:"board"`
}

type turnPayload struct {
	Turn string `json:"turn"`
}

type gameOverPayload struct {
	Winner string `json:"winner"`
}

type rematchStatusPayload struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type chatMessagePayload struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

func playerViews(room *entity.Room) []playerView {
	views := make([]playerView, 0, len(room.Players))
	for _, player := range room.Players {
		views = append(views, playerView{
			UserID:   player.UserID,
			Username: player.Username,
			Symbol:   room.Symbols[player.UserID],
		})
	}

	return views
}

func gameState(room *entity.Room) gameStatePayload {
	return gameStatePayload{
		Board:   room.Board,
		Turn:    room.Turn,
		Status:  room.Status,
		Winner:  room.Winner,
		Players: playerViews(room),
	}
}
