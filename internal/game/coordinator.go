package game

import (
	"log/slog"
	"sync"

	"github.com/playloop/tictactoe-server/internal/apperror"
	"github.com/playloop/tictactoe-server/internal/entity"
	"github.com/playloop/tictactoe-server/internal/repository"
)

// Coordinator orchestrates the room store and the board rules on behalf of
// the transport layer. Every operation runs under a single mutex so that
// events for a room are applied strictly in the order they arrive; a move
// racing a disconnect can never observe a half-updated room.
type Coordinator struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms *repository.RoomStore
}

func NewCoordinator(logger *slog.Logger, rooms *repository.RoomStore) *Coordinator {
	return &Coordinator{
		logger: logger.With("component", "coordinator"),
		rooms:  rooms,
	}
}

// CreateRoom opens a new waiting room owned by the creator. It always
// succeeds.
func (that *Coordinator) CreateRoom(userID, username, connectionID, name string) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	creator := &entity.Player{
		UserID:       userID,
		Username:     username,
		ConnectionID: connectionID,
	}

	room := that.rooms.Create(creator, name)

	that.logger.Info("room created", "roomID", room.ID, "userID", userID)

	return room.Clone()
}

// JoinRoom admits a player into a room. A userId already present in the
// room is treated as a reconnection and only has its connection binding
// updated; this takes precedence over the full-room check, so a player
// returning to an abandoned room always succeeds.
func (that *Coordinator) JoinRoom(roomID, userID, username, connectionID string) (*JoinResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms.Get(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	if player := room.PlayerByUserID(userID); player != nil {
		player.ConnectionID = connectionID
		that.logger.Info("player rejoined room", "roomID", roomID, "userID", userID)

		return &JoinResult{Room: room.Clone(), Rejoined: true}, nil
	}

	if len(room.Players) >= entity.MaxPlayers {
		return nil, apperror.ErrRoomFull
	}

	// Defends against a join racing a room that already filled or moved on.
	if !room.IsWaiting() || len(room.Players) != 1 {
		return nil, apperror.ErrRoomNotJoinable
	}

	room.Players = append(room.Players, &entity.Player{
		UserID:       userID,
		Username:     username,
		ConnectionID: connectionID,
	})
	room.Start()

	that.logger.Info("player joined room, game started", "roomID", roomID, "userID", userID)

	return &JoinResult{Room: room.Clone(), Started: true}, nil
}

// MakeMove places the acting player's symbol and evaluates the board.
func (that *Coordinator) MakeMove(roomID, userID string, cell int) (*MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms.Get(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	if !room.IsInProgress() {
		return nil, apperror.ErrGameNotInProgress
	}

	if room.Turn != userID {
		return nil, apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= entity.BoardSize {
		return nil, apperror.ErrInvalidCell
	}

	if room.Board[cell] != entity.EmptyCell {
		return nil, apperror.ErrCellTaken
	}

	room.Board[cell] = room.Symbols[userID]

	result := &MoveResult{}

	switch winner := room.Board.Evaluate(); winner {
	case entity.EmptyCell:
		room.Turn = room.OpponentOf(userID).UserID
	default:
		// A winning symbol or a draw, either way the game is over.
		room.Status = entity.StatusFinished
		room.Winner = winner
		room.Turn = ""
		result.Winner = winner
		result.GameOver = true
	}

	result.Room = room.Clone()
	result.Board = room.Board
	result.Turn = room.Turn

	that.logger.Info("move made", "roomID", roomID, "userID", userID, "cell", cell, "gameOver", result.GameOver)

	return result, nil
}

// RequestRematch records a rematch vote. Once every current player has
// voted, the room resets destructively: same identity, fresh board, first
// player's turn.
func (that *Coordinator) RequestRematch(roomID, userID string) (*RematchResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms.Get(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	if len(room.Players) < entity.MaxPlayers {
		return nil, apperror.ErrInsufficientPlayers
	}

	if room.IsInProgress() {
		return nil, apperror.ErrGameStillActive
	}

	room.RematchRequests[userID] = struct{}{}

	if room.AllRematchVotes() {
		room.Reset()
		that.logger.Info("rematch accepted, room reset", "roomID", roomID)

		return &RematchResult{Room: room.Clone(), BothRequested: true}, nil
	}

	opponent := room.OpponentOf(userID)

	that.logger.Info("rematch requested, waiting for opponent", "roomID", roomID, "userID", userID)

	return &RematchResult{
		Room:                 room.Clone(),
		OpponentUserID:       opponent.UserID,
		OpponentConnectionID: opponent.ConnectionID,
	}, nil
}

// HandleDisconnect removes the player bound to connectionID from their
// room, if any. The emptied room is deleted; a half-abandoned in-progress
// game becomes abandoned so the survivor can be told.
func (that *Coordinator) HandleDisconnect(connectionID string) *DisconnectResult {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, i := that.rooms.FindByConnection(connectionID)
	if room == nil {
		return &DisconnectResult{}
	}

	removed := room.RemovePlayer(i)

	result := &DisconnectResult{
		Affected:             true,
		RoomID:               room.ID,
		DisconnectedUserID:   removed.UserID,
		DisconnectedUsername: removed.Username,
	}

	switch {
	case len(room.Players) == 0:
		that.rooms.Delete(room.ID)
		result.RoomDeleted = true
		that.logger.Info("room deleted, no players left", "roomID", room.ID)
	case len(room.Players) == 1 && room.IsInProgress():
		room.Status = entity.StatusAbandoned
		room.Turn = ""
		remaining := room.Players[0]
		result.Abandoned = true
		result.RemainingUserID = remaining.UserID
		result.RemainingConnectionID = remaining.ConnectionID
		that.logger.Info("room abandoned", "roomID", room.ID, "remainingUserID", remaining.UserID)
	default:
		that.logger.Info("player left waiting room", "roomID", room.ID, "userID", removed.UserID)
	}

	return result
}

// UpdateConnection rebinds userID to a new transport connection wherever
// they sit, so later disconnects and broadcasts target the live connection.
// Absence of the user in any room is a normal outcome.
func (that *Coordinator) UpdateConnection(userID, newConnectionID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	room := that.rooms.FindByUser(userID)
	if room == nil {
		return false
	}

	player := room.PlayerByUserID(userID)
	if player.ConnectionID == newConnectionID {
		return false
	}

	that.logger.Info("connection rebound", "roomID", room.ID, "userID", userID)
	player.ConnectionID = newConnectionID

	return true
}

// AvailableRooms returns the lobby snapshot of joinable rooms.
func (that *Coordinator) AvailableRooms() []entity.RoomSummary {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms.ListAvailable()
}

// Room returns a snapshot of a single room for state queries.
func (that *Coordinator) Room(roomID string) (*entity.Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms.Get(roomID)
	if !ok {
		return nil, false
	}

	return room.Clone(), true
}
