package game

import "github.com/playloop/tictactoe-server/internal/entity"

// Result values carry deep copies of room state. The transport layer maps
// them to outbound events; it never touches live rooms.

type JoinResult struct {
	Room *entity.Room

	// Rejoined is set when an existing player re-identified itself and only
	// its connection binding changed.
	Rejoined bool

	// Started is set when this join filled the room and began the match.
	Started bool
}

type MoveResult struct {
	Room *entity.Room

	Board entity.Board

	// Winner is SymbolX, SymbolO or WinnerDraw once the move ended the
	// game, empty otherwise.
	Winner string

	// Turn is the userId allowed to move next; empty once the game is over.
	Turn string

	GameOver bool
}

type RematchResult struct {
	Room *entity.Room

	// BothRequested is set when this vote completed the handshake and the
	// room was reset for a fresh game.
	BothRequested bool

	// Opponent identifies the other player while waiting for their vote,
	// so the caller can notify them of the pending request.
	OpponentUserID       string
	OpponentConnectionID string
}

type DisconnectResult struct {
	// Affected is unset when the connection was not bound to any room.
	Affected bool

	RoomID      string
	RoomDeleted bool

	// Abandoned is set when an in-progress game lost one of its two
	// players; the remaining player should be notified.
	Abandoned             bool
	RemainingUserID       string
	RemainingConnectionID string

	DisconnectedUserID   string
	DisconnectedUsername string
}
