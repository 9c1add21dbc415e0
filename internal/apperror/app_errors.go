package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrRoomNotJoinable     = errors.New("room is not available for new players")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrCellTaken           = errors.New("cell is already taken")
	ErrInvalidCell         = errors.New("invalid cell index")
	ErrInsufficientPlayers = errors.New("not enough players in room")
	ErrGameStillActive     = errors.New("game is still in progress")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
)
