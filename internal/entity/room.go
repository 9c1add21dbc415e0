package entity

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in-progress"
	StatusFinished   = "finished"
	StatusAbandoned  = "abandoned"
)

const (
	DefaultRoomName = "Unnamed Game"
	MaxPlayers      = 2
)

// Player is a participant of a single room. ConnectionID is the transport
// connection the player is currently reachable on; it changes on reconnect.
type Player struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	ConnectionID string `json:"-"`
}

// Room is one two-player match. Player order is meaningful: the first
// entry owns the X symbol and the first turn.
type Room struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Players         []*Player           `json:"players"`
	Board           Board               `json:"board"`
	Turn            string              `json:"turn,omitempty"`
	Winner          string              `json:"winner,omitempty"`
	Status          string              `json:"status"`
	Symbols         map[string]string   `json:"symbols,omitempty"`
	RematchRequests map[string]struct{} `json:"-"`
}

// RoomSummary is the lobby-facing view of a joinable room.
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Status      string `json:"status"`
}

func NewRoom(id, name string, creator *Player) *Room {
	if name == "" {
		name = DefaultRoomName
	}

	return &Room{
		ID:              id,
		Name:            name,
		Players:         []*Player{creator},
		Turn:            creator.UserID,
		Status:          StatusWaiting,
		Symbols:         make(map[string]string),
		RematchRequests: make(map[string]struct{}),
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Room) IsAbandoned() bool {
	return that.Status == StatusAbandoned
}

// PlayerByUserID returns the player entry for userID, or nil.
func (that *Room) PlayerByUserID(userID string) *Player {
	for _, player := range that.Players {
		if player.UserID == userID {
			return player
		}
	}

	return nil
}

// PlayerIndexByConnection returns the index of the player bound to
// connectionID, or -1.
func (that *Room) PlayerIndexByConnection(connectionID string) int {
	for i, player := range that.Players {
		if player.ConnectionID == connectionID {
			return i
		}
	}

	return -1
}

// OpponentOf returns the other player, or nil when the room has fewer
// than two players.
func (that *Room) OpponentOf(userID string) *Player {
	for _, player := range that.Players {
		if player.UserID != userID {
			return player
		}
	}

	return nil
}

// Start begins the match once the second player has joined: symbols are
// assigned in join order, the board is cleared and the first player moves.
func (that *Room) Start() {
	that.Symbols = map[string]string{
		that.Players[0].UserID: SymbolX,
		that.Players[1].UserID: SymbolO,
	}
	that.Board = Board{}
	that.Winner = ""
	that.Turn = that.Players[0].UserID
	that.Status = StatusInProgress
	that.RematchRequests = make(map[string]struct{})
}

// Reset restarts a finished or abandoned room for a rematch. The room
// identity and player order persist; the first player starts again.
func (that *Room) Reset() {
	that.Board = Board{}
	that.Winner = ""
	that.Turn = that.Players[0].UserID
	that.Status = StatusInProgress
	that.RematchRequests = make(map[string]struct{})
}

// RemovePlayer drops the player at index i, keeping join order, and
// discards any rematch vote they had cast.
func (that *Room) RemovePlayer(i int) *Player {
	removed := that.Players[i]
	that.Players = append(that.Players[:i], that.Players[i+1:]...)
	delete(that.RematchRequests, removed.UserID)

	return removed
}

// AllRematchVotes reports whether every current player has requested a
// rematch.
func (that *Room) AllRematchVotes() bool {
	for _, player := range that.Players {
		if _, ok := that.RematchRequests[player.UserID]; !ok {
			return false
		}
	}

	return true
}

// Summary returns the lobby view of the room.
func (that *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:          that.ID,
		Name:        that.Name,
		PlayerCount: len(that.Players),
		Status:      that.Status,
	}
}

// Clone returns a deep copy safe to hand to the transport layer while the
// original keeps being mutated under the coordinator lock.
func (that *Room) Clone() *Room {
	clone := *that

	clone.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		clone.Players[i] = &copied
	}

	clone.Symbols = make(map[string]string, len(that.Symbols))
	for userID, symbol := range that.Symbols {
		clone.Symbols[userID] = symbol
	}

	clone.RematchRequests = make(map[string]struct{}, len(that.RematchRequests))
	for userID := range that.RematchRequests {
		clone.RematchRequests[userID] = struct{}{}
	}

	return &clone
}
