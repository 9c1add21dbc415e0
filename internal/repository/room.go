package repository

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/playloop/tictactoe-server/internal/entity"
)

const (
	roomKeyLength   = 5
	roomKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RoomStore is the in-memory registry of active rooms. It exclusively owns
// every Room instance; callers must not retain Room pointers across
// operations that may delete the room.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*entity.Room),
	}
}

// Create registers a new waiting room for the creator and returns it. The
// room key is unique among currently live rooms; keys of deleted rooms may
// be reused.
func (that *RoomStore) Create(creator *entity.Player, name string) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := newRoomKey()
	for _, taken := that.rooms[id]; taken; _, taken = that.rooms[id] {
		id = newRoomKey()
	}

	room := entity.NewRoom(id, name, creator)
	that.rooms[id] = room

	return room
}

// Get looks up a room by id. Absence is a normal outcome, not an error.
func (that *RoomStore) Get(id string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]

	return room, ok
}

// Delete removes a room unconditionally. Deleting an absent room is a no-op.
func (that *RoomStore) Delete(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)
}

// ListAvailable returns lobby summaries of every waiting room that still
// has a free seat.
func (that *RoomStore) ListAvailable() []entity.RoomSummary {
	that.mu.RLock()
	defer that.mu.RUnlock()

	available := make([]entity.RoomSummary, 0)
	for _, room := range that.rooms {
		if room.IsWaiting() && len(room.Players) < entity.MaxPlayers {
			available = append(available, room.Summary())
		}
	}

	return available
}

// FindByConnection returns the first room containing a player bound to
// connectionID, together with that player's index.
func (that *RoomStore) FindByConnection(connectionID string) (*entity.Room, int) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, room := range that.rooms {
		if i := room.PlayerIndexByConnection(connectionID); i != -1 {
			return room, i
		}
	}

	return nil, -1
}

// FindByUser returns the room containing a player with userID, or nil.
func (that *RoomStore) FindByUser(userID string) *entity.Room {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, room := range that.rooms {
		if room.PlayerByUserID(userID) != nil {
			return room
		}
	}

	return nil
}

func (that *RoomStore) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// newRoomKey generates a short room key of the kind players type in by hand.
func newRoomKey() string {
	key := make([]byte, roomKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomKeyAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}
		key[i] = roomKeyAlphabet[n.Int64()]
	}

	return string(key)
}
