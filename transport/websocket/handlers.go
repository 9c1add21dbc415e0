package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func (that *Server) handleLobbyList(_ context.Context, c *client, _ *Message) error {
	if err := c.send(ActionLobbyUpdate, that.coordinator.AvailableRooms()); err != nil {
		return fmt.Errorf("failed to send lobby update: %w", err)
	}

	return nil
}

func (that *Server) handleCreateRoom(_ context.Context, c *client, msg *Message) error {
	// The payload is optional; an absent name falls back to the default.
	var req createRoomRequest
	if len(msg.Payload) > 0 {
		if err := unmarshalPayload(msg, &req); err != nil {
			return err
		}
	}

	room := that.coordinator.CreateRoom(c.userID, c.username, c.id, req.Name)

	if err := c.send(ActionRoomCreated, roomCreatedPayload{RoomID: room.ID}); err != nil {
		return fmt.Errorf("failed to send room created: %w", err)
	}

	that.broadcastLobby()

	return nil
}

func (that *Server) handleJoinRoom(_ context.Context, c *client, msg *Message) error {
	var req roomRequest
	if err := unmarshalPayload(msg, &req); err != nil {
		return err
	}

	result, err := that.coordinator.JoinRoom(req.RoomID, c.userID, c.username, c.id)
	if err != nil {
		return c.send(ActionRoomJoinError, errorPayload{Message: err.Error()})
	}

	if err = c.send(ActionRoomJoined, roomCreatedPayload{RoomID: result.Room.ID}); err != nil {
		return fmt.Errorf("failed to send room joined: %w", err)
	}

	that.sendToRoom(result.Room, ActionPlayersUpdate, playerViews(result.Room))

	if result.Started {
		that.sendToRoom(result.Room, ActionGameStart, gameState(result.Room))
	}

	that.broadcastLobby()

	return nil
}

func (that *Server) handleRoomState(_ context.Context, c *client, msg *Message) error {
	var req roomRequest
	if err := unmarshalPayload(msg, &req); err != nil {
		return err
	}

	room, ok := that.coordinator.Room(req.RoomID)
	if !ok {
		return c.send(ActionRoomError, errorPayload{Message: "room not found"})
	}

	if err := c.send(ActionPlayersUpdate, playerViews(room)); err != nil {
		return fmt.Errorf("failed to send players update: %w", err)
	}

	if !room.IsWaiting() {
		if err := c.send(ActionGameStart, gameState(room)); err != nil {
			return fmt.Errorf("failed to send game state: %w", err)
		}
	}

	return nil
}

func (that *Server) handleGameMove(_ context.Context, c *client, msg *Message) error {
	var req moveRequest
	if err := unmarshalPayload(msg, &req); err != nil {
		return err
	}

	if req.Cell == nil {
		return c.send(ActionGameError, errorPayload{Message: "cell is required"})
	}

	result, err := that.coordinator.MakeMove(req.RoomID, c.userID, *req.Cell)
	if err != nil {
		return c.send(ActionGameError, errorPayload{Message: err.Error()})
	}

	that.sendToRoom(result.Room, ActionGameMove, boardPayload{Board: result.Board})

	if result.GameOver {
		that.sendToRoom(result.Room, ActionGameOver, gameOverPayload{Winner: result.Winner})
		that.broadcastLobby()
		return nil
	}

	that.sendToRoom(result.Room, ActionGameTurn, turnPayload{Turn: result.Turn})

	return nil
}

func (that *Server) handleGameRematch(_ context.Context, c *client, msg *Message) error {
	var req roomRequest
	if err := unmarshalPayload(msg, &req); err != nil {
		return err
	}

	result, err := that.coordinator.RequestRematch(req.RoomID, c.userID)
	if err != nil {
		return c.send(ActionRematchStatus, rematchStatusPayload{Message: err.Error(), Status: rematchStatusError})
	}

	if result.BothRequested {
		that.sendToRoom(result.Room, ActionGameStart, gameState(result.Room))
		return nil
	}

	if err = c.send(ActionRematchStatus, rematchStatusPayload{
		Message: "Rematch request sent. Waiting for opponent.",
		Status:  rematchStatusWaiting,
	}); err != nil {
		return fmt.Errorf("failed to send rematch status: %w", err)
	}

	that.sendTo(result.OpponentConnectionID, ActionRematchStatus, rematchStatusPayload{
		Message: fmt.Sprintf("%s requested a rematch!", c.username),
		Status:  rematchStatusOpponentRequested,
	})

	return nil
}

func (that *Server) handleChatMessage(_ context.Context, c *client, msg *Message) error {
	var req chatRequest
	if err := unmarshalPayload(msg, &req); err != nil {
		return err
	}

	room, ok := that.coordinator.Room(req.RoomID)
	if !ok {
		return c.send(ActionRoomError, errorPayload{Message: "room not found"})
	}

	// Only room members may post into the room channel.
	if room.PlayerByUserID(c.userID) == nil {
		return c.send(ActionRoomError, errorPayload{Message: "not a member of this room"})
	}

	that.sendToRoom(room, ActionChatMessage, chatMessagePayload{
		UserID:    c.userID,
		Username:  c.username,
		Message:   req.Message,
		Timestamp: time.Now().UnixMilli(),
	})

	return nil
}

func unmarshalPayload(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("missing payload for action %q", msg.Action)
	}

	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
