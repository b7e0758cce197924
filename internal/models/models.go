// Package models defines the service-side player and room records shared
// between the websocket layer, the game wrapper and persistence.
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// User is an authenticated account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

// Player is a user seated in a room, with their live connection state.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	User      *User           `json:"user,omitempty"`
	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"connected"`
	Seat      uint8           `json:"seat"`
}

// GameAction is the decoded envelope of one client move submission.
type GameAction struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}
