// Package protocol defines the arena wire format: a {type, payload} envelope
// carried as JSON text or msgpack binary frames.
package protocol

import "arena-server/geom"

// MessageType tags an envelope. Server and client number their messages
// independently, so the same value means different things per direction.
type MessageType int

// Server -> Client message types
const (
	MsgSession     MessageType = 0
	MsgLeaderboard MessageType = 1
	MsgPlayerID    MessageType = 2
)

// Client -> Server message types
const (
	MsgAction   MessageType = 0
	MsgUsername MessageType = 1
)

// Action is one of the two discrete inputs a player can send.
type Action string

const (
	ActionNone      Action = ""
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
)

// Valid reports whether a is a movement action.
func (a Action) Valid() bool {
	return a == ActionMoveLeft || a == ActionMoveRight
}

// Envelope wraps every outgoing message.
type Envelope struct {
	Type    MessageType `json:"type" msgpack:"type"`
	Payload any         `json:"payload" msgpack:"payload"`
}

// BallData is the public part of the ball.
type BallData struct {
	Position geom.Vec2 `json:"position" msgpack:"position"`
	Speed    float64   `json:"speed" msgpack:"speed"`
}

// PlayerData is the public part of a player, broadcast every logic tick.
type PlayerData struct {
	ID       int     `json:"id" msgpack:"id"`
	Size     float64 `json:"size" msgpack:"size"`
	Speed    float64 `json:"speed" msgpack:"speed"`
	Angle    float64 `json:"angle" msgpack:"angle"`
	MinAngle float64 `json:"minAngle" msgpack:"minAngle"`
	MaxAngle float64 `json:"maxAngle" msgpack:"maxAngle"`
}

// SessionData is one authoritative snapshot of the arena.
type SessionData struct {
	Ball                      BallData     `json:"ball" msgpack:"ball"`
	Players                   []PlayerData `json:"players" msgpack:"players"`
	PlayersDistanceFromCenter float64      `json:"playersDistanceFromCenter" msgpack:"playersDistanceFromCenter"`
}

// Leader is one leaderboard row.
type Leader struct {
	PlayerID int    `json:"playerID" msgpack:"playerID"`
	Name     string `json:"name" msgpack:"name"`
	Score    int    `json:"score" msgpack:"score"`
}

// LeaderboardData is the full leaderboard, in registration order.
type LeaderboardData struct {
	Leaders []Leader `json:"leaders" msgpack:"leaders"`
}
