package protocol

import "errors"

var (
	ErrEmptyMessage = errors.New("protocol: empty message")
	ErrBadEnvelope  = errors.New("protocol: malformed envelope")
	ErrUnknownType  = errors.New("protocol: unknown message type")
	ErrBadPayload   = errors.New("protocol: bad payload")
)

type message interface {
	Type() MessageType
	payload() any
}

// ServerMessage is the sum of everything the server sends.
type ServerMessage interface {
	message
	serverMessage()
}

// SessionMessage carries a snapshot.
type SessionMessage struct{ Session SessionData }

// LeaderboardMessage carries the whole leaderboard.
type LeaderboardMessage struct{ Leaderboard LeaderboardData }

// PlayerIDMessage tells a fresh connection which player it controls. Its
// payload is a bare integer on the wire.
type PlayerIDMessage struct{ ID int }

func (SessionMessage) Type() MessageType     { return MsgSession }
func (LeaderboardMessage) Type() MessageType { return MsgLeaderboard }
func (PlayerIDMessage) Type() MessageType    { return MsgPlayerID }

func (m SessionMessage) payload() any     { return m.Session }
func (m LeaderboardMessage) payload() any { return m.Leaderboard }
func (m PlayerIDMessage) payload() any    { return m.ID }

func (SessionMessage) serverMessage()     {}
func (LeaderboardMessage) serverMessage() {}
func (PlayerIDMessage) serverMessage()    {}

// ClientMessage is the sum of everything a client sends.
type ClientMessage interface {
	message
	clientMessage()
}

// ActionMessage stages a movement input.
type ActionMessage struct{ Action Action }

// UsernameMessage registers a display name on the leaderboard.
type UsernameMessage struct{ Name string }

func (ActionMessage) Type() MessageType   { return MsgAction }
func (UsernameMessage) Type() MessageType { return MsgUsername }

func (m ActionMessage) payload() any   { return m.Action }
func (m UsernameMessage) payload() any { return m.Name }

func (ActionMessage) clientMessage()   {}
func (UsernameMessage) clientMessage() {}

// EnvelopeOf wraps a server or client message for encoding.
func EnvelopeOf(m message) Envelope {
	return Envelope{Type: m.Type(), Payload: m.payload()}
}

// payloadDecoder unmarshals an envelope's raw payload into v.
type payloadDecoder func(v any) error

func decodeClient(t MessageType, decode payloadDecoder) (ClientMessage, error) {
	switch t {
	case MsgAction:
		var a Action
		if err := decode(&a); err != nil || !a.Valid() {
			return nil, ErrBadPayload
		}
		return ActionMessage{Action: a}, nil
	case MsgUsername:
		var name string
		if err := decode(&name); err != nil {
			return nil, ErrBadPayload
		}
		return UsernameMessage{Name: name}, nil
	default:
		return nil, ErrUnknownType
	}
}

func decodeServer(t MessageType, decode payloadDecoder) (ServerMessage, error) {
	switch t {
	case MsgSession:
		var s SessionData
		if err := decode(&s); err != nil {
			return nil, ErrBadPayload
		}
		return SessionMessage{Session: s}, nil
	case MsgLeaderboard:
		var lb LeaderboardData
		if err := decode(&lb); err != nil {
			return nil, ErrBadPayload
		}
		return LeaderboardMessage{Leaderboard: lb}, nil
	case MsgPlayerID:
		var id int
		if err := decode(&id); err != nil {
			return nil, ErrBadPayload
		}
		return PlayerIDMessage{ID: id}, nil
	default:
		return nil, ErrUnknownType
	}
}
