package main

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"arena-server/protocol"
)

const (
	ArenaRadius      = 5.0 // distance of every guard arc from the center
	DefaultLogicHz   = 30
	DefaultPhysicsHz = 60
	maxNameLen       = 16
)

// Sender is the outgoing half of a connection. Frames are encoded with its
// Codec and SendRaw must not block.
type Sender interface {
	Codec() protocol.Codec
	SendRaw(data []byte) error
}

// ArenaOptions configures NewArena. Zero values are usable.
type ArenaOptions struct {
	Logger    *zap.Logger
	Analytics *Analytics
	Rand      *rand.Rand
}

// Arena holds the whole shared world: the ball, the ordered players, the
// leaderboard and the broadcast set. Every method takes the one lock.
type Arena struct {
	mu          sync.Mutex
	ball        *Ball
	players     []*Player
	leaderboard Leaderboard
	senders     map[int]Sender
	nextID      int
	rounds      int
	rng         *rand.Rand
	log         *zap.Logger
	analytics   *Analytics
}

// NewArena creates an empty arena with the ball at rest in the center
func NewArena(opts ArenaOptions) *Arena {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &Arena{
		ball:      NewBall(opts.Rand),
		senders:   make(map[int]Sender),
		rng:       opts.Rand,
		log:       opts.Logger,
		analytics: opts.Analytics,
	}
}

// AddPlayer creates a player for a new connection, re-lays out the sectors
// and tells the connection its ID. IDs are never reused.
func (a *Arena) AddPlayer(s Sender) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++

	a.players = append(a.players, NewPlayer(id))
	AssignSectors(a.players)

	a.send(id, s, protocol.PlayerIDMessage{ID: id})
	a.senders[id] = s

	a.analytics.Track(EvtPlayerJoin, id, "")
	a.log.Info("player joined", zap.Int("player", id), zap.Int("players", len(a.players)))
	return id
}

// RemovePlayer drops the player and its leaderboard entry, re-lays out the
// remaining players and broadcasts the leaderboard. Unknown IDs are ignored.
func (a *Arena) RemovePlayer(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(id)
	if idx < 0 {
		return
	}
	a.players = append(a.players[:idx], a.players[idx+1:]...)
	delete(a.senders, id)
	AssignSectors(a.players)
	a.leaderboard.Remove(id)
	a.broadcast(protocol.LeaderboardMessage{Leaderboard: a.leaderboard.Data()})

	a.analytics.Track(EvtPlayerLeave, id, "")
	a.log.Info("player left", zap.Int("player", id), zap.Int("players", len(a.players)))
}

// SetAction stages an action for the next logic tick. A later action in the
// same tick replaces an earlier one.
func (a *Arena) SetAction(id int, action protocol.Action) {
	if !action.Valid() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if idx := a.indexOf(id); idx >= 0 {
		a.players[idx].Action = action
	}
}

// RegisterName puts the player on the leaderboard under name, or renames its
// entry, and broadcasts the result. Blank names are ignored.
func (a *Arena) RegisterName(id int, name string) {
	name = cleanName(name)
	if name == "" {
		a.log.Debug("ignoring blank username", zap.Int("player", id))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.indexOf(id) < 0 {
		return
	}
	a.leaderboard.Register(id, name)
	a.broadcast(protocol.LeaderboardMessage{Leaderboard: a.leaderboard.Data()})

	a.analytics.Track(EvtUsername, id, name)
	a.log.Info("player registered", zap.Int("player", id), zap.String("name", name))
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name
}

// LogicTick applies staged actions and broadcasts a snapshot
func (a *Arena) LogicTick(dt float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.players {
		p.ApplyAction(dt)
	}
	a.broadcast(protocol.SessionMessage{Session: a.snapshot()})
}

// PhysicsTick advances the ball, resolves collisions and scoring, then moves
// every arc toward its desired angle.
func (a *Arena) PhysicsTick(dt float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.updateBall(dt)
	for _, p := range a.players {
		p.Integrate(dt)
	}
}

func (a *Arena) updateBall(dt float64) {
	linecast := a.ball.Advance(dt)
	collideWithPlayers(a.ball, linecast, a.players, ArenaRadius)

	if !a.ball.OutOfBounds(ArenaRadius) {
		return
	}

	angle := a.ball.ExitAngle()
	if loser := a.loserAt(angle); loser != nil {
		a.scoreLoss(loser, angle)
	}
	a.ball.Reset(a.rng)
}

// loserAt returns the first player whose sector contains angle
func (a *Arena) loserAt(angle float64) *Player {
	for _, p := range a.players {
		if p.Covers(angle) {
			return p
		}
	}
	return nil
}

func (a *Arena) scoreLoss(loser *Player, angle float64) {
	a.rounds++
	awarded := a.leaderboard.AwardAllExcept(loser.ID)
	a.broadcast(protocol.LeaderboardMessage{Leaderboard: a.leaderboard.Data()})

	name, _ := a.leaderboard.Name(loser.ID)
	a.analytics.TrackRound(RoundRow{
		LoserID:   loser.ID,
		LoserName: name,
		ExitAngle: angle,
		Players:   len(a.players),
	})
	a.log.Info("round lost",
		zap.Int("loser", loser.ID),
		zap.Float64("exit_angle", angle),
		zap.Int("awarded", awarded),
	)
}

func (a *Arena) indexOf(id int) int {
	for i, p := range a.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (a *Arena) snapshot() protocol.SessionData {
	players := make([]protocol.PlayerData, len(a.players))
	for i, p := range a.players {
		players[i] = p.ToData()
	}
	return protocol.SessionData{
		Ball:                      a.ball.ToData(),
		Players:                   players,
		PlayersDistanceFromCenter: ArenaRadius,
	}
}

// broadcast encodes m once per codec in use and enqueues the same bytes for
// every connection in player order.
func (a *Arena) broadcast(m protocol.ServerMessage) {
	encoded := make(map[string][]byte, 2)
	for _, p := range a.players {
		s, ok := a.senders[p.ID]
		if !ok {
			continue
		}
		codec := s.Codec()
		data, ok := encoded[codec.Name()]
		if !ok {
			var err error
			if data, err = a.encode(codec, m); err != nil {
				continue
			}
			encoded[codec.Name()] = data
		}
		a.sendRaw(p.ID, s, m, data)
	}
}

func (a *Arena) send(id int, s Sender, m protocol.ServerMessage) {
	data, err := a.encode(s.Codec(), m)
	if err != nil {
		return
	}
	a.sendRaw(id, s, m, data)
}

func (a *Arena) encode(codec protocol.Codec, m protocol.ServerMessage) ([]byte, error) {
	data, err := codec.EncodeServer(m)
	if err != nil {
		a.log.Error("encode failed",
			zap.String("codec", codec.Name()),
			zap.Int("type", int(m.Type())),
			zap.Error(err),
		)
	}
	return data, err
}

func (a *Arena) sendRaw(id int, s Sender, m protocol.ServerMessage, data []byte) {
	if err := s.SendRaw(data); err != nil {
		a.log.Warn("dropping message",
			zap.Int("player", id),
			zap.Int("type", int(m.Type())),
			zap.Error(err),
		)
	}
}

// Snapshot returns the current public state
func (a *Arena) Snapshot() protocol.SessionData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// Leaderboard returns a copy of the current leaderboard
func (a *Arena) Leaderboard() protocol.LeaderboardData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.leaderboard.Data()
}

// PlayerCount returns the number of connected players
func (a *Arena) PlayerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.players)
}

// Rounds returns how many rounds ended with a loser since startup
func (a *Arena) Rounds() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rounds
}
