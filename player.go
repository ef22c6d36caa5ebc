package main

import (
	"arena-server/geom"
	"arena-server/protocol"
)

const (
	playerSizeDivisor  = 5 // arc width = sectionSize / 5
	playerSpeedDivisor = 2 // angular speed = sectionSize / 2 per second
)

// Player is one guarding arc on the arena edge
type Player struct {
	ID           int
	Angle        float64
	LastAngle    float64 // angle before the latest physics tick
	DesiredAngle float64 // written by the logic tick, chased by the physics tick
	Size         float64
	Speed        float64
	MinAngle     float64
	MaxAngle     float64
	Action       protocol.Action // pending input, consumed on the next logic tick
}

// NewPlayer creates a player with every gameplay field zeroed. AssignSectors
// fills them in.
func NewPlayer(id int) *Player {
	return &Player{ID: id}
}

// AssignSectors splits the circle evenly between players in slice order and
// re-centers every player in its sector. Ordinals are positional, so a
// disconnect shifts everyone after it.
func AssignSectors(players []*Player) {
	if len(players) == 0 {
		return
	}
	section := geom.FullCircle / float64(len(players))
	size := section / playerSizeDivisor
	speed := section / playerSpeedDivisor

	for i, p := range players {
		p.Size = size
		p.Speed = speed
		p.MinAngle = float64(i) * section
		p.MaxAngle = p.MinAngle + section - size
		p.Angle = p.MinAngle + (p.MaxAngle-p.MinAngle)/2
		p.LastAngle = p.Angle
		p.DesiredAngle = p.Angle
	}
}

// ApplyAction turns the pending action into a new desired angle and clears
// it. Without an action the previous desired angle stands.
func (p *Player) ApplyAction(dt float64) {
	switch p.Action {
	case protocol.ActionMoveLeft:
		p.DesiredAngle = geom.Clamp(p.Angle+p.Speed*dt, p.MinAngle, p.MaxAngle)
	case protocol.ActionMoveRight:
		p.DesiredAngle = geom.Clamp(p.Angle-p.Speed*dt, p.MinAngle, p.MaxAngle)
	}
	p.Action = protocol.ActionNone
}

// Integrate moves the arc toward its desired angle for one physics tick
func (p *Player) Integrate(dt float64) {
	p.LastAngle = p.Angle
	p.Angle = geom.MoveTowards(p.Angle, p.DesiredAngle, p.Speed*dt)
}

// Guard returns the chord the ball bounces off, from the far end of the arc
// back to its start.
func (p *Player) Guard(radius float64) geom.Segment {
	return geom.Seg(
		geom.ArcPoint(p.Angle+p.Size, radius),
		geom.ArcPoint(p.Angle, radius),
	)
}

// Covers reports whether an exit angle falls inside this player's sector
func (p *Player) Covers(angle float64) bool {
	return p.MinAngle <= angle && angle <= p.MaxAngle+p.Size
}

// ToData converts to the public snapshot form
func (p *Player) ToData() protocol.PlayerData {
	return protocol.PlayerData{
		ID:       p.ID,
		Size:     p.Size,
		Speed:    p.Speed,
		Angle:    p.Angle,
		MinAngle: p.MinAngle,
		MaxAngle: p.MaxAngle,
	}
}
