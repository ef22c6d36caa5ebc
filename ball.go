package main

import (
	"math"
	"math/rand/v2"

	"arena-server/geom"
	"arena-server/protocol"
)

const (
	BallRadius    = 0.15
	BallBaseSpeed = 3.0 // arena units per second
)

// Ball is the single ball bouncing inside the arena
type Ball struct {
	Position  geom.Vec2
	Direction geom.Vec2 // always unit length
	Speed     float64
	Radius    float64
}

// NewBall creates a ball at the center heading in a random direction
func NewBall(rng *rand.Rand) *Ball {
	b := &Ball{Radius: BallRadius}
	b.Reset(rng)
	return b
}

// Reset puts the ball back in the center with a fresh direction and base speed
func (b *Ball) Reset(rng *rand.Rand) {
	b.Position = geom.Vec2{}
	b.Direction = randomDirection(rng)
	b.Speed = BallBaseSpeed
}

func randomDirection(rng *rand.Rand) geom.Vec2 {
	for {
		d := geom.V(rng.Float64()-rng.Float64(), rng.Float64()-rng.Float64())
		if d.Len() > 1e-9 {
			return d.Normalize()
		}
	}
}

// Advance moves the ball for one physics tick and returns the path it took
func (b *Ball) Advance(dt float64) geom.Segment {
	from := b.Position
	b.Position = from.Add(b.Direction.Scale(b.Speed * dt))
	return geom.Seg(from, b.Position)
}

// OutOfBounds reports whether the ball has fully left a circle of radius r
func (b *Ball) OutOfBounds(r float64) bool {
	return b.Position.Len() > r+b.Radius
}

// ExitAngle is the ball's angle in the same clockwise-from-+Y frame that
// player sectors use, in [0, 2π).
func (b *Ball) ExitAngle() float64 {
	return geom.NormalizeAngle(math.Atan2(b.Position.X, b.Position.Y))
}

// ToData converts to the public snapshot form
func (b *Ball) ToData() protocol.BallData {
	return protocol.BallData{Position: b.Position, Speed: b.Speed}
}
