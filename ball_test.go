package main

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"arena-server/geom"
)

func TestNewBallStartsCentered(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		b := NewBall(rand.New(rand.NewPCG(seed, seed*7+1)))
		assert.Equal(t, geom.Vec2{}, b.Position)
		assert.Equal(t, BallBaseSpeed, b.Speed)
		assert.Equal(t, BallRadius, b.Radius)
		assert.InDelta(t, 1, b.Direction.Len(), 1e-12, "seed=%d", seed)
	}
}

func TestBallResetIsDeterministicPerSeed(t *testing.T) {
	a := NewBall(rand.New(rand.NewPCG(3, 4)))
	b := NewBall(rand.New(rand.NewPCG(3, 4)))
	assert.Equal(t, a.Direction, b.Direction)
}

func TestBallAdvanceReturnsPath(t *testing.T) {
	b := &Ball{Position: geom.V(1, 1), Direction: geom.V(0, -1), Speed: 3, Radius: BallRadius}
	path := b.Advance(0.5)

	assert.Equal(t, geom.V(1, 1), path.A)
	assert.Equal(t, geom.V(1, -0.5), path.B)
	assert.Equal(t, path.B, b.Position)
}

func TestBallOutOfBounds(t *testing.T) {
	b := &Ball{Radius: BallRadius}

	b.Position = geom.V(0, ArenaRadius+BallRadius)
	assert.False(t, b.OutOfBounds(ArenaRadius), "touching the edge is still inside")

	b.Position = geom.V(0, ArenaRadius+BallRadius+0.01)
	assert.True(t, b.OutOfBounds(ArenaRadius))
}

func TestBallExitAngleFrame(t *testing.T) {
	cases := []struct {
		pos  geom.Vec2
		want float64
	}{
		{geom.V(0, 6), 0},
		{geom.V(6, 0), math.Pi / 2},
		{geom.V(0, -6), math.Pi},
		{geom.V(-6, 0), 3 * math.Pi / 2},
		{geom.V(-6, 6), 7 * math.Pi / 4},
	}
	for _, tc := range cases {
		b := &Ball{Position: tc.pos}
		assert.InDelta(t, tc.want, b.ExitAngle(), 1e-12, "pos=%v", tc.pos)
	}
}

func TestBallExitAngleMatchesArcPoint(t *testing.T) {
	for _, angle := range []float64{0.1, 1, 2.5, 3.3, 4.9, 6.2} {
		b := &Ball{Position: geom.ArcPoint(angle, 7)}
		assert.InDelta(t, angle, b.ExitAngle(), 1e-9)
	}
}
