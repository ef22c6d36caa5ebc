package netclient

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-server/geom"
	"arena-server/protocol"
)

func session(ball geom.Vec2, players ...protocol.PlayerData) protocol.SessionData {
	return protocol.SessionData{
		Ball:                      protocol.BallData{Position: ball, Speed: 3},
		Players:                   players,
		PlayersDistanceFromCenter: 5,
	}
}

func player(id int, angle float64) protocol.PlayerData {
	return protocol.PlayerData{ID: id, Size: 0.4, Speed: 1, Angle: angle, MinAngle: 0, MaxAngle: 5}
}

func TestStepBeforeFirstSnapshot(t *testing.T) {
	r := NewReconciler()
	_, ok := r.Step(1.0 / 60)
	assert.False(t, ok)
}

func TestFirstSnapshotInitializesView(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.V(1, 2), player(0, 1.5)))

	v, ok := r.Step(1.0 / 60)
	require.True(t, ok)
	assert.Equal(t, geom.V(1, 2), v.Ball.Position)
	assert.Equal(t, 1.5, v.Players[0].Angle)
	assert.Equal(t, 5.0, v.PlayersDistanceFromCenter)
}

func TestPushKeepsPreviousAndCurrent(t *testing.T) {
	r := NewReconciler()
	_, ok := r.Previous()
	assert.False(t, ok)

	r.Push(session(geom.V(0, 0)))
	r.Push(session(geom.V(0, 0.1)))

	prev, ok := r.Previous()
	require.True(t, ok)
	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, geom.V(0, 0), prev.Ball.Position)
	assert.Equal(t, geom.V(0, 0.1), cur.Ball.Position)
}

func TestBallNeverOvershoots(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.V(0, 0)))
	r.Step(0)

	target := geom.V(0, 0.1)
	r.Push(session(target))

	dt := 1.0 / 240
	prevDist := math.Inf(1)
	for i := 0; i < 8; i++ {
		v, _ := r.Step(dt)
		dist := v.Ball.Position.Sub(target).Len()
		assert.LessOrEqual(t, dist, prevDist)
		assert.LessOrEqual(t, v.Ball.Position.Len(), target.Len()+1e-12)
		prevDist = dist
	}
}

func TestBallConvergesWithinOneUpdatePeriod(t *testing.T) {
	// Logic at 30 Hz moves the ball 3/30 units per snapshot; rendering at
	// 60 Hz must catch up within two frames.
	r := NewReconciler()
	r.Push(session(geom.V(0, 0)))
	r.Step(0)
	r.Push(session(geom.V(0, 0.1)))

	r.Step(1.0 / 60)
	v, _ := r.Step(1.0 / 60)
	assert.InDelta(t, 0.1, v.Ball.Position.Y, 1e-12)
}

func TestBallSnapsAfterReset(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.V(0, 5)))
	r.Step(0)
	r.Push(session(geom.V(0, 0)))

	v, _ := r.Step(1.0 / 60)
	assert.Equal(t, geom.V(0, 0), v.Ball.Position)
}

func TestPlayerAngleMovesAtMostSpeed(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.Vec2{}, player(0, 1)))
	r.Step(0)
	r.Push(session(geom.Vec2{}, player(0, 2)))

	v, _ := r.Step(0.25)
	assert.InDelta(t, 1.25, v.Players[0].Angle, 1e-12)

	v, _ = r.Step(10)
	assert.Equal(t, 2.0, v.Players[0].Angle)
}

func TestPlayerSnapsWhenMembershipChanges(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.Vec2{}, player(0, 1), player(1, 3)))
	r.Step(0)

	// Count changed
	r.Push(session(geom.Vec2{}, player(1, 4)))
	v, _ := r.Step(1.0 / 60)
	require.Len(t, v.Players, 1)
	assert.Equal(t, 1, v.Players[0].ID)
	assert.Equal(t, 4.0, v.Players[0].Angle)

	// Same count, different occupant
	r.Push(session(geom.Vec2{}, player(7, 0.5)))
	v, _ = r.Step(1.0 / 60)
	assert.Equal(t, 7, v.Players[0].ID)
	assert.Equal(t, 0.5, v.Players[0].Angle)
}

func TestPlayerSnapsIntoNewSector(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.Vec2{}, player(0, 4)))
	r.Step(0)

	moved := player(0, 1)
	moved.MinAngle, moved.MaxAngle = 0, 2
	r.Push(session(geom.Vec2{}, moved))

	v, _ := r.Step(1.0 / 60)
	assert.Equal(t, 1.0, v.Players[0].Angle)
}

func TestViewIsDetachedFromInternalState(t *testing.T) {
	r := NewReconciler()
	r.Push(session(geom.Vec2{}, player(0, 1)))
	v, _ := r.Step(0)
	v.Players[0].Angle = 99

	v2, _ := r.Step(0)
	assert.Equal(t, 1.0, v2.Players[0].Angle)
}

func TestConcurrentPushAndStep(t *testing.T) {
	r := NewReconciler()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			r.Push(session(geom.V(0, float64(i)/1000), player(0, 1)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			r.Step(1.0 / 60)
		}
	}()
	wg.Wait()

	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, 0.499, cur.Ball.Position.Y)
}
