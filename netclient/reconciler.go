package netclient

import (
	"sync/atomic"

	"arena-server/geom"
	"arena-server/protocol"
)

// DefaultSnapDistance is how far the displayed ball may lag the server before
// it jumps instead of gliding, which is what happens after a reset to the
// center.
const DefaultSnapDistance = 1.0

// View is what a renderer draws for one frame
type View struct {
	Ball                      protocol.BallData
	Players                   []protocol.PlayerData
	PlayersDistanceFromCenter float64
}

type snapshotPair struct {
	previous *protocol.SessionData
	current  *protocol.SessionData
}

// Reconciler smooths the displayed state toward the latest server snapshot.
// Push is called from the socket goroutine and Step from the render
// goroutine; the pair of snapshots is swapped as one pointer so a frame never
// sees a half-updated pair.
type Reconciler struct {
	// SnapDistance makes the ball jump when it is further than this from the
	// server position. Zero disables snapping.
	SnapDistance float64

	latest atomic.Pointer[snapshotPair]

	// owned by the render goroutine
	view  View
	ready bool
}

// NewReconciler returns a reconciler with DefaultSnapDistance
func NewReconciler() *Reconciler {
	return &Reconciler{SnapDistance: DefaultSnapDistance}
}

// Push records a new authoritative snapshot. It must only be called from one
// goroutine.
func (r *Reconciler) Push(s protocol.SessionData) {
	cur := s
	cur.Players = append([]protocol.PlayerData(nil), s.Players...)

	pair := &snapshotPair{current: &cur}
	if old := r.latest.Load(); old != nil {
		pair.previous = old.current
	}
	r.latest.Store(pair)
}

// Current returns the latest snapshot, if any
func (r *Reconciler) Current() (protocol.SessionData, bool) {
	pair := r.latest.Load()
	if pair == nil {
		return protocol.SessionData{}, false
	}
	return *pair.current, true
}

// Previous returns the snapshot before the latest one, if any
func (r *Reconciler) Previous() (protocol.SessionData, bool) {
	pair := r.latest.Load()
	if pair == nil || pair.previous == nil {
		return protocol.SessionData{}, false
	}
	return *pair.previous, true
}

// Step advances the displayed state by dt seconds toward the latest snapshot
// and returns it. It never moves past the snapshot. The bool is false until
// the first snapshot arrives.
func (r *Reconciler) Step(dt float64) (View, bool) {
	pair := r.latest.Load()
	if pair == nil {
		return View{}, false
	}
	target := pair.current

	if !r.ready {
		r.view = View{
			Ball:                      target.Ball,
			Players:                   append([]protocol.PlayerData(nil), target.Players...),
			PlayersDistanceFromCenter: target.PlayersDistanceFromCenter,
		}
		r.ready = true
		return r.snapshotView(), true
	}

	r.stepBall(target.Ball, dt)
	r.stepPlayers(target.Players, dt)
	r.view.PlayersDistanceFromCenter = target.PlayersDistanceFromCenter
	return r.snapshotView(), true
}

func (r *Reconciler) stepBall(target protocol.BallData, dt float64) {
	pos := r.view.Ball.Position
	if r.SnapDistance > 0 && pos.Sub(target.Position).Len() > r.SnapDistance {
		pos = target.Position
	} else {
		pos = pos.MoveTowards(target.Position, target.Speed*dt)
	}
	r.view.Ball = protocol.BallData{Position: pos, Speed: target.Speed}
}

func (r *Reconciler) stepPlayers(targets []protocol.PlayerData, dt float64) {
	if len(r.view.Players) != len(targets) {
		r.view.Players = append(r.view.Players[:0], targets...)
		return
	}
	for i, tp := range targets {
		vp := r.view.Players[i]
		angle := tp.Angle
		// A new occupant or a re-laid-out sector jumps straight to the server value
		if vp.ID == tp.ID && vp.Angle >= tp.MinAngle && vp.Angle <= tp.MaxAngle+tp.Size {
			angle = geom.MoveTowards(vp.Angle, tp.Angle, tp.Speed*dt)
		}
		r.view.Players[i] = tp
		r.view.Players[i].Angle = angle
	}
}

func (r *Reconciler) snapshotView() View {
	v := r.view
	v.Players = append([]protocol.PlayerData(nil), r.view.Players...)
	return v
}
