package main

import "arena-server/geom"

// collideWithPlayers resolves the ball against each player's guard in slice
// order and stops at the first contact. It returns the player that was hit.
func collideWithPlayers(ball *Ball, linecast geom.Segment, players []*Player, radius float64) *Player {
	for _, p := range players {
		if collideWithGuard(ball, linecast, p.Guard(radius)) {
			return p
		}
	}
	return nil
}

// collideWithGuard first tests the swept path against the guard. When the
// path did not cross it, a circle overlap test on the end position catches
// grazing contacts.
func collideWithGuard(ball *Ball, linecast, guard geom.Segment) bool {
	if hit, ok := linecast.Intersect(guard); ok {
		// Land just inside the guard; landing on it would collide again next tick.
		toCenter := hit.Point.Scale(-1).Normalize()
		ball.Position = hit.Point.Add(toCenter.Scale(ball.Radius))
		ball.Direction = geom.Reflect(ball.Direction, hit.Normal).Normalize()
		return true
	}

	// On the tick after a hit near a guard end the snapped ball can still
	// touch the chord, so the reflected direction is replaced by the normal.
	if geom.CircleTouchesSegment(ball.Position, ball.Radius, guard) {
		ball.Direction = guard.Normal()
		return true
	}
	return false
}
