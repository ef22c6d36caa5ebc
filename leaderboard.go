package main

import "arena-server/protocol"

// Leaderboard keeps one entry per named player in registration order
type Leaderboard struct {
	leaders []protocol.Leader
}

// Register adds a zero-score entry, or renames the existing one for id
func (lb *Leaderboard) Register(id int, name string) {
	for i := range lb.leaders {
		if lb.leaders[i].PlayerID == id {
			lb.leaders[i].Name = name
			return
		}
	}
	lb.leaders = append(lb.leaders, protocol.Leader{PlayerID: id, Name: name})
}

// Remove drops the entry for id and reports whether there was one
func (lb *Leaderboard) Remove(id int) bool {
	for i := range lb.leaders {
		if lb.leaders[i].PlayerID == id {
			lb.leaders = append(lb.leaders[:i], lb.leaders[i+1:]...)
			return true
		}
	}
	return false
}

// AwardAllExcept gives a point to every entry except loserID and returns how
// many were awarded.
func (lb *Leaderboard) AwardAllExcept(loserID int) int {
	n := 0
	for i := range lb.leaders {
		if lb.leaders[i].PlayerID != loserID {
			lb.leaders[i].Score++
			n++
		}
	}
	return n
}

// Name returns the registered name for id, if any
func (lb *Leaderboard) Name(id int) (string, bool) {
	for _, l := range lb.leaders {
		if l.PlayerID == id {
			return l.Name, true
		}
	}
	return "", false
}

// Data returns a copy safe to hand to other goroutines
func (lb *Leaderboard) Data() protocol.LeaderboardData {
	leaders := make([]protocol.Leader, len(lb.leaders))
	copy(leaders, lb.leaders)
	return protocol.LeaderboardData{Leaders: leaders}
}
