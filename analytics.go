package main

import (
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types for analytics tracking
const (
	EvtPlayerJoin  = "player_join"
	EvtPlayerLeave = "player_leave"
	EvtUsername    = "username"
	EvtRoundLost   = "round_lost"
)

const (
	analyticsBufSize    = 1024
	analyticsBatchSize  = 50
	analyticsFlushEvery = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event. Round is set for
// EvtRoundLost and is written to the rounds table as well.
type AnalyticsEvent struct {
	Type      string
	PlayerID  int
	Data      string
	Timestamp time.Time
	Round     *RoundRow
}

// Analytics handles event tracking with batched background writes. A nil
// *Analytics and one without a database both accept events and drop them.
type Analytics struct {
	db       *DB
	log      *zap.Logger
	events   chan AnalyticsEvent
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu              sync.RWMutex
	concurrentPeers int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB, log *zap.Logger) *Analytics {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Analytics{
		db:     db,
		log:    log,
		events: make(chan AnalyticsEvent, analyticsBufSize),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType string, playerID int, data string) {
	if a == nil {
		return
	}
	a.enqueue(AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// TrackRound records a lost round
func (a *Analytics) TrackRound(r RoundRow) {
	if a == nil {
		return
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	a.enqueue(AnalyticsEvent{
		Type:      EvtRoundLost,
		PlayerID:  r.LoserID,
		Data:      r.LoserName,
		Timestamp: now,
		Round:     &r,
	})
}

func (a *Analytics) enqueue(evt AnalyticsEvent) {
	select {
	case a.events <- evt:
	default:
		// Channel full, drop rather than stall the simulation
		a.log.Debug("analytics event dropped", zap.String("type", evt.Type))
	}
}

// SetConcurrentPeers updates live player count metric
func (a *Analytics) SetConcurrentPeers(n int) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.concurrentPeers = n
	a.mu.Unlock()
}

// ConcurrentPeers returns the live connection count
func (a *Analytics) ConcurrentPeers() int {
	if a == nil {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.concurrentPeers
}

// Stop flushes pending events and shuts down the writer. Safe to call twice.
func (a *Analytics) Stop() {
	if a == nil {
		return
	}
	a.stopOnce.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(analyticsFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain without closing the channel; late Track calls just fill the buffer
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		a.log.Error("analytics: begin tx", zap.Error(err))
		return
	}
	defer tx.Rollback()

	evtStmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, player_id, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		a.log.Error("analytics: prepare events", zap.Error(err))
		return
	}
	defer evtStmt.Close()

	roundStmt, err := tx.Prepare(`INSERT INTO rounds (loser_id, loser_name, exit_angle, players, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		a.log.Error("analytics: prepare rounds", zap.Error(err))
		return
	}
	defer roundStmt.Close()

	for _, evt := range events {
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		ts := evt.Timestamp.Format(time.RFC3339)
		if _, err := evtStmt.Exec(evt.Type, evt.PlayerID, data, ts); err != nil {
			a.log.Error("analytics: insert event", zap.String("type", evt.Type), zap.Error(err))
		}
		if r := evt.Round; r != nil {
			if _, err := roundStmt.Exec(r.LoserID, r.LoserName, r.ExitAngle, r.Players, ts); err != nil {
				a.log.Error("analytics: insert round", zap.Error(err))
			}
		}
	}
	if err := tx.Commit(); err != nil {
		a.log.Error("analytics: commit", zap.Error(err))
	}
}

// --- Query methods for the API ---

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// RecentRounds returns the newest recorded rounds, or nil without a database
func (a *Analytics) RecentRounds(limit int) ([]RoundRow, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	return a.db.RecentRounds(limit)
}

// RoundCount returns how many rounds were ever recorded
func (a *Analytics) RoundCount() (int, error) {
	if a == nil || a.db == nil {
		return 0, nil
	}
	return a.db.RoundCount()
}

// LossesByName returns recorded losses per registered name
func (a *Analytics) LossesByName(limit int) (map[string]int, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	return a.db.LossesByPlayerName(limit)
}
