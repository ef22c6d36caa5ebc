package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MaxDelta caps the delta handed to a phase after a stall
const MaxDelta = 0.25

// Loop runs one fixed-rate phase and measures the real time between its own
// invocations.
type Loop struct {
	name     string
	interval time.Duration
	action   func(dt float64)
	last     time.Time
}

// NewLoop creates a loop firing hz times per second
func NewLoop(name string, hz int, action func(dt float64)) *Loop {
	return &Loop{
		name:     name,
		interval: time.Second / time.Duration(hz),
		action:   action,
	}
}

// Interval returns the nominal time between invocations
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// tick runs the action with the seconds elapsed since the previous tick.
// The first tick uses the nominal interval.
func (l *Loop) tick(now time.Time) {
	dt := l.interval.Seconds()
	if !l.last.IsZero() {
		dt = now.Sub(l.last).Seconds()
	}
	l.last = now

	if dt < 0 {
		dt = 0
	}
	if dt > MaxDelta {
		dt = MaxDelta
	}
	l.action(dt)
}

// Run ticks until ctx is cancelled
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.tick(now)
		case <-ctx.Done():
			return
		}
	}
}

// Scheduler drives the arena's logic and physics phases side by side
type Scheduler struct {
	Logic   *Loop
	Physics *Loop
	log     *zap.Logger
}

// NewScheduler wires both phases of a to loops at the given rates
func NewScheduler(a *Arena, logicHz, physicsHz int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Logic:   NewLoop("logic", logicHz, a.LogicTick),
		Physics: NewLoop("physics", physicsHz, a.PhysicsTick),
		log:     log,
	}
}

// Run blocks until ctx is cancelled and both loops have returned
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, l := range []*Loop{s.Logic, s.Physics} {
		wg.Add(1)
		go func(l *Loop) {
			defer wg.Done()
			s.log.Info("loop started", zap.String("loop", l.name), zap.Duration("interval", l.interval))
			l.Run(ctx)
			s.log.Info("loop stopped", zap.String("loop", l.name))
		}(l)
	}
	wg.Wait()
}
