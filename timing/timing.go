// Package timing implements the two randomized timers that drive the
// Raft FSM: the election timeout (Followers and Candidates) and the
// heartbeat interval (Leaders only).
//
// Exactly one timer of each kind may be pending per peer; resetting one
// cancels the prior wait. This package models that as a single-threaded
// owned timer rather than spawning a goroutine per reset - the consensus
// FSM waits on each timer's C channel from its own select loop.
package timing

import (
	"math/rand"
	"time"
)

// Range picks a randomized duration uniformly from [Low, High).
type Range struct {
	Low  time.Duration
	High time.Duration
}

// Choose returns a duration drawn uniformly from [r.Low, r.High).
func (r Range) Choose() time.Duration {
	span := r.High - r.Low
	if span <= 0 {
		return r.Low
	}
	return r.Low + time.Duration(rand.Int63n(int64(span)))
}

// DefaultElectionTimeout is the randomized election timeout range: [200ms, 300ms).
var DefaultElectionTimeout = Range{200 * time.Millisecond, 300 * time.Millisecond}

// DefaultHeartbeatInterval is the randomized heartbeat interval range: [100ms, 200ms).
var DefaultHeartbeatInterval = Range{100 * time.Millisecond, 200 * time.Millisecond}

// RealTimer wraps a standard library time.Timer so the FSM's select loop
// can wait on a single channel per timer kind, redrawing a fresh random
// duration from Range on every reset. It is not safe for concurrent use,
// matching the single-goroutine-per-peer model each FSM runs under.
type RealTimer struct {
	r     Range
	timer *time.Timer
}

// NewRealTimer creates a RealTimer already armed with one random draw
// from r.
func NewRealTimer(r Range) *RealTimer {
	return &RealTimer{r: r, timer: time.NewTimer(r.Choose())}
}

// C is the channel that fires when the timer expires.
func (rt *RealTimer) C() <-chan time.Time {
	return rt.timer.C
}

// Reset stops any pending fire, drains a stale tick if one raced in, and
// rearms the timer with a fresh random draw from its Range.
func (rt *RealTimer) Reset() {
	if !rt.timer.Stop() {
		select {
		case <-rt.timer.C:
		default:
		}
	}
	rt.timer.Reset(rt.r.Choose())
}

// Stop cancels the timer without rearming it.
func (rt *RealTimer) Stop() {
	if !rt.timer.Stop() {
		select {
		case <-rt.timer.C:
		default:
		}
	}
}
