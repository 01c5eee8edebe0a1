// Package ratelimit gates a per-call-billed external API behind hourly, daily
// and monthly ceilings.
//
// Windows reset lazily: an expired window is zeroed by whichever check or
// record observes it first, so no background timer is needed. Counters live in
// process memory only. Every process instance has its own counters and a
// restart resets them.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

const (
	Hour  = time.Hour
	Day   = 24 * time.Hour
	Month = 30 * Day
)

// Limits holds the ceiling for each window.
type Limits struct {
	Hourly  int
	Daily   int
	Monthly int
}

// DefaultLimits keeps the Places photo API inside its free tier.
var DefaultLimits = Limits{Hourly: 10, Daily: 30, Monthly: 900}

type window struct {
	name     string
	limit    int
	duration time.Duration
	count    int
	resetAt  time.Time
}

func (w *window) refresh(now time.Time) {
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(w.duration)
	}
}

// Limiter is a three-window usage counter. It is safe for concurrent use, but
// CanProceed and RecordUsage are separate steps: concurrent callers can both
// pass a check before either records, overshooting a ceiling slightly.
type Limiter struct {
	mu      sync.Mutex
	now     func() time.Time
	windows [3]*window
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now as the limiter's time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter whose windows start at the current time.
func New(limits Limits, opts ...Option) *Limiter {
	l := &Limiter{now: time.Now}
	for _, o := range opts {
		o(l)
	}

	start := l.now()
	l.windows = [3]*window{
		{name: "hourly", limit: limits.Hourly, duration: Hour, resetAt: start.Add(Hour)},
		{name: "daily", limit: limits.Daily, duration: Day, resetAt: start.Add(Day)},
		{name: "monthly", limit: limits.Monthly, duration: Month, resetAt: start.Add(Month)},
	}
	return l
}

// CanProceed reports whether another billed call fits under every ceiling.
// It does not consume quota.
func (l *Limiter) CanProceed() bool {
	ok, _ := l.Check()
	return ok
}

// Check is CanProceed that also names the first saturated window.
func (l *Limiter) Check() (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, w := range l.windows {
		w.refresh(now)
	}
	for _, w := range l.windows {
		if w.count >= w.limit {
			slog.Warn("rate limit reached", "window", w.name, "used", w.count, "limit", w.limit)
			return false, w.name
		}
	}
	return true, ""
}

// RecordUsage adds n to every window. Call it only after the gated call
// succeeded. Non-positive n is ignored.
func (l *Limiter) RecordUsage(n int) {
	if n <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, w := range l.windows {
		w.refresh(now)
		w.count += n
	}
}

// WindowStatus is a snapshot of one window.
type WindowStatus struct {
	Used     int           `json:"used"`
	Limit    int           `json:"limit"`
	ResetsIn time.Duration `json:"-"`
}

// ResetsInMs is ResetsIn in milliseconds.
func (s WindowStatus) ResetsInMs() int64 {
	return s.ResetsIn.Milliseconds()
}

// Remaining never goes below zero.
func (s WindowStatus) Remaining() int {
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// Status is a snapshot of all three windows.
type Status struct {
	Hourly  WindowStatus `json:"hourly"`
	Daily   WindowStatus `json:"daily"`
	Monthly WindowStatus `json:"monthly"`
}

// Status returns the current usage after resetting expired windows.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	snap := func(w *window) WindowStatus {
		w.refresh(now)
		in := w.resetAt.Sub(now)
		if in < 0 {
			in = 0
		}
		return WindowStatus{Used: w.count, Limit: w.limit, ResetsIn: in}
	}

	return Status{
		Hourly:  snap(l.windows[0]),
		Daily:   snap(l.windows[1]),
		Monthly: snap(l.windows[2]),
	}
}
