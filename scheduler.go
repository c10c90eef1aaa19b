package main

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRefreshExhausted is returned by a RefreshSource with no more refreshes.
var ErrRefreshExhausted = errors.New("refresh source exhausted")

// RefreshSource blocks until the next display refresh.
type RefreshSource interface {
	Next(ctx context.Context) (time.Time, error)
}

// TickerRefresh delivers wall clock refreshes at a fixed rate.
type TickerRefresh struct {
	ticker *time.Ticker
}

func NewTickerRefresh(rate time.Duration) *TickerRefresh {
	return &TickerRefresh{ticker: time.NewTicker(rate)}
}

func (r *TickerRefresh) Next(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case t := <-r.ticker.C:
		return t, nil
	}
}

func (r *TickerRefresh) Stop() {
	r.ticker.Stop()
}

// SteppedRefresh runs on virtual time: every call advances by step without
// sleeping. It stops once the next refresh would pass until.
type SteppedRefresh struct {
	mu    sync.Mutex
	next  time.Time
	step  time.Duration
	until time.Time
}

func NewSteppedRefresh(start time.Time, step, span time.Duration) *SteppedRefresh {
	return &SteppedRefresh{next: start, step: step, until: start.Add(span)}
}

func (r *SteppedRefresh) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next.After(r.until) {
		return time.Time{}, ErrRefreshExhausted
	}
	now := r.next
	r.next = r.next.Add(r.step)
	return now, nil
}

// Scheduler drives a LoopClock from a RefreshSource. At most one loop
// goroutine runs at a time and it only keeps requesting refreshes while the
// clock is running. Every loop carries a generation token; a refresh that
// arrives after its generation was superseded is dropped.
//
// Freeze, Resume and Stop wait for the previous loop to exit, so they must
// not be called from the clock's render callback.
type Scheduler struct {
	clock  *LoopClock
	source RefreshSource

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(clock *LoopClock, source RefreshSource) *Scheduler {
	return &Scheduler{clock: clock, source: source}
}

// Start restarts the loop from frame 1.
func (s *Scheduler) Start(ctx context.Context) {
	s.halt()
	s.clock.Start()
	s.spawn(ctx)
}

// Freeze cancels the pending refresh and renders elapsed once.
func (s *Scheduler) Freeze(elapsed time.Duration) {
	s.halt()
	s.clock.Freeze(elapsed)
}

// Resume continues free running after a Freeze.
func (s *Scheduler) Resume(ctx context.Context) {
	s.halt()
	s.clock.Resume()
	s.spawn(ctx)
}

// Stop cancels the loop and closes the clock.
func (s *Scheduler) Stop() {
	s.halt()
	s.clock.Close()
}

// Wait blocks until the current loop goroutine, if any, has exited.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// NextWake reports when the clock expects its next redraw.
func (s *Scheduler) NextWake() time.Time {
	return s.clock.NextWake()
}

func (s *Scheduler) spawn(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	s.gen++
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.gen, s.done)
}

func (s *Scheduler) halt() {
	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *Scheduler) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)
	defer s.finish(gen)

	for {
		now, err := s.source.Next(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				Log.Debug().Err(err).Msg("Scheduler loop ended")
			}
			return
		}
		if !s.current(gen) {
			return
		}
		s.clock.Tick(now)
		if !s.clock.Running() {
			return
		}
	}
}
