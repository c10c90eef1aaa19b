package main

import (
	"sync"
	"time"
)

// ClockState is the run state of a LoopClock.
type ClockState int

const (
	ClockRunning ClockState = iota
	ClockPausedLive
	ClockFrozen
)

func (s ClockState) String() string {
	switch s {
	case ClockRunning:
		return "running"
	case ClockPausedLive:
		return "paused"
	case ClockFrozen:
		return "frozen"
	}
	return "unknown"
}

// FrameRender describes one frame handed to the render pipeline.
type FrameRender struct {
	Index   int
	Elapsed time.Duration
}

// LoopClock converts display refresh timestamps into throttled animation
// frames. Redraws happen at most once per FrameInterval; the remainder of
// each interval is carried so the redraw cadence does not drift.
type LoopClock struct {
	mu sync.Mutex

	state     ClockState
	latched   bool
	prevTick  time.Time
	started   bool
	loopStart time.Time
	frozenAt  time.Duration
	closed    bool

	render  func(FrameRender)
	onFrame func(int)
}

// NewLoopClock returns a running clock. render receives every frame and
// onFrame the frame index after it was rendered; either may be nil.
func NewLoopClock(render func(FrameRender), onFrame func(int)) *LoopClock {
	return &LoopClock{
		state:   ClockRunning,
		render:  render,
		onFrame: onFrame,
	}
}

// Start (re)starts the loop from frame 1 on the next tick.
func (c *LoopClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state = ClockRunning
	c.latched = false
	c.started = false
}

// Tick advances the clock to now. It reports the rendered frame and true
// when a redraw was due.
func (c *LoopClock) Tick(now time.Time) (FrameRender, bool) {
	c.mu.Lock()
	if c.closed || c.state != ClockRunning {
		c.mu.Unlock()
		return FrameRender{}, false
	}
	if !c.started {
		c.loopStart = now
		c.started = true
	}
	if !c.latched {
		c.prevTick = now
		c.latched = true
	}

	delta := now.Sub(c.prevTick)
	if delta < FrameInterval {
		c.mu.Unlock()
		return FrameRender{}, false
	}
	c.prevTick = now.Add(-(delta % FrameInterval))
	elapsed := now.Sub(c.loopStart)
	c.mu.Unlock()

	fr := FrameRender{Index: FrameIndex(elapsed), Elapsed: elapsed}
	c.emit(fr)
	return fr, true
}

// Freeze stops the clock at elapsed and renders that frame once.
func (c *LoopClock) Freeze(elapsed time.Duration) (FrameRender, bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return FrameRender{}, false
	}
	c.state = ClockFrozen
	c.frozenAt = elapsed
	c.mu.Unlock()

	fr := FrameRender{Index: FrameIndex(elapsed), Elapsed: elapsed}
	c.emit(fr)
	return fr, true
}

// Pause stops redraws without pinning a time.
func (c *LoopClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state = ClockPausedLive
}

// Resume returns to free running. The loop start is kept; the tick
// reference is dropped so the next tick re-latches it.
func (c *LoopClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state = ClockRunning
	c.latched = false
}

// Close tears the clock down. Ticks after Close are ignored.
func (c *LoopClock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// State returns the current run state.
func (c *LoopClock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Running reports whether the clock wants further ticks.
func (c *LoopClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.state == ClockRunning
}

// FrozenAt returns the pinned time and whether the clock is frozen.
func (c *LoopClock) FrozenAt() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozenAt, c.state == ClockFrozen
}

// NextWake is when the next redraw becomes due. The zero time means the
// clock has not latched a reference tick yet.
func (c *LoopClock) NextWake() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.latched {
		return time.Time{}
	}
	return c.prevTick.Add(FrameInterval)
}

func (c *LoopClock) emit(fr FrameRender) {
	if c.render != nil {
		c.render(fr)
	}
	if c.onFrame != nil {
		c.onFrame(fr.Index)
	}
}
