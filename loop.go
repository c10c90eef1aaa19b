package main

import "time"

// Design constants shared by the player, the exporter and the fragment
// submission path. Frames drawn by one must line up with frames replayed by
// another, so none of these are configurable.
const (
	FPS           = 10
	FrameInterval = time.Second / FPS
	LoopDuration  = time.Minute
	LoopFrames    = int(LoopDuration / FrameInterval)

	ControlPointCount = 7
	NoiseFrequency    = 0.3
	NoiseTimeRadius   = 86.0
	NoiseSeed         = 12345

	// RefreshRate is the display refresh the player ticks at; redraws are
	// throttled down to FPS by the clock.
	RefreshRate = time.Second / 60
)

// LoopPhase folds elapsed animation time into [0, LoopDuration).
func LoopPhase(elapsed time.Duration) time.Duration {
	phase := elapsed % LoopDuration
	if phase < 0 {
		phase += LoopDuration
	}
	return phase
}

// FrameIndex is the 1-based frame number shown at elapsed. Times one loop
// apart share a frame.
func FrameIndex(elapsed time.Duration) int {
	return int(LoopPhase(elapsed)/FrameInterval) + 1
}

// FrameStart is the first elapsed time that maps to frame.
func FrameStart(frame int) time.Duration {
	return time.Duration(frame-1) * FrameInterval
}

// ValidFrame reports whether frame is inside the loop.
func ValidFrame(frame int) bool {
	return frame >= 1 && frame <= LoopFrames
}
