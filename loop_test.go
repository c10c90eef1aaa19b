package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopConstants(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, FrameInterval)
	assert.Equal(t, 600, LoopFrames)
}

func TestFrameIndex(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 1},
		{99 * time.Millisecond, 1},
		{100 * time.Millisecond, 2},
		{12345 * time.Millisecond, 124},
		{59999 * time.Millisecond, 600},
		{60000 * time.Millisecond, 1},
		{60100 * time.Millisecond, 2},
		{-100 * time.Millisecond, 600},
		{10*LoopDuration + 250*time.Millisecond, 3},
	}

	for _, tt := range tests {
		t.Run(tt.elapsed.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FrameIndex(tt.elapsed))
		})
	}
}

func TestFrameStart_RoundTrip(t *testing.T) {
	for frame := 1; frame <= LoopFrames; frame++ {
		assert.Equal(t, frame, FrameIndex(FrameStart(frame)))
	}
}

func TestValidFrame(t *testing.T) {
	assert.False(t, ValidFrame(0))
	assert.True(t, ValidFrame(1))
	assert.True(t, ValidFrame(600))
	assert.False(t, ValidFrame(601))
}
