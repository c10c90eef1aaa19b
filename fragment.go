package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StrokePoint is a point of a drawn stroke in the coordinates of the surface
// it was drawn on.
type StrokePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen or eraser movement.
type Stroke struct {
	Points      []StrokePoint `json:"points"`
	Color       string        `json:"color"`
	StrokeWidth float64       `json:"strokeWidth"`
	IsEraser    bool          `json:"isEraser"`
}

// DrawingFragment is an annotation attached to one frame of the loop.
// Width and Height are the surface size the strokes were drawn at.
type DrawingFragment struct {
	ID          string    `json:"id"`
	FrameNumber int       `json:"frameNumber"`
	Author      string    `json:"author"`
	Timestamp   time.Time `json:"timestamp"`
	Strokes     []Stroke  `json:"strokes"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
}

var (
	ErrFrameOutOfRange = errors.New("frame number out of range")
	ErrEmptySurface    = errors.New("surface size must be positive")
	ErrNoStrokes       = errors.New("fragment has no drawn points")
)

// NewFragment builds a fragment for strokes drawn while the loop was caught
// at elapsed. The frame number comes from FrameIndex, the same mapping the
// player uses, so the fragment replays on the frame it was drawn over.
func NewFragment(elapsed time.Duration, author string, strokes []Stroke, width, height float64) DrawingFragment {
	return DrawingFragment{
		ID:          uuid.NewString(),
		FrameNumber: FrameIndex(elapsed),
		Author:      author,
		Timestamp:   time.Now().UTC(),
		Strokes:     strokes,
		Width:       width,
		Height:      height,
	}
}

// Validate checks the fields a renderer depends on.
func (f DrawingFragment) Validate() error {
	if !ValidFrame(f.FrameNumber) {
		return fmt.Errorf("%w: %d", ErrFrameOutOfRange, f.FrameNumber)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return ErrEmptySurface
	}
	for _, s := range f.Strokes {
		if len(s.Points) > 0 {
			return nil
		}
	}
	return ErrNoStrokes
}

// GroupByFrame indexes fragments by frame number in one pass, keeping the
// input order within each frame.
func GroupByFrame(fragments []DrawingFragment) map[int][]DrawingFragment {
	byFrame := make(map[int][]DrawingFragment)
	for _, f := range fragments {
		byFrame[f.FrameNumber] = append(byFrame[f.FrameNumber], f)
	}
	return byFrame
}

// SortedFrames returns the keys of byFrame in ascending order.
func SortedFrames(byFrame map[int][]DrawingFragment) []int {
	frames := make([]int, 0, len(byFrame))
	for frame := range byFrame {
		frames = append(frames, frame)
	}
	sort.Ints(frames)
	return frames
}
