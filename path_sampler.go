package main

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position on the render surface.
type Point = r2.Vec

const (
	// Offsets that decorrelate the horizontal and vertical noise fields.
	xNoiseOffset = 100.0
	yNoiseOffset = 10.0

	xAmplitude = 0.15
	yAmplitude = 0.4
)

// PathSampler turns loop time into the control points of the line.
type PathSampler struct {
	noise *SimplexNoise
}

func NewPathSampler(noise *SimplexNoise) *PathSampler {
	return &PathSampler{noise: noise}
}

// GeneratePoints returns ControlPointCount points ordered left to right.
//
// Time is walked around a circle of radius NoiseTimeRadius in noise space, so
// elapsed and elapsed+LoopDuration sample the same coordinates. The first and
// last points stay pinned to x=0 and x=width; only their heights move.
func (ps *PathSampler) GeneratePoints(elapsed time.Duration, width, height float64) []Point {
	angle := float64(LoopPhase(elapsed)) / float64(LoopDuration) * 2 * math.Pi
	timeX := NoiseTimeRadius * math.Cos(angle)
	timeY := NoiseTimeRadius * math.Sin(angle)

	points := make([]Point, ControlPointCount)
	last := ControlPointCount - 1
	for i := range points {
		t := float64(i) / float64(last)
		p := Point{X: width * t, Y: height / 2}

		fx := float64(i) * NoiseFrequency
		if i != 0 && i != last {
			p.X += ps.noise.Sample3D(fx+xNoiseOffset, timeX, timeY) * width * xAmplitude
		}
		p.Y += ps.noise.Sample3D(fx, timeX+yNoiseOffset, timeY+yNoiseOffset) * height * yAmplitude

		points[i] = p
	}
	return points
}
