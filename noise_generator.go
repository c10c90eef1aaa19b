package main

import (
	"math"
	"time"

	"github.com/ojrac/opensimplex-go"
)

// ShimmerGenerator produces the brightness flicker along the line in the
// terminal player. It is purely cosmetic and independent of the seeded
// simplex source that shapes the line.
type ShimmerGenerator struct {
	noise opensimplex.Noise
}

func NewShimmerGenerator(seed int64) *ShimmerGenerator {
	return &ShimmerGenerator{noise: opensimplex.New(seed)}
}

// GenerateFBM sums octaves of 3D noise, normalized to [-1, 1].
func (sg *ShimmerGenerator) GenerateFBM(x, y, z float64, octaves int, persistence float64) float64 {
	var total, frequency, amplitude, maxValue float64 = 0, 1, 1, 0

	for i := 0; i < octaves; i++ {
		total += sg.noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxValue
}

// Glow is the brightness in [0.55, 1] at horizontal position u (0..1 across
// the surface). Time runs around a circle like the line itself, so the
// shimmer loops with the animation.
func (sg *ShimmerGenerator) Glow(u float64, elapsed time.Duration) float64 {
	angle := float64(LoopPhase(elapsed)) / float64(LoopDuration) * 2 * math.Pi
	const radius = 6.0
	n := sg.GenerateFBM(u*4, radius*math.Cos(angle), radius*math.Sin(angle), 3, 0.5)
	return 0.775 + 0.225*n
}
