package main

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
	"gonum.org/v1/gonum/dsp/window"
)

// Ambience is the session's background sound. The player feeds it every
// rendered line and closes it on exit.
type Ambience interface {
	SetLine(points []Point, height float64)
	Close() error
}

// silentAmbience is used when audio is disabled or unavailable.
type silentAmbience struct{}

func (silentAmbience) SetLine([]Point, float64) {}
func (silentAmbience) Close() error             { return nil }

// MediaDucker reports whether another media player is currently playing.
type MediaDucker interface {
	OtherPlayerActive() bool
	Close() error
}

const (
	droneSampleRate      = 44100
	droneFramesPerBuffer = 512
	droneBaseFreq        = 110.0
	droneFadeSamples     = droneSampleRate // one second fade in
	duckPollInterval     = 2 * time.Second
	freqGlide            = 0.0005
)

// AmbientDrone plays a soft sine through the default output device. Its
// pitch follows the height of the line: one octave above droneBaseFreq at
// the top of the surface, droneBaseFreq at the bottom.
type AmbientDrone struct {
	stream *portaudio.Stream
	sine   *SineTable
	volume float64
	fade   []float64
	ducker MediaDucker

	// Written by the player and the duck poller, read by the audio callback.
	targetFreq atomic.Uint64
	ducked     atomic.Bool

	// Owned by the audio callback.
	phase   float64
	freq    float64
	fadePos int

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewAmbientDrone opens and starts the output stream. ducker may be nil.
func NewAmbientDrone(cfg AudioConfig, ducker MediaDucker) (*AmbientDrone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	d := &AmbientDrone{
		sine:   NewSineTable(),
		volume: cfg.Volume,
		fade:   fadeInRamp(droneFadeSamples),
		ducker: ducker,
		freq:   droneBaseFreq,
		stop:   make(chan struct{}),
	}
	d.targetFreq.Store(math.Float64bits(droneBaseFreq))

	stream, err := portaudio.OpenDefaultStream(0, 1, droneSampleRate, droneFramesPerBuffer, d.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start output stream: %w", err)
	}
	d.stream = stream

	if ducker != nil {
		d.wg.Add(1)
		go d.duckLoop()
	}

	Log.Info().Float64("volume", cfg.Volume).Bool("duck", ducker != nil).Msg("Ambient drone started")
	return d, nil
}

// fadeInRamp is the rising half of a Hann window over n samples.
func fadeInRamp(n int) []float64 {
	seq := make([]float64, 2*n)
	for i := range seq {
		seq[i] = 1
	}
	return window.Hann(seq)[:n]
}

// SetLine retunes the drone to the mean height of points.
func (d *AmbientDrone) SetLine(points []Point, height float64) {
	if len(points) == 0 || height <= 0 {
		return
	}
	var sum float64
	for _, p := range points {
		sum += p.Y
	}
	norm := math.Max(0, math.Min(1, sum/float64(len(points))/height))
	d.targetFreq.Store(math.Float64bits(droneBaseFreq * math.Pow(2, 1-norm)))
}

func (d *AmbientDrone) process(out []float32) {
	target := math.Float64frombits(d.targetFreq.Load())
	gain := d.volume
	if d.ducked.Load() {
		gain = 0
	}

	for i := range out {
		// Glide towards the target so retuning at 10 fps does not click.
		d.freq += (target - d.freq) * freqGlide
		d.phase += 2 * math.Pi * d.freq / droneSampleRate
		if d.phase > 2*math.Pi {
			d.phase -= 2 * math.Pi
		}

		env := 1.0
		if d.fadePos < len(d.fade) {
			env = d.fade[d.fadePos]
			d.fadePos++
		}
		out[i] = float32(d.sine.Sin(d.phase) * gain * env)
	}
}

func (d *AmbientDrone) duckLoop() {
	defer d.wg.Done()
	ticker := time.NewTicker(duckPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			active := d.ducker.OtherPlayerActive()
			if d.ducked.Swap(active) != active {
				Log.Debug().Bool("ducked", active).Msg("Ambient drone ducking changed")
			}
		}
	}
}

// Close stops the stream and releases portaudio.
func (d *AmbientDrone) Close() error {
	var err error
	d.stopOnce.Do(func() {
		close(d.stop)
		d.wg.Wait()
		if d.ducker != nil {
			d.ducker.Close()
		}
		if stopErr := d.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		d.stream.Close()
		if termErr := portaudio.Terminate(); termErr != nil && err == nil {
			err = termErr
		}
		Log.Info().Msg("Ambient drone stopped")
	})
	return err
}

// NewAmbience builds the session's ambience from cfg, falling back to
// silence when audio is disabled or the device cannot be opened.
func NewAmbience(cfg AudioConfig) Ambience {
	if !cfg.Enabled {
		return silentAmbience{}
	}

	var ducker MediaDucker
	if cfg.DuckForMedia {
		watcher, err := NewMediaSessionWatcher()
		if err != nil {
			Log.Warn().Err(err).Msg("Media session watcher unavailable, not ducking")
		} else {
			ducker = watcher
		}
	}

	drone, err := NewAmbientDrone(cfg, ducker)
	if err != nil {
		Log.Warn().Err(err).Msg("Audio unavailable, continuing silently")
		if ducker != nil {
			ducker.Close()
		}
		return silentAmbience{}
	}
	return drone
}
