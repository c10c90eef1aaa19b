package main

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "noise_loop"

type loopMetrics struct {
	framesRendered   metric.Int64Counter
	fragmentsSaved   metric.Int64Counter
	fragmentsDropped metric.Int64Counter
}

// metrics records against the global meter provider, a no-op unless the
// host installs one.
var metrics = newLoopMetrics(otel.Meter(instrumentationName))

func newLoopMetrics(m metric.Meter) *loopMetrics {
	return &loopMetrics{
		framesRendered:   counter(m, "loop.frames.rendered", "Frames passed to a render surface"),
		fragmentsSaved:   counter(m, "loop.fragments.saved", "Fragments persisted"),
		fragmentsDropped: counter(m, "loop.fragments.dropped", "Fragments rejected or lost to storage errors"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
