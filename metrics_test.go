package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewLoopMetrics(t *testing.T) {
	m := newLoopMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	assert.NotNil(t, m.framesRendered)
	assert.NotNil(t, m.fragmentsSaved)
	assert.NotNil(t, m.fragmentsDropped)
	assert.NotPanics(t, func() { m.framesRendered.Add(context.Background(), 1) })
}
