package io

import (
	"context"
	"fmt"
	"sync"
)

// FrameSensor exposes a settable fixed-width feature frame. It starts out
// all-zero so a cortex can tick before the first Set.
type FrameSensor struct {
	name  string
	width int

	mu    sync.RWMutex
	frame []float64
}

func NewFrameSensor(name string, width int) (*FrameSensor, error) {
	if name == "" {
		return nil, fmt.Errorf("sensor name is required")
	}
	if width <= 0 {
		return nil, fmt.Errorf("sensor width must be > 0, got=%d", width)
	}
	return &FrameSensor{name: name, width: width, frame: make([]float64, width)}, nil
}

func (s *FrameSensor) Name() string {
	return s.name
}

func (s *FrameSensor) Width() int {
	return s.width
}

func (s *FrameSensor) Read(_ context.Context) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.frame...), nil
}

// Set replaces the frame. Values beyond the sensor width are dropped and a
// short slice leaves the remaining entries at zero.
func (s *FrameSensor) Set(values []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = make([]float64, s.width)
	copy(s.frame, values)
}

// CaptureActuator records the most recent decision vector written to it.
type CaptureActuator struct {
	name string

	mu   sync.RWMutex
	last []float64
}

func NewCaptureActuator(name string) (*CaptureActuator, error) {
	if name == "" {
		return nil, fmt.Errorf("actuator name is required")
	}
	return &CaptureActuator{name: name}, nil
}

func (a *CaptureActuator) Name() string {
	return a.name
}

func (a *CaptureActuator) Write(_ context.Context, values []float64) error {
	a.mu.Lock()
	a.last = append([]float64(nil), values...)
	a.mu.Unlock()
	return nil
}

func (a *CaptureActuator) Last() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]float64(nil), a.last...)
}
