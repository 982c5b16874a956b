package io

import "context"

type Sensor interface {
	Name() string
	Read(ctx context.Context) ([]float64, error)
}

type Actuator interface {
	Name() string
	Write(ctx context.Context, values []float64) error
}

// VectorSensorSetter is an optional sensor capability for callers that
// drive a sensor's next frame from outside.
type VectorSensorSetter interface {
	Set(values []float64)
}

// SnapshotActuator is an optional actuator capability for callers that
// inspect the most recent actuator output.
type SnapshotActuator interface {
	Last() []float64
}
