package io

import (
	"context"
	"reflect"
	"testing"
)

func TestFrameSensorValidation(t *testing.T) {
	if _, err := NewFrameSensor("", 4); err == nil {
		t.Fatal("expected error for empty sensor name")
	}
	if _, err := NewFrameSensor("vision", 0); err == nil {
		t.Fatal("expected error for non-positive width")
	}
}

func TestFrameSensorReadsZeroFrameBeforeSet(t *testing.T) {
	s, err := NewFrameSensor("vision", 3)
	if err != nil {
		t.Fatalf("new sensor: %v", err)
	}
	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{0, 0, 0}) {
		t.Fatalf("initial frame got=%v want zeros", got)
	}
}

func TestFrameSensorSetPadsAndTruncates(t *testing.T) {
	s, err := NewFrameSensor("vision", 3)
	if err != nil {
		t.Fatalf("new sensor: %v", err)
	}

	s.Set([]float64{1, 2})
	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{1, 2, 0}) {
		t.Fatalf("padded frame got=%v want=[1 2 0]", got)
	}

	s.Set([]float64{4, 5, 6, 7})
	got, err = s.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{4, 5, 6}) {
		t.Fatalf("truncated frame got=%v want=[4 5 6]", got)
	}

	got[0] = 99
	again, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if again[0] == 99 {
		t.Fatal("read must hand out a copy of the frame")
	}
}

func TestCaptureActuatorKeepsLastWrite(t *testing.T) {
	a, err := NewCaptureActuator("motor")
	if err != nil {
		t.Fatalf("new actuator: %v", err)
	}
	if got := a.Last(); len(got) != 0 {
		t.Fatalf("expected empty history, got=%v", got)
	}

	src := []float64{1, -2, 3}
	if err := a.Write(context.Background(), src); err != nil {
		t.Fatalf("write: %v", err)
	}
	src[0] = 42
	if got := a.Last(); !reflect.DeepEqual(got, []float64{1, -2, 3}) {
		t.Fatalf("captured vector got=%v want=[1 -2 3]", got)
	}

	if err := a.Write(context.Background(), []float64{9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := a.Last(); !reflect.DeepEqual(got, []float64{9}) {
		t.Fatalf("latest write got=%v want=[9]", got)
	}
}
