package agent

import (
	"context"
	"fmt"

	agentio "neurogonos/internal/io"
	"neurogonos/internal/model"
	"neurogonos/internal/nn"
)

// Cortex binds one genome to its perception/actuation loop. Sensor reads
// are concatenated in registration order into the input frame; the
// decision vector is fanned out across the actuators after every step.
type Cortex struct {
	id        string
	genome    model.Genome
	sensors   []agentio.Sensor
	actuators []agentio.Actuator
}

func NewCortex(id string, genome model.Genome, sensors []agentio.Sensor, actuators []agentio.Actuator) (*Cortex, error) {
	if id == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if len(genome.Layers) == 0 {
		return nil, fmt.Errorf("genome has no layers")
	}
	return &Cortex{
		id:        id,
		genome:    genome,
		sensors:   append([]agentio.Sensor(nil), sensors...),
		actuators: append([]agentio.Actuator(nil), actuators...),
	}, nil
}

func (c *Cortex) ID() string {
	return c.id
}

// Tick assembles the input frame from the sensors and runs one step.
func (c *Cortex) Tick(ctx context.Context) ([]float64, error) {
	inputs := make([]float64, 0, c.genome.Layers[0].InDim)
	for _, sensor := range c.sensors {
		values, err := sensor.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", sensor.Name(), err)
		}
		inputs = append(inputs, values...)
	}
	return c.RunStep(ctx, inputs)
}

// RunStep evaluates one prepared input frame and writes the decision
// vector to the actuators.
func (c *Cortex) RunStep(ctx context.Context, inputs []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outputs, err := nn.Forward(c.genome, inputs)
	if err != nil {
		return nil, err
	}

	if len(c.actuators) > 0 {
		chunks, err := splitOutputsForActuators(outputs, len(c.actuators))
		if err != nil {
			return nil, err
		}
		for i, actuator := range c.actuators {
			if err := actuator.Write(ctx, chunks[i]); err != nil {
				return nil, fmt.Errorf("actuator %s: %w", actuator.Name(), err)
			}
		}
	}
	return outputs, nil
}

func splitOutputsForActuators(outputs []float64, actuatorCount int) ([][]float64, error) {
	if actuatorCount <= 0 {
		return nil, fmt.Errorf("actuator count must be > 0")
	}
	// Keep one-to-many compatibility: a single actuator receives the full
	// decision vector, while N actuators receive equal contiguous slices.
	if actuatorCount == 1 {
		return [][]float64{append([]float64(nil), outputs...)}, nil
	}
	if len(outputs)%actuatorCount != 0 {
		return nil, fmt.Errorf("actuator/output shape mismatch: outputs=%d actuators=%d", len(outputs), actuatorCount)
	}
	chunkSize := len(outputs) / actuatorCount
	chunks := make([][]float64, 0, actuatorCount)
	for i := 0; i < actuatorCount; i++ {
		start := i * chunkSize
		chunks = append(chunks, append([]float64(nil), outputs[start:start+chunkSize]...))
	}
	return chunks, nil
}
