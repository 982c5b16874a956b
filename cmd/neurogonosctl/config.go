package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"neurogonos/internal/config"
	"neurogonos/internal/model"
	"neurogonos/internal/storage"
	neuroapi "neurogonos/pkg/neurogonos"
)

// breedParams carries the recombination knobs a breed invocation resolves
// from defaults, an optional config file, an optional preset, and explicit
// flags, in that order of precedence.
type breedParams struct {
	Seed              int64
	MutationRate      float64
	MutationMagnitude float64
	AddWidthProb      float64
	AddDepthProb      float64
}

func defaultBreedParams() breedParams {
	return breedParams{
		Seed:              1,
		MutationRate:      neuroapi.DefaultMutationRate,
		MutationMagnitude: neuroapi.DefaultMutationMagnitude,
		AddWidthProb:      neuroapi.DefaultAddWidthProb,
		AddDepthProb:      neuroapi.DefaultAddDepthProb,
	}
}

func resolveBreedParams(configPath, presetName, presetsFile string, set map[string]bool, flagValues map[string]any) (breedParams, error) {
	params := defaultBreedParams()

	if configPath != "" {
		loaded, err := loadBreedParamsFromConfig(configPath)
		if err != nil {
			return breedParams{}, err
		}
		params = loaded
	}

	if presetName != "" {
		var loaded []config.Preset
		if presetsFile != "" {
			var err error
			loaded, err = config.LoadPresets(presetsFile)
			if err != nil {
				return breedParams{}, err
			}
		}
		preset, err := config.Resolve(presetName, loaded)
		if err != nil {
			return breedParams{}, err
		}
		params.MutationRate = preset.MutationRate
		params.MutationMagnitude = preset.MutationMagnitude
		params.AddWidthProb = preset.AddWidthProb
		params.AddDepthProb = preset.AddDepthProb
	}

	overrideFromFlags(&params, set, flagValues)
	return params, nil
}

func loadBreedParamsFromConfig(path string) (breedParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return breedParams{}, fmt.Errorf("load config: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return breedParams{}, fmt.Errorf("load config: %w", err)
	}

	params := defaultBreedParams()
	if v, ok := asInt64(raw["seed"]); ok {
		params.Seed = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		params.MutationRate = v
	}
	if v, ok := asFloat64(raw["mutation_magnitude"]); ok {
		params.MutationMagnitude = v
	}
	if v, ok := asFloat64(raw["add_width_prob"]); ok {
		params.AddWidthProb = v
	}
	if v, ok := asFloat64(raw["add_depth_prob"]); ok {
		params.AddDepthProb = v
	}
	return params, nil
}

// overrideFromFlags applies flags the caller set explicitly on top of
// whatever the config file or preset resolved.
func overrideFromFlags(params *breedParams, set map[string]bool, flagValues map[string]any) {
	for name := range set {
		switch name {
		case "seed":
			if v, ok := asInt64(flagValues[name]); ok {
				params.Seed = v
			}
		case "rate":
			if v, ok := asFloat64(flagValues[name]); ok {
				params.MutationRate = v
			}
		case "mag":
			if v, ok := asFloat64(flagValues[name]); ok {
				params.MutationMagnitude = v
			}
		case "p-width":
			if v, ok := asFloat64(flagValues[name]); ok {
				params.AddWidthProb = v
			}
		case "p-depth":
			if v, ok := asFloat64(flagValues[name]); ok {
				params.AddDepthProb = v
			}
		}
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func parseWidths(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	widths := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad width %q: %w", part, err)
		}
		widths = append(widths, n)
	}
	return widths, nil
}

func parseFloats(spec string) ([]float64, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", part, err)
		}
		values = append(values, f)
	}
	return values, nil
}

func readGenomeFile(path string) (model.Genome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Genome{}, err
	}
	genome, err := storage.DecodeGenome(data)
	if err != nil {
		return model.Genome{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return genome, nil
}

func writeGenomeFile(path string, genome model.Genome) error {
	genome.VersionedRecord = storage.StampVersion()
	data, err := storage.EncodeGenome(genome)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
