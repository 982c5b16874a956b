package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Preset is one named recombination parameter set.
type Preset struct {
	Name              string  `ini:"-"`
	MutationRate      float64 `ini:"mutation_rate"`
	MutationMagnitude float64 `ini:"mutation_magnitude"`
	AddWidthProb      float64 `ini:"add_width_prob"`
	AddDepthProb      float64 `ini:"add_depth_prob"`
}

// DefaultPresets are the built-in parameter sets available without a file.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "default", MutationRate: 0.05, MutationMagnitude: 0.1, AddWidthProb: 0.3, AddDepthProb: 0.2},
		{Name: "explore", MutationRate: 0.15, MutationMagnitude: 0.25, AddWidthProb: 0.5, AddDepthProb: 0.35},
		{Name: "stable", MutationRate: 0.01, MutationMagnitude: 0.05, AddWidthProb: 0.1, AddDepthProb: 0.05},
	}
}

// LoadPresets reads named presets from an INI file, one section per preset.
// Missing keys stay zero; out-of-range values are rejected here rather than
// at breeding time.
func LoadPresets(path string) ([]Preset, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("load presets %s: %w", path, err)
	}

	presets := make([]Preset, 0, len(cfg.Sections()))
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		p := Preset{Name: section.Name()}
		if err := section.MapTo(&p); err != nil {
			return nil, fmt.Errorf("map preset [%s]: %w", section.Name(), err)
		}
		if err := validatePreset(p); err != nil {
			return nil, fmt.Errorf("preset [%s]: %w", section.Name(), err)
		}
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// Resolve finds a named preset, searching the given presets first and the
// built-ins second.
func Resolve(name string, presets []Preset) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	for _, p := range DefaultPresets() {
		if p.Name == name {
			return p, nil
		}
	}

	available := make([]string, 0, len(presets)+len(DefaultPresets()))
	for _, p := range presets {
		available = append(available, p.Name)
	}
	for _, p := range DefaultPresets() {
		available = append(available, p.Name)
	}
	sort.Strings(available)
	return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(available, ", "))
}

func validatePreset(p Preset) error {
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("mutation_rate must be in [0,1], got=%v", p.MutationRate)
	}
	if p.MutationMagnitude < 0 {
		return fmt.Errorf("mutation_magnitude must be >= 0, got=%v", p.MutationMagnitude)
	}
	if p.AddWidthProb < 0 || p.AddWidthProb > 1 {
		return fmt.Errorf("add_width_prob must be in [0,1], got=%v", p.AddWidthProb)
	}
	if p.AddDepthProb < 0 || p.AddDepthProb > 1 {
		return fmt.Errorf("add_depth_prob must be in [0,1], got=%v", p.AddDepthProb)
	}
	return nil
}
