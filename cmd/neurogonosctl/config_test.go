package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"neurogonos/internal/genotype"
	"neurogonos/internal/storage"
)

func TestResolveBreedParamsDefaults(t *testing.T) {
	params, err := resolveBreedParams("", "", "", nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(params, defaultBreedParams()) {
		t.Fatalf("expected defaults, got %+v", params)
	}
}

func TestResolveBreedParamsConfigFile(t *testing.T) {
	params, err := resolveBreedParams("testdata/breed_config.json", "", "", nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := breedParams{
		Seed:              7,
		MutationRate:      0.02,
		MutationMagnitude: 0.05,
		AddWidthProb:      0.15,
		AddDepthProb:      0.1,
	}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("config params mismatch: got %+v want %+v", params, want)
	}
}

func TestResolveBreedParamsPresetOverridesConfig(t *testing.T) {
	params, err := resolveBreedParams("testdata/breed_config.json", "aggressive", "testdata/presets.ini", nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if params.Seed != 7 {
		t.Fatalf("preset must not touch the seed: got %d", params.Seed)
	}
	if params.MutationRate != 0.2 || params.MutationMagnitude != 0.3 {
		t.Fatalf("preset rate/mag not applied: %+v", params)
	}
	if params.AddWidthProb != 0.6 || params.AddDepthProb != 0.4 {
		t.Fatalf("preset growth probs not applied: %+v", params)
	}
}

func TestResolveBreedParamsFlagsWin(t *testing.T) {
	set := map[string]bool{"seed": true, "rate": true}
	flagValues := map[string]any{"seed": int64(99), "rate": 0.5}
	params, err := resolveBreedParams("testdata/breed_config.json", "aggressive", "testdata/presets.ini", set, flagValues)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if params.Seed != 99 {
		t.Fatalf("explicit seed flag lost: got %d", params.Seed)
	}
	if params.MutationRate != 0.5 {
		t.Fatalf("explicit rate flag lost: got %g", params.MutationRate)
	}
	if params.MutationMagnitude != 0.3 {
		t.Fatalf("unset mag should keep preset value: got %g", params.MutationMagnitude)
	}
}

func TestResolveBreedParamsUnknownPreset(t *testing.T) {
	if _, err := resolveBreedParams("", "volcanic", "", nil, nil); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestResolveBreedParamsMissingConfig(t *testing.T) {
	if _, err := resolveBreedParams("testdata/nope.json", "", "", nil, nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestParseWidths(t *testing.T) {
	cases := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{name: "empty", spec: "", want: nil},
		{name: "blank", spec: "   ", want: nil},
		{name: "single", spec: "20", want: []int{20}},
		{name: "pair with spaces", spec: "12, 16", want: []int{12, 16}},
		{name: "garbage", spec: "12,x", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseWidths(tc.spec)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseWidths(%q): %v", tc.spec, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseWidths(%q) = %v, want %v", tc.spec, got, tc.want)
			}
		})
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("0.5, -1.25,3")
	if err != nil {
		t.Fatalf("parseFloats: %v", err)
	}
	want := []float64{0.5, -1.25, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseFloats = %v, want %v", got, want)
	}
	if _, err := parseFloats("1.0,oops"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestGenomeFileRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	genome, err := genotype.FromHiddenWidths([]int{12, 16}, rng)
	if err != nil {
		t.Fatalf("build genome: %v", err)
	}
	genome.ID = "file-trip"

	path := filepath.Join(t.TempDir(), "genome.json")
	if err := writeGenomeFile(path, genome); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := readGenomeFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if loaded.SchemaVersion != storage.CurrentSchemaVersion || loaded.CodecVersion != storage.CurrentCodecVersion {
		t.Fatalf("file not version stamped: %+v", loaded.VersionedRecord)
	}
	genome.VersionedRecord = storage.StampVersion()
	if !reflect.DeepEqual(loaded, genome) {
		t.Fatal("loaded genome differs from written genome")
	}
}

func TestReadGenomeFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := readGenomeFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}
