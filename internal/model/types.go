package model

// Fixed interface dimensions of an agent brain and the structural bounds
// recombination is allowed to explore.
const (
	InputDim  = 16
	OutputDim = 5

	MinHiddenUnits  = 8
	MaxHiddenUnits  = 40
	MaxHiddenLayers = 4
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Layer is one dense transition of a feed-forward net. Weights is a flat
// row-major OutDim x InDim block: Weights[o*InDim+i] connects input i to
// output o. len(Weights) == OutDim*InDim and len(Biases) == OutDim.
type Layer struct {
	InDim   int       `json:"in_dim"`
	OutDim  int       `json:"out_dim"`
	Weights []float64 `json:"weights"`
	Biases  []float64 `json:"biases"`
}

// Genome is an ordered chain of layers; the last layer is the output layer.
// A well-formed genome starts at InputDim, ends at OutputDim, has matching
// adjacent dimensions, and carries 1..MaxHiddenLayers hidden layers whose
// widths stay within [MinHiddenUnits, MaxHiddenUnits].
type Genome struct {
	VersionedRecord
	ID     string  `json:"id"`
	Layers []Layer `json:"layers"`
}

// RunRecord archives one recombination run executed by the tooling.
type RunRecord struct {
	VersionedRecord
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	CreatedAtUTC string  `json:"created_at_utc"`
	Seed         int64   `json:"seed"`
	Iterations   int     `json:"iterations"`
	MutationRate float64 `json:"mutation_rate"`
	MutationMag  float64 `json:"mutation_mag"`
	AddWidthProb float64 `json:"add_width_prob"`
	AddDepthProb float64 `json:"add_depth_prob"`
	DadWidths    []int   `json:"dad_widths"`
	MomWidths    []int   `json:"mom_widths"`
}

// LineageRecord ties one child genome to the parents that produced it.
type LineageRecord struct {
	VersionedRecord
	RunID        string `json:"run_id"`
	ChildID      string `json:"child_id"`
	DadID        string `json:"dad_id"`
	MomID        string `json:"mom_id"`
	ChildWidths  []int  `json:"child_widths"`
	CreatedAtUTC string `json:"created_at_utc"`
}
