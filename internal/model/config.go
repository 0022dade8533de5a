// Package model implements the parameter container for MACE-family
// equivariant interatomic potentials: an explicit configuration schema plus
// the module tree holding every weight tensor. The package covers
// construction, state-dict access, and persistence. It does not evaluate the
// potential.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/atomica-ml/atomica/internal/irreps"
)

// SchemaVersion identifies the configuration schema written to and read from
// model files. Bump on incompatible schema changes.
const SchemaVersion = 1

// BlockKind distinguishes the interaction block variants, which differ in
// how the per-species skip connection is laid out.
type BlockKind int

// Known interaction block variants.
const (
	// BlockResidual carries a per-species residual skip connection over the
	// node features. Skip weights have one species axis between two channel
	// axes.
	BlockResidual BlockKind = iota
	// BlockStandard is the density-normalized block without a residual path.
	// Skip weights carry an extra angular axis ahead of the species axis.
	BlockStandard
)

// String returns the tag written to configuration documents.
func (k BlockKind) String() string {
	switch k {
	case BlockResidual:
		return "residual"
	case BlockStandard:
		return "standard"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// ParseBlockKind parses a block tag as written by String.
func ParseBlockKind(s string) (BlockKind, error) {
	switch s {
	case "residual":
		return BlockResidual, nil
	case "standard":
		return BlockStandard, nil
	default:
		return 0, fmt.Errorf("unknown interaction block kind %q", s)
	}
}

// MarshalJSON writes the kind as its tag string.
func (k BlockKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads a tag string, rejecting unknown tags.
func (k *BlockKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBlockKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// RadialKind distinguishes the radial basis variants.
type RadialKind int

// Known radial bases. Only the Bessel basis carries learnable weights.
const (
	RadialBessel RadialKind = iota
	RadialGaussian
	RadialChebyshev
)

// String returns the tag written to configuration documents.
func (k RadialKind) String() string {
	switch k {
	case RadialBessel:
		return "bessel"
	case RadialGaussian:
		return "gaussian"
	case RadialChebyshev:
		return "chebyshev"
	default:
		return fmt.Sprintf("RadialKind(%d)", int(k))
	}
}

// ParseRadialKind parses a radial basis tag as written by String.
func ParseRadialKind(s string) (RadialKind, error) {
	switch s {
	case "bessel":
		return RadialBessel, nil
	case "gaussian":
		return RadialGaussian, nil
	case "chebyshev":
		return RadialChebyshev, nil
	default:
		return 0, fmt.Errorf("unknown radial basis kind %q", s)
	}
}

// MarshalJSON writes the kind as its tag string.
func (k RadialKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads a tag string, rejecting unknown tags.
func (k *RadialKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRadialKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TransformKind distinguishes the distance transforms applied ahead of the
// radial basis. None of them carry learnable weights.
type TransformKind int

// Known distance transforms.
const (
	TransformNone TransformKind = iota
	TransformAgnesi
	TransformSoft
)

// String returns the tag written to configuration documents.
func (k TransformKind) String() string {
	switch k {
	case TransformNone:
		return "none"
	case TransformAgnesi:
		return "agnesi"
	case TransformSoft:
		return "soft"
	default:
		return fmt.Sprintf("TransformKind(%d)", int(k))
	}
}

// ParseTransformKind parses a distance transform tag as written by String.
func ParseTransformKind(s string) (TransformKind, error) {
	switch s {
	case "none", "":
		return TransformNone, nil
	case "agnesi":
		return TransformAgnesi, nil
	case "soft":
		return TransformSoft, nil
	default:
		return 0, fmt.Errorf("unknown distance transform kind %q", s)
	}
}

// MarshalJSON writes the kind as its tag string.
func (k TransformKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads a tag string, rejecting unknown tags.
func (k *TransformKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTransformKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Config is the explicit, versioned description of a model architecture.
// A model carries its Config from construction on; persistence and rebuild
// read architecture facts from here rather than from the module tree.
type Config struct {
	SchemaVersion int `json:"schema_version"`

	// Geometry and radial basis.
	RMax                float64       `json:"r_max"`
	NumBessel           int           `json:"num_bessel"`
	NumPolynomialCutoff int           `json:"num_polynomial_cutoff"`
	RadialType          RadialKind    `json:"radial_type"`
	DistanceTransform   TransformKind `json:"distance_transform"`

	// Message passing.
	MaxEll           int       `json:"max_ell"`
	Interaction      BlockKind `json:"interaction_cls"`
	InteractionFirst BlockKind `json:"interaction_cls_first"`
	NumInteractions  int       `json:"num_interactions"`
	HiddenIrreps     string    `json:"hidden_irreps"`
	AvgNumNeighbors  float64   `json:"avg_num_neighbors"`
	Correlation      int       `json:"correlation"`
	RadialMLP        []int     `json:"radial_mlp"`
	PairRepulsion    bool      `json:"pair_repulsion"`

	// Readout.
	MLPIrreps string `json:"mlp_irreps"`
	Gate      string `json:"gate"`

	// Element vocabulary and per-element constants. AtomicEnergies is
	// indexed by position in AtomicNumbers.
	AtomicNumbers  []int     `json:"atomic_numbers"`
	AtomicEnergies []float64 `json:"atomic_energies"`

	// Output scaling.
	AtomicInterScale float64 `json:"atomic_inter_scale"`
	AtomicInterShift float64 `json:"atomic_inter_shift"`
}

// NumElements returns the number of species in the vocabulary.
func (c *Config) NumElements() int {
	return len(c.AtomicNumbers)
}

// Hidden returns the parsed hidden-feature irreps.
// Call Validate first; Hidden panics on an unparseable descriptor.
func (c *Config) Hidden() irreps.Irreps {
	return irreps.MustParse(c.HiddenIrreps)
}

// Validate checks internal consistency of the configuration.
func (c *Config) Validate() error {
	if c.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (want %d)", c.SchemaVersion, SchemaVersion)
	}
	if c.RMax <= 0 {
		return fmt.Errorf("r_max must be positive, got %v", c.RMax)
	}
	if c.NumBessel <= 0 {
		return fmt.Errorf("num_bessel must be positive, got %d", c.NumBessel)
	}
	if c.NumPolynomialCutoff <= 0 {
		return fmt.Errorf("num_polynomial_cutoff must be positive, got %d", c.NumPolynomialCutoff)
	}
	if c.MaxEll < 0 {
		return fmt.Errorf("max_ell must be non-negative, got %d", c.MaxEll)
	}
	if c.NumInteractions < 1 {
		return fmt.Errorf("num_interactions must be at least 1, got %d", c.NumInteractions)
	}
	if c.Correlation < 1 {
		return fmt.Errorf("correlation must be at least 1, got %d", c.Correlation)
	}
	if len(c.RadialMLP) != 3 {
		return fmt.Errorf("radial_mlp must list exactly 3 hidden widths, got %v", c.RadialMLP)
	}
	for _, h := range c.RadialMLP {
		if h <= 0 {
			return fmt.Errorf("radial_mlp widths must be positive, got %v", c.RadialMLP)
		}
	}
	if len(c.AtomicNumbers) == 0 {
		return fmt.Errorf("atomic_numbers is empty")
	}
	for _, z := range c.AtomicNumbers {
		if z < 1 {
			return fmt.Errorf("atomic number %d is not positive", z)
		}
	}
	if len(c.AtomicEnergies) != 0 && len(c.AtomicEnergies) != len(c.AtomicNumbers) {
		return fmt.Errorf("atomic_energies has %d entries for %d elements",
			len(c.AtomicEnergies), len(c.AtomicNumbers))
	}
	if c.AvgNumNeighbors <= 0 {
		return fmt.Errorf("avg_num_neighbors must be positive, got %v", c.AvgNumNeighbors)
	}

	hidden, err := irreps.Parse(c.HiddenIrreps)
	if err != nil {
		return fmt.Errorf("hidden_irreps: %w", err)
	}
	if hidden.Channels() == 0 {
		return fmt.Errorf("hidden_irreps %q has no scalar channels", c.HiddenIrreps)
	}
	if natural := irreps.Natural(hidden.Channels(), hidden.Lmax()); hidden.String() != natural.String() {
		return fmt.Errorf("hidden_irreps %q must use the natural layout %q", c.HiddenIrreps, natural)
	}
	mlp, err := irreps.Parse(c.MLPIrreps)
	if err != nil {
		return fmt.Errorf("mlp_irreps: %w", err)
	}
	if mlp.Channels() == 0 {
		return fmt.Errorf("mlp_irreps %q has no scalar channels", c.MLPIrreps)
	}
	return nil
}

// MarshalJSONIndent renders the configuration as an indented document for
// display and embedding in model files.
func (c *Config) MarshalJSONIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ParseConfig decodes and validates a configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse model config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	return &c, nil
}
