package loader

import (
	"fmt"
	"strings"
)

// Export conventions we can translate.
const (
	SourceMACETorch = "mace-torch"
)

// WeightMapper translates tensor names from an external export into the
// names used by model state dicts.
type WeightMapper interface {
	// MapName returns the internal name for an exported tensor. The
	// second result is false when the entry is not a model weight
	// (cutoff buffers, cached contraction matrices) and should be
	// skipped rather than loaded.
	MapName(name string) (string, bool)

	// Source returns the export convention name (e.g., "mace-torch").
	Source() string
}

// MACETorchMapper translates the state dict of a PyTorch ScaleShiftMACE
// model. Most names carry over directly; the exceptions are the radial
// embedding (the PyTorch module nests the Bessel basis one level deeper),
// the symmetric contractions (nested under an extra submodule), and the
// atomic energies.
type MACETorchMapper struct{}

// NewMACETorchMapper creates a mapper for PyTorch MACE exports.
func NewMACETorchMapper() *MACETorchMapper {
	return &MACETorchMapper{}
}

// Source returns "mace-torch".
func (m *MACETorchMapper) Source() string {
	return SourceMACETorch
}

// MapName converts a PyTorch MACE weight name to our standard name.
func (m *MACETorchMapper) MapName(name string) (string, bool) {
	switch name {
	case "node_embedding.linear.weight", "scale_shift.scale", "scale_shift.shift":
		return name, true
	case "radial_embedding.bessel_fn.bessel_weights":
		return "radial_embedding.bessel_weights", true
	case "atomic_energies_fn.atomic_energies":
		return "atomic_energies.energies", true
	}

	parts := strings.Split(name, ".")
	switch parts[0] {
	case "interactions":
		return name, isInteractionWeight(parts)
	case "products":
		return mapProductWeight(parts)
	case "readouts":
		return name, isReadoutWeight(parts)
	}

	return "", false
}

// isInteractionWeight reports whether an interactions.<i>... name refers
// to a weight our interaction blocks carry.
func isInteractionWeight(parts []string) bool {
	switch len(parts) {
	case 3:
		// avg_num_neighbors is a plain attribute in PyTorch and
		// normally absent from exports, but accept it when present.
		return parts[2] == "avg_num_neighbors"
	case 4:
		if parts[3] != "weight" {
			return false
		}
		switch parts[2] {
		case "linear_up", "linear", "skip_tp":
			return true
		}
	case 5:
		return parts[2] == "conv_tp_weights" &&
			strings.HasPrefix(parts[3], "layer") &&
			parts[4] == "weight"
	}
	return false
}

// mapProductWeight handles products.<i>... names. The PyTorch module tree
// nests contractions under a symmetric_contractions submodule that our
// naming flattens away. Cached U_matrix buffers are skipped.
func mapProductWeight(parts []string) (string, bool) {
	if len(parts) == 4 && parts[2] == "linear" && parts[3] == "weight" {
		return strings.Join(parts, "."), true
	}

	if len(parts) >= 6 && parts[2] == "symmetric_contractions" && parts[3] == "contractions" {
		switch {
		case len(parts) == 6 && parts[5] == "weights_max":
			return fmt.Sprintf("products.%s.contractions.%s.weights_max", parts[1], parts[4]), true
		case len(parts) == 7 && parts[5] == "weights":
			return fmt.Sprintf("products.%s.contractions.%s.weights.%s", parts[1], parts[4], parts[6]), true
		}
	}

	return "", false
}

// isReadoutWeight reports whether a readouts.<i>... name refers to a
// linear layer of the energy readouts.
func isReadoutWeight(parts []string) bool {
	if len(parts) != 4 || parts[3] != "weight" {
		return false
	}
	switch parts[2] {
	case "linear", "linear_1", "linear_2":
		return true
	}
	return false
}

// DetectSource inspects tensor names and guesses the export convention.
// Returns an empty string when no convention is recognized.
func DetectSource(names []string) string {
	for _, name := range names {
		if name == "atomic_energies_fn.atomic_energies" ||
			name == "radial_embedding.bessel_fn.bessel_weights" ||
			strings.Contains(name, ".symmetric_contractions.") {
			return SourceMACETorch
		}
	}
	return ""
}

// GetMapper returns the appropriate mapper for an export convention.
func GetMapper(source string) (WeightMapper, error) {
	switch source {
	case SourceMACETorch:
		return NewMACETorchMapper(), nil
	default:
		return nil, fmt.Errorf("no weight mapper for source: %s", source)
	}
}
