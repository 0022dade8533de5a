package model

import (
	"fmt"

	"github.com/atomica-ml/atomica/internal/irreps"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Readout projects node features onto a per-atom energy contribution.
// Intermediate blocks use the plain linear form; the final block uses the
// gated MLP form.
type Readout interface {
	Parameters() []*Parameter
}

// LinearReadout projects the scalar channels straight onto one output.
type LinearReadout struct {
	Weight *Parameter // flat [channels]
}

func newLinearReadout(prefix string, cfg *Config) *LinearReadout {
	channels := cfg.Hidden().Channels()
	return &LinearReadout{
		Weight: NewParameter(
			prefix+".linear.weight",
			tensor.Zeros(tensor.Shape{channels}, tensor.Float64),
		),
	}
}

// Parameters returns the readout's trainable parameters.
func (r *LinearReadout) Parameters() []*Parameter {
	return []*Parameter{r.Weight}
}

// MLPReadout is the gated two-layer readout used after the final
// interaction.
type MLPReadout struct {
	Gate    string
	Linear1 *Parameter // flat [channels * hidden]
	Linear2 *Parameter // flat [hidden]
}

func newMLPReadout(prefix string, cfg *Config) *MLPReadout {
	channels := cfg.Hidden().Channels()
	hidden := irreps.MustParse(cfg.MLPIrreps).Channels()
	return &MLPReadout{
		Gate: cfg.Gate,
		Linear1: NewParameter(
			prefix+".linear_1.weight",
			tensor.Zeros(tensor.Shape{channels * hidden}, tensor.Float64),
		),
		Linear2: NewParameter(
			prefix+".linear_2.weight",
			tensor.Zeros(tensor.Shape{hidden}, tensor.Float64),
		),
	}
}

// Parameters returns the readout's trainable parameters.
func (r *MLPReadout) Parameters() []*Parameter {
	return []*Parameter{r.Linear1, r.Linear2}
}

// ScaleShift rescales and shifts the summed interaction energy. Both values
// are buffers, not trained parameters.
type ScaleShift struct {
	Scale *tensor.Tensor // scalar
	Shift *tensor.Tensor // scalar
}

func newScaleShift(cfg *Config) *ScaleShift {
	return &ScaleShift{
		Scale: tensor.Scalar(cfg.AtomicInterScale),
		Shift: tensor.Scalar(cfg.AtomicInterShift),
	}
}

// AtomicEnergies holds the per-element reference energies, indexed by
// position in the element table. A buffer, not trained.
type AtomicEnergies struct {
	Energies *tensor.Tensor // [species]
}

func newAtomicEnergies(cfg *Config) *AtomicEnergies {
	t := tensor.Zeros(tensor.Shape{cfg.NumElements()}, tensor.Float64)
	values := t.AsFloat64()
	for i, e := range cfg.AtomicEnergies {
		values[i] = e
	}
	return &AtomicEnergies{Energies: t}
}

// loadParameters copies named tensors from src into the given parameters,
// validating presence, dtype, and shape.
func loadParameters(src map[string]*tensor.Tensor, params ...*Parameter) error {
	for _, p := range params {
		t, ok := src[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if t.DType() != p.Value().DType() {
			return fmt.Errorf("%s dtype mismatch: expected %v, got %v",
				p.Name(), p.Value().DType(), t.DType())
		}
		if !t.Shape().Equal(p.Value().Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v",
				p.Name(), p.Value().Shape(), t.Shape())
		}
		copy(p.Value().Data(), t.Data())
	}
	return nil
}
