// Package finetune seeds a new model with the learned weights of a
// pretrained foundation model so training can continue on a different
// chemical-element vocabulary.
package finetune

import (
	"fmt"
	"math"

	"github.com/atomica-ml/atomica/internal/elements"
	"github.com/atomica-ml/atomica/internal/model"
)

// DefaultMaxL is the angular resolution assumed for the skip-connection
// layout of density-normalized interaction blocks when Options.MaxL is zero.
const DefaultMaxL = 2

// Options control the optional parts of a transplant.
type Options struct {
	// LoadReadouts copies the readout head weights.
	LoadReadouts bool

	// UseScale and UseShift copy the global energy scale and shift
	// scalars, gated independently.
	UseScale bool
	UseShift bool

	// MaxL is the angular resolution of the skip-connection weight layout
	// in density-normalized blocks. Zero means DefaultMaxL.
	MaxL int
}

// DefaultOptions returns the conventional transplant settings: readouts and
// shift stay untouched, the energy scale carries over.
func DefaultOptions() Options {
	return Options{UseScale: true, MaxL: DefaultMaxL}
}

// LoadFoundations transplants every learned weight of foundation into
// target, re-indexing species-dependent tensors through table and rescaling
// the affected ones by sqrt(len(table) / foundation species) to preserve
// feature variance under the vocabulary change. table lists the target's
// elements in model row order; every entry must exist in the foundation's
// own table. Both models must share the same cutoff radius.
//
// target is mutated in place and returned; foundation is only read.
func LoadFoundations(target, foundation *model.Model, table *elements.Table, opts Options) (*model.Model, error) {
	if opts.MaxL == 0 {
		opts.MaxL = DefaultMaxL
	}
	if target.Config.RMax != foundation.Config.RMax {
		return nil, fmt.Errorf("cutoff mismatch: target r_max %v, foundation r_max %v",
			target.Config.RMax, foundation.Config.RMax)
	}

	mapping, err := elements.IndicesFor(table.Zs(), foundation.Table)
	if err != nil {
		return nil, fmt.Errorf("target element missing from foundation table: %w", err)
	}

	tr := &transplanter{
		target:     target,
		foundation: foundation,
		mapping:    mapping,
		channels:   foundation.NodeEmbedding.Channels,
		speciesF:   foundation.Table.Len(),
		scale:      math.Sqrt(float64(table.Len()) / float64(foundation.Table.Len())),
		maxL:       opts.MaxL,
	}

	if err := tr.nodeEmbedding(); err != nil {
		return nil, err
	}
	if err := tr.radialBasis(); err != nil {
		return nil, err
	}
	if err := tr.interactions(); err != nil {
		return nil, err
	}
	if err := tr.products(); err != nil {
		return nil, err
	}
	if opts.LoadReadouts {
		if err := tr.readouts(); err != nil {
			return nil, err
		}
	}
	if opts.UseScale {
		if err := target.ScaleShift.Scale.CopyFrom(foundation.ScaleShift.Scale); err != nil {
			return nil, fmt.Errorf("scale_shift.scale: %w", err)
		}
	}
	if opts.UseShift {
		if err := target.ScaleShift.Shift.CopyFrom(foundation.ScaleShift.Shift); err != nil {
			return nil, fmt.Errorf("scale_shift.shift: %w", err)
		}
	}

	return target, nil
}

// transplanter carries the shared facts of one transplant run.
type transplanter struct {
	target     *model.Model
	foundation *model.Model
	mapping    []int   // target row -> foundation row
	channels   int     // feature channels, shared by both models
	speciesF   int     // foundation vocabulary size
	scale      float64 // sqrt(target species / foundation species)
	maxL       int
}

// nodeEmbedding re-indexes the per-species embedding rows and rescales them
// for the new vocabulary size.
func (tr *transplanter) nodeEmbedding() error {
	src := tr.foundation.NodeEmbedding.Weight.Value().AsFloat64()
	rows, err := selectAxis(src, []int{tr.speciesF, tr.channels}, 0, tr.mapping)
	if err != nil {
		return fmt.Errorf("node_embedding.linear.weight: %w", err)
	}
	scaleValues(rows, tr.scale)
	return copyInto(tr.target.NodeEmbedding.Weight, rows)
}

// radialBasis copies the learnable Bessel frequencies. The Gaussian and
// Chebyshev bases are weight-free, so there is nothing to carry over.
func (tr *transplanter) radialBasis() error {
	switch tr.target.RadialEmbedding.Kind {
	case model.RadialBessel:
		if tr.foundation.RadialEmbedding.Kind != model.RadialBessel {
			return fmt.Errorf("radial basis mismatch: target bessel, foundation %v",
				tr.foundation.RadialEmbedding.Kind)
		}
		return copyInto(tr.target.RadialEmbedding.BesselWeights,
			tr.foundation.RadialEmbedding.BesselWeights.Value().AsFloat64())
	case model.RadialGaussian, model.RadialChebyshev:
		return nil
	default:
		return fmt.Errorf("unknown radial basis kind %v", tr.target.RadialEmbedding.Kind)
	}
}

func (tr *transplanter) interactions() error {
	if len(tr.foundation.Interactions) < len(tr.target.Interactions) {
		return fmt.Errorf("foundation has %d interaction blocks, target needs %d",
			len(tr.foundation.Interactions), len(tr.target.Interactions))
	}
	for i, dst := range tr.target.Interactions {
		if err := tr.interaction(i, dst, tr.foundation.Interactions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (tr *transplanter) interaction(index int, dst, src *model.Interaction) error {
	if err := copyInto(dst.LinearUp, src.LinearUp.Value().AsFloat64()); err != nil {
		return err
	}
	dst.AvgNumNeighbors = src.AvgNumNeighbors

	// Radial MLP: the first layer maps radial features and is sliced down
	// to the target's basis size; the deeper layers carry over whole.
	numRadial := tr.target.RadialEmbedding.OutDim()
	layer0 := src.ConvTPWeights[0].Value()
	rows, cols := layer0.Shape()[0], layer0.Shape()[1]
	if numRadial > rows {
		return fmt.Errorf("%s: foundation has %d radial rows, target needs %d",
			dst.ConvTPWeights[0].Name(), rows, numRadial)
	}
	if err := copyInto(dst.ConvTPWeights[0], layer0.AsFloat64()[:numRadial*cols]); err != nil {
		return err
	}
	for l := 1; l < len(dst.ConvTPWeights); l++ {
		if err := copyInto(dst.ConvTPWeights[l], src.ConvTPWeights[l].Value().AsFloat64()); err != nil {
			return err
		}
	}

	if err := copyInto(dst.Linear, src.Linear.Value().AsFloat64()); err != nil {
		return err
	}

	// The skip weight layout depends on the block kind: residual blocks
	// index species on axis 1, density-normalized blocks carry an extra
	// angular axis before the species one.
	var dims []int
	var axis int
	switch dst.Kind {
	case model.BlockResidual:
		dims, axis = []int{tr.channels, tr.speciesF, tr.channels}, 1
	case model.BlockStandard:
		dims, axis = []int{tr.channels, tr.maxL + 1, tr.speciesF, tr.channels}, 2
	default:
		return fmt.Errorf("interactions.%d: unknown block kind %v", index, dst.Kind)
	}
	out, err := selectAxis(src.SkipTP.Value().AsFloat64(), dims, axis, tr.mapping)
	if err != nil {
		return fmt.Errorf("%s: %w", dst.SkipTP.Name(), err)
	}
	scaleValues(out, tr.scale)
	return copyInto(dst.SkipTP, out)
}

// products copies the two product blocks: every contraction weight is
// re-indexed along its species axis, the output linears carry over whole.
// The first block holds maxL+1 contraction degrees, the second one.
func (tr *transplanter) products() error {
	if len(tr.target.Products) != 2 || len(tr.foundation.Products) < 2 {
		return fmt.Errorf("transplant expects two product blocks, target has %d, foundation %d",
			len(tr.target.Products), len(tr.foundation.Products))
	}
	for i, dst := range tr.target.Products {
		src := tr.foundation.Products[i]
		degrees := tr.maxL + 1
		if i == 1 {
			degrees = 1
		}
		if len(dst.Contractions) < degrees || len(src.Contractions) < degrees {
			return fmt.Errorf("products.%d: expected %d contraction degrees, target has %d, foundation %d",
				i, degrees, len(dst.Contractions), len(src.Contractions))
		}
		for j := 0; j < degrees; j++ {
			if err := tr.contraction(i, j, dst.Contractions[j], src.Contractions[j]); err != nil {
				return err
			}
		}
		if err := copyInto(dst.Linear, src.Linear.Value().AsFloat64()); err != nil {
			return err
		}
	}
	return nil
}

func (tr *transplanter) contraction(block, degree int, dst, src *model.Contraction) error {
	if err := tr.bySpecies(dst.WeightsMax, src.WeightsMax); err != nil {
		return err
	}
	if len(src.Weights) < len(dst.Weights) {
		return fmt.Errorf("products.%d.contractions.%d: foundation carries %d secondary weight tensors, target needs %d",
			block, degree, len(src.Weights), len(dst.Weights))
	}
	for k, w := range dst.Weights {
		if err := tr.bySpecies(w, src.Weights[k]); err != nil {
			return err
		}
	}
	return nil
}

// bySpecies re-indexes a species-major contraction weight through the
// element mapping. No rescale: contraction weights are per-species, not
// averaged over the vocabulary.
func (tr *transplanter) bySpecies(dst, src *model.Parameter) error {
	out, err := selectAxis(src.Value().AsFloat64(), src.Value().Shape(), 0, tr.mapping)
	if err != nil {
		return fmt.Errorf("%s: %w", dst.Name(), err)
	}
	return copyInto(dst, out)
}

func (tr *transplanter) readouts() error {
	if len(tr.foundation.Readouts) < len(tr.target.Readouts) {
		return fmt.Errorf("foundation has %d readout heads, target needs %d",
			len(tr.foundation.Readouts), len(tr.target.Readouts))
	}
	for i, r := range tr.target.Readouts {
		switch dst := r.(type) {
		case *model.LinearReadout:
			src, ok := tr.foundation.Readouts[i].(*model.LinearReadout)
			if !ok {
				return fmt.Errorf("readouts.%d: head kinds differ", i)
			}
			if err := copyInto(dst.Weight, src.Weight.Value().AsFloat64()); err != nil {
				return err
			}
		case *model.MLPReadout:
			src, ok := tr.foundation.Readouts[i].(*model.MLPReadout)
			if !ok {
				return fmt.Errorf("readouts.%d: head kinds differ", i)
			}
			if err := copyInto(dst.Linear1, src.Linear1.Value().AsFloat64()); err != nil {
				return err
			}
			if err := copyInto(dst.Linear2, src.Linear2.Value().AsFloat64()); err != nil {
				return err
			}
		default:
			return fmt.Errorf("readouts.%d: unknown head kind %T", i, r)
		}
	}
	return nil
}
