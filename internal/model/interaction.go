package model

import (
	"fmt"

	"github.com/atomica-ml/atomica/internal/irreps"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// radialNetLayers is the depth of the radial MLP feeding the convolution:
// three hidden layers plus the output projection onto path weights.
const radialNetLayers = 4

// Interaction is one message-passing block. It holds the equivariant linear
// maps around the convolution, the radial MLP producing the tensor-product
// path weights, and the per-species skip connection whose layout depends on
// the block kind.
type Interaction struct {
	Kind BlockKind

	LinearUp      *Parameter                  // flat equivariant linear on node features
	ConvTPWeights [radialNetLayers]*Parameter // radial MLP, layer0..layer3, each [in, out]
	Linear        *Parameter                  // flat equivariant linear on the convolution output
	SkipTP        *Parameter                  // flat per-species skip weights, layout per Kind

	// AvgNumNeighbors normalizes the aggregated messages. Copied between
	// models during transplant, persisted as a buffer.
	AvgNumNeighbors float64
}

// SkipWeightCount returns the flat skip-connection weight count for a block
// kind: channels * species * channels for residual blocks, with an extra
// (maxEll+1) angular factor for standard blocks.
func SkipWeightCount(kind BlockKind, channels, species, maxEll int) (int, error) {
	switch kind {
	case BlockResidual:
		return channels * species * channels, nil
	case BlockStandard:
		return channels * (maxEll + 1) * species * channels, nil
	default:
		return 0, fmt.Errorf("unknown interaction block kind %v", kind)
	}
}

func newInteraction(prefix string, index int, cfg *Config) (*Interaction, error) {
	hidden := cfg.Hidden()
	channels := hidden.Channels()
	species := cfg.NumElements()
	sh := irreps.SphericalHarmonics(cfg.MaxEll)
	out := irreps.Natural(channels, cfg.MaxEll)

	kind := cfg.Interaction
	feats := hidden
	if index == 0 {
		kind = cfg.InteractionFirst
		// The first block sees raw scalar embeddings.
		feats = irreps.Natural(channels, 0)
	}

	inter := &Interaction{Kind: kind, AvgNumNeighbors: cfg.AvgNumNeighbors}

	up := irreps.LinearWeightCount(feats, feats)
	inter.LinearUp = NewParameter(
		fmt.Sprintf("%s.linear_up.weight", prefix),
		tensor.Zeros(tensor.Shape{up}, tensor.Float64),
	)

	paths := irreps.ConvPathCount(feats, sh, out)
	if paths == 0 {
		return nil, fmt.Errorf("interaction %d: no allowed tensor-product paths", index)
	}
	dims := []int{cfg.NumBessel, cfg.RadialMLP[0], cfg.RadialMLP[1], cfg.RadialMLP[2], paths * channels}
	for l := 0; l < radialNetLayers; l++ {
		inter.ConvTPWeights[l] = NewParameter(
			fmt.Sprintf("%s.conv_tp_weights.layer%d.weight", prefix, l),
			tensor.Zeros(tensor.Shape{dims[l], dims[l+1]}, tensor.Float64),
		)
	}

	linear := irreps.LinearWeightCount(out, out)
	inter.Linear = NewParameter(
		fmt.Sprintf("%s.linear.weight", prefix),
		tensor.Zeros(tensor.Shape{linear}, tensor.Float64),
	)

	skip, err := SkipWeightCount(kind, channels, species, cfg.MaxEll)
	if err != nil {
		return nil, fmt.Errorf("interaction %d: %w", index, err)
	}
	inter.SkipTP = NewParameter(
		fmt.Sprintf("%s.skip_tp.weight", prefix),
		tensor.Zeros(tensor.Shape{skip}, tensor.Float64),
	)
	return inter, nil
}

// Parameters returns the block's trainable parameters.
func (b *Interaction) Parameters() []*Parameter {
	params := []*Parameter{b.LinearUp}
	params = append(params, b.ConvTPWeights[:]...)
	params = append(params, b.Linear, b.SkipTP)
	return params
}
