package model

import (
	"math"

	"github.com/atomica-ml/atomica/internal/tensor"
)

// NodeEmbedding maps one-hot species attributes onto scalar feature
// channels. The weight is stored flat, species-major: viewing it as
// [Species, Channels] gives one embedding row per vocabulary entry, in table
// order.
type NodeEmbedding struct {
	Species  int
	Channels int
	Weight   *Parameter // flat [Species * Channels]
}

func newNodeEmbedding(prefix string, species, channels int) *NodeEmbedding {
	w := tensor.Zeros(tensor.Shape{species * channels}, tensor.Float64)
	return &NodeEmbedding{
		Species:  species,
		Channels: channels,
		Weight:   NewParameter(prefix+".linear.weight", w),
	}
}

// Parameters returns the embedding's trainable parameters.
func (e *NodeEmbedding) Parameters() []*Parameter {
	return []*Parameter{e.Weight}
}

// RadialEmbedding expands interatomic distances in a fixed-size radial
// basis inside a polynomial cutoff envelope. Only the Bessel basis carries
// learnable weights; the Gaussian and Chebyshev variants are weight-free.
type RadialEmbedding struct {
	Kind          RadialKind
	Transform     TransformKind
	NumBasis      int
	CutoffPower   int
	BesselWeights *Parameter // nil unless Kind == RadialBessel
}

func newRadialEmbedding(prefix string, cfg *Config) *RadialEmbedding {
	r := &RadialEmbedding{
		Kind:        cfg.RadialType,
		Transform:   cfg.DistanceTransform,
		NumBasis:    cfg.NumBessel,
		CutoffPower: cfg.NumPolynomialCutoff,
	}
	if cfg.RadialType == RadialBessel {
		w := tensor.Zeros(tensor.Shape{cfg.NumBessel}, tensor.Float64)
		// Frequencies start at the spherical Bessel roots n*pi/r_max.
		values := w.AsFloat64()
		for n := range values {
			values[n] = float64(n+1) * math.Pi / cfg.RMax
		}
		r.BesselWeights = NewParameter(prefix+".bessel_weights", w)
	}
	return r
}

// OutDim returns the number of radial features produced per edge.
func (r *RadialEmbedding) OutDim() int {
	return r.NumBasis
}

// Parameters returns the basis's trainable parameters, empty for
// weight-free variants.
func (r *RadialEmbedding) Parameters() []*Parameter {
	if r.BesselWeights == nil {
		return nil
	}
	return []*Parameter{r.BesselWeights}
}
