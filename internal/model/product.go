package model

import (
	"fmt"

	"github.com/atomica-ml/atomica/internal/irreps"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Contraction holds the weights of one symmetric contraction: the coupling
// of several copies of the message features down to a single output degree.
// WeightsMax covers the full correlation order; Weights holds one tensor per
// lower order, descending. Every weight tensor is species-indexed on axis 0.
type Contraction struct {
	Degree     int
	WeightsMax *Parameter   // [species, paths(correlation), channels]
	Weights    []*Parameter // correlation-1 tensors, orders correlation-1 .. 1
}

// Parameters returns the contraction's trainable parameters.
func (c *Contraction) Parameters() []*Parameter {
	params := []*Parameter{c.WeightsMax}
	params = append(params, c.Weights...)
	return params
}

// Product is one equivariant product block: a set of symmetric contractions,
// one per output degree, followed by a linear map back onto node features.
type Product struct {
	Contractions []*Contraction
	Linear       *Parameter
}

// newProduct builds product block i. Every block but the last emits the full
// hidden feature layout; the last couples down to scalars only.
func newProduct(prefix string, index int, cfg *Config) (*Product, error) {
	hidden := cfg.Hidden()
	channels := hidden.Channels()
	species := cfg.NumElements()

	outLmax := hidden.Lmax()
	if index == cfg.NumInteractions-1 {
		outLmax = 0
	}

	p := &Product{}
	for degree := 0; degree <= outLmax; degree++ {
		c := &Contraction{Degree: degree}
		cPrefix := fmt.Sprintf("%s.contractions.%d", prefix, degree)

		paths := irreps.CouplingPathCount(cfg.Correlation, cfg.MaxEll, degree)
		if paths == 0 {
			return nil, fmt.Errorf("product %d: no order-%d coupling paths to degree %d",
				index, cfg.Correlation, degree)
		}
		c.WeightsMax = NewParameter(
			cPrefix+".weights_max",
			tensor.Zeros(tensor.Shape{species, paths, channels}, tensor.Float64),
		)
		for k := 0; k < cfg.Correlation-1; k++ {
			order := cfg.Correlation - 1 - k
			paths := irreps.CouplingPathCount(order, cfg.MaxEll, degree)
			if paths == 0 {
				return nil, fmt.Errorf("product %d: no order-%d coupling paths to degree %d",
					index, order, degree)
			}
			c.Weights = append(c.Weights, NewParameter(
				fmt.Sprintf("%s.weights.%d", cPrefix, k),
				tensor.Zeros(tensor.Shape{species, paths, channels}, tensor.Float64),
			))
		}
		p.Contractions = append(p.Contractions, c)
	}

	out := irreps.Natural(channels, outLmax)
	linear := irreps.LinearWeightCount(out, out)
	p.Linear = NewParameter(
		prefix+".linear.weight",
		tensor.Zeros(tensor.Shape{linear}, tensor.Float64),
	)
	return p, nil
}

// Parameters returns the block's trainable parameters.
func (p *Product) Parameters() []*Parameter {
	var params []*Parameter
	for _, c := range p.Contractions {
		params = append(params, c.Parameters()...)
	}
	return append(params, p.Linear)
}
