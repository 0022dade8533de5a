// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/atomica-ml/atomica/internal/model"
	"github.com/atomica-ml/atomica/internal/optim"
)

// Optimizer is the common interface implemented by all optimizers.
type Optimizer = optim.Optimizer

// Config holds the hyperparameters shared across optimizers. Zero fields
// take the usual defaults on construction.
type Config = optim.Config

// ErrUnknownOptimizer is returned by New for an unrecognized name.
var ErrUnknownOptimizer = optim.ErrUnknownOptimizer

// Adam (Adaptive Moment Estimation)

// Adam implements Adam and its decoupled-weight-decay variant AdamW.
type Adam = optim.Adam

// NewAdam creates an Adam optimizer with bias correction over the given
// trainable parameters.
//
// Example:
//
//	optimizer := optim.NewAdam(m.Parameters(), optim.Config{
//	    LR:          0.001,
//	    Betas:       [2]float64{0.9, 0.999},
//	    WeightDecay: 5e-7,
//	})
func NewAdam(params []*model.Parameter, cfg Config) *Adam {
	return optim.NewAdam(params, cfg)
}

// NewAdamW creates an AdamW optimizer, applying weight decay decoupled
// from the gradient moments.
func NewAdamW(params []*model.Parameter, cfg Config) *Adam {
	return optim.NewAdamW(params, cfg)
}

// New constructs an optimizer by name ("adam" or "adamw"), matching the
// optimizer tag recorded in checkpoint metadata. Unknown names return
// ErrUnknownOptimizer.
//
// Example:
//
//	optimizer, err := optim.New(ckpt.OptimizerName, optim.Config{LR: 0.001}, m.Parameters())
func New(name string, cfg Config, params []*model.Parameter) (Optimizer, error) {
	return optim.New(name, cfg, params)
}
