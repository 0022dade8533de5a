// Package optim implements the optimizers used for fine-tuning: Adam and
// AdamW with optional AMSGrad. Gradients are attached to parameters by the
// caller before each step; the package performs only the update arithmetic.
package optim

import (
	"errors"
	"fmt"

	"github.com/atomica-ml/atomica/internal/model"
)

// ErrUnknownOptimizer is returned by New for an unrecognized optimizer name.
var ErrUnknownOptimizer = errors.New("unknown optimizer")

// Optimizer is the interface shared by all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter carrying a gradient.
	// Parameters without a gradient are skipped.
	Step() error

	// ZeroGrad clears the gradients of all parameters.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64

	// SetLR updates the learning rate, for scheduling.
	SetLR(lr float64)

	// Params returns the exact parameter set the optimizer was built over.
	Params() []*model.Parameter

	// Name returns the algorithm name as accepted by New.
	Name() string
}

// Config holds the hyperparameters common to both algorithms.
// Zero values select the defaults: LR 1e-3, betas (0.9, 0.999), eps 1e-8.
type Config struct {
	LR          float64
	Betas       [2]float64
	Eps         float64
	WeightDecay float64
	AMSGrad     bool
}

func (c Config) withDefaults() Config {
	if c.LR == 0 {
		c.LR = 1e-3
	}
	if c.Betas[0] == 0 {
		c.Betas[0] = 0.9
	}
	if c.Betas[1] == 0 {
		c.Betas[1] = 0.999
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// New builds an optimizer by name. Accepted names are "adam" and "adamw";
// anything else fails with ErrUnknownOptimizer.
func New(name string, cfg Config, params []*model.Parameter) (Optimizer, error) {
	switch name {
	case "adam":
		return NewAdam(params, cfg), nil
	case "adamw":
		return NewAdamW(params, cfg), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOptimizer, name)
	}
}
