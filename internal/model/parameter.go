package model

import (
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Parameter is a named trainable tensor.
//
// Parameters hold the weight value and, during training, the gradient
// supplied by the caller. The optimizer keys its moment state on parameter
// identity, so a parameter's pointer must stay stable for the lifetime of a
// training run.
type Parameter struct {
	name  string
	value *tensor.Tensor
	grad  *tensor.Tensor
}

// NewParameter creates a trainable parameter wrapping an initialized tensor.
// The name is the parameter's full dotted path in the state dict,
// e.g. "interactions.0.linear_up.weight".
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{name: name, value: value}
}

// Name returns the parameter's dotted state-dict name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter tensor.
func (p *Parameter) Value() *tensor.Tensor {
	return p.value
}

// Grad returns the gradient tensor, or nil before the first SetGrad.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad installs a gradient for the next optimizer step.
// The gradient must match the value's shape and dtype; the optimizer
// validates before stepping.
func (p *Parameter) SetGrad(grad *tensor.Tensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
