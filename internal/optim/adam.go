package optim

import (
	"fmt"
	"math"

	"github.com/atomica-ml/atomica/internal/model"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Adam implements Adam and AdamW.
//
// Both maintain exponential moving averages of gradients (first moment) and
// squared gradients (second moment) with bias correction:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient^2
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// They differ only in weight decay: Adam folds decay into the gradient
// before the moment update, AdamW decays the parameter directly (decoupled).
// With AMSGrad the denominator uses the running maximum of the second
// moment instead of the current value.
//
// References: Kingma & Ba 2014 (Adam), Loshchilov & Hutter 2017 (AdamW),
// Reddi et al. 2018 (AMSGrad).
type Adam struct {
	params      []*model.Parameter
	lr          float64
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64
	amsgrad     bool
	decoupled   bool
	name        string

	t    int // timestep for bias correction
	m    map[*model.Parameter][]float64
	v    map[*model.Parameter][]float64
	vMax map[*model.Parameter][]float64
}

// NewAdam creates an Adam optimizer with coupled weight decay.
func NewAdam(params []*model.Parameter, cfg Config) *Adam {
	return newAdam(params, cfg, false, "adam")
}

// NewAdamW creates an AdamW optimizer with decoupled weight decay.
func NewAdamW(params []*model.Parameter, cfg Config) *Adam {
	return newAdam(params, cfg, true, "adamw")
}

func newAdam(params []*model.Parameter, cfg Config, decoupled bool, name string) *Adam {
	cfg = cfg.withDefaults()
	return &Adam{
		params:      params,
		lr:          cfg.LR,
		beta1:       cfg.Betas[0],
		beta2:       cfg.Betas[1],
		eps:         cfg.Eps,
		weightDecay: cfg.WeightDecay,
		amsgrad:     cfg.AMSGrad,
		decoupled:   decoupled,
		name:        name,
		m:           make(map[*model.Parameter][]float64),
		v:           make(map[*model.Parameter][]float64),
		vMax:        make(map[*model.Parameter][]float64),
	}
}

// Step applies one update to every parameter carrying a gradient.
// Moment state is allocated lazily per parameter and keyed on parameter
// identity, so it survives gradient reattachment between steps.
func (a *Adam) Step() error {
	a.t++
	bc1 := 1 - math.Pow(a.beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.beta2, float64(a.t))

	for _, param := range a.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}
		value := param.Value()
		if grad.DType() != tensor.Float64 || value.DType() != tensor.Float64 {
			return fmt.Errorf("optimizer step for %s: want float64, got %v gradient for %v parameter",
				param.Name(), grad.DType(), value.DType())
		}
		if !grad.Shape().Equal(value.Shape()) {
			return fmt.Errorf("optimizer step for %s: gradient shape %v does not match parameter shape %v",
				param.Name(), grad.Shape(), value.Shape())
		}

		n := value.NumElements()
		m, ok := a.m[param]
		if !ok {
			m = make([]float64, n)
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = make([]float64, n)
			a.v[param] = v
		}
		var vMax []float64
		if a.amsgrad {
			vMax, ok = a.vMax[param]
			if !ok {
				vMax = make([]float64, n)
				a.vMax[param] = vMax
			}
		}

		paramData := value.AsFloat64()
		gradData := grad.AsFloat64()
		for i := range paramData {
			g := gradData[i]
			if a.weightDecay != 0 {
				if a.decoupled {
					paramData[i] -= a.lr * a.weightDecay * paramData[i]
				} else {
					g += a.weightDecay * paramData[i]
				}
			}

			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g

			mHat := m[i] / bc1
			vCorr := v[i] / bc2
			if a.amsgrad {
				if v[i] > vMax[i] {
					vMax[i] = v[i]
				}
				vCorr = vMax[i] / bc2
			}
			paramData[i] -= a.lr * mHat / (math.Sqrt(vCorr) + a.eps)
		}
	}
	return nil
}

// ZeroGrad clears gradients on all parameters.
func (a *Adam) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// Params returns the parameter set the optimizer updates.
func (a *Adam) Params() []*model.Parameter {
	return a.params
}

// Name returns "adam" or "adamw".
func (a *Adam) Name() string {
	return a.name
}

// Timestep returns the number of steps taken.
func (a *Adam) Timestep() int {
	return a.t
}
