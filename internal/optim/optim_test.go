package optim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/atomica-ml/atomica/internal/model"
	"github.com/atomica-ml/atomica/internal/optim"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func scalarParam(name string, v float64) *model.Parameter {
	t, _ := tensor.FromFloat64([]float64{v}, tensor.Shape{1})
	return model.NewParameter(name, t)
}

func attachGrad(p *model.Parameter, g float64) {
	t, _ := tensor.FromFloat64([]float64{g}, tensor.Shape{1})
	p.SetGrad(t)
}

// TestAdam_FirstSteps verifies the bias-corrected update: with a constant
// unit gradient, each early step moves the parameter by roughly lr.
func TestAdam_FirstSteps(t *testing.T) {
	param := scalarParam("x", 2.0)
	opt := optim.NewAdam([]*model.Parameter{param}, optim.Config{LR: 0.1})

	attachGrad(param, 1.0)
	if err := opt.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	got := param.Value().AsFloat64()[0]
	if !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("after step 1: got %f, want 1.9", got)
	}

	attachGrad(param, 1.0)
	if err := opt.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	got = param.Value().AsFloat64()[0]
	if !floatEqual(got, 1.8, 1e-6) {
		t.Errorf("after step 2: got %f, want 1.8", got)
	}
}

// TestAdam_CoupledWeightDecay: with zero gradient, Adam still moves the
// parameter because decay enters the moment estimates.
func TestAdam_CoupledWeightDecay(t *testing.T) {
	param := scalarParam("x", 2.0)
	opt := optim.NewAdam([]*model.Parameter{param}, optim.Config{LR: 0.1, WeightDecay: 0.1})

	attachGrad(param, 0.0)
	if err := opt.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	// Effective gradient 0.1*2 = 0.2; bias-corrected update is lr.
	got := param.Value().AsFloat64()[0]
	if !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("coupled decay: got %f, want 1.9", got)
	}
}

// TestAdamW_DecoupledWeightDecay: with zero gradient, AdamW shrinks the
// parameter by exactly lr*wd*param and leaves the moments untouched.
func TestAdamW_DecoupledWeightDecay(t *testing.T) {
	param := scalarParam("x", 2.0)
	opt := optim.NewAdamW([]*model.Parameter{param}, optim.Config{LR: 0.1, WeightDecay: 0.1})

	attachGrad(param, 0.0)
	if err := opt.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	got := param.Value().AsFloat64()[0]
	if !floatEqual(got, 1.98, 1e-12) {
		t.Errorf("decoupled decay: got %f, want 1.98", got)
	}
}

// TestAdam_AMSGrad: with a shrinking gradient, the AMSGrad denominator
// keeps the historical maximum and the trajectories diverge.
func TestAdam_AMSGrad(t *testing.T) {
	plain := scalarParam("x", 2.0)
	ams := scalarParam("x", 2.0)
	optPlain := optim.NewAdam([]*model.Parameter{plain}, optim.Config{LR: 0.1})
	optAMS := optim.NewAdam([]*model.Parameter{ams}, optim.Config{LR: 0.1, AMSGrad: true})

	for _, g := range []float64{2.0, 0.0} {
		attachGrad(plain, g)
		attachGrad(ams, g)
		if err := optPlain.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if err := optAMS.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	p := plain.Value().AsFloat64()[0]
	a := ams.Value().AsFloat64()[0]
	if p >= 2.0 || a >= 2.0 {
		t.Errorf("both variants should descend: plain %f, amsgrad %f", p, a)
	}
	if math.Abs(p-a) < 1e-9 {
		t.Errorf("amsgrad should alter the second step: plain %f, amsgrad %f", p, a)
	}
	// The retained maximum makes the AMSGrad step no larger.
	if a < p-1e-12 {
		t.Errorf("amsgrad step should not exceed the plain step: plain %f, amsgrad %f", p, a)
	}
}

func TestStepSkipsParamsWithoutGrad(t *testing.T) {
	withGrad := scalarParam("a", 1.0)
	without := scalarParam("b", 1.0)
	opt := optim.NewAdam([]*model.Parameter{withGrad, without}, optim.Config{LR: 0.1})

	attachGrad(withGrad, 1.0)
	if err := opt.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if got := without.Value().AsFloat64()[0]; got != 1.0 {
		t.Errorf("parameter without gradient moved: %f", got)
	}
	if got := withGrad.Value().AsFloat64()[0]; got == 1.0 {
		t.Error("parameter with gradient did not move")
	}
}

func TestStepRejectsMismatchedGrad(t *testing.T) {
	param := scalarParam("x", 1.0)
	opt := optim.NewAdam([]*model.Parameter{param}, optim.Config{})

	bad := tensor.Zeros(tensor.Shape{2}, tensor.Float64)
	param.SetGrad(bad)
	if err := opt.Step(); err == nil {
		t.Error("Step with mismatched gradient shape should fail")
	}
}

func TestZeroGrad(t *testing.T) {
	param := scalarParam("x", 1.0)
	opt := optim.NewAdam([]*model.Parameter{param}, optim.Config{})
	attachGrad(param, 1.0)
	opt.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad should clear the gradient")
	}
}

// TestFactory covers name dispatch and the identity of the parameter set.
func TestFactory(t *testing.T) {
	params := []*model.Parameter{scalarParam("a", 1.0), scalarParam("b", 2.0)}

	for _, name := range []string{"adam", "adamw"} {
		opt, err := optim.New(name, optim.Config{LR: 0.01}, params)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if opt.Name() != name {
			t.Errorf("Name() = %q, want %q", opt.Name(), name)
		}
		got := opt.Params()
		if len(got) != len(params) {
			t.Fatalf("Params() has %d entries, want %d", len(got), len(params))
		}
		for i := range params {
			if got[i] != params[i] {
				t.Errorf("Params()[%d] is not the supplied parameter", i)
			}
		}
		if opt.LR() != 0.01 {
			t.Errorf("LR() = %f, want 0.01", opt.LR())
		}
	}
}

func TestFactoryUnknownName(t *testing.T) {
	_, err := optim.New("sgd", optim.Config{}, nil)
	if err == nil {
		t.Fatal("New with unknown name should fail")
	}
	if !errors.Is(err, optim.ErrUnknownOptimizer) {
		t.Errorf("error = %v, want ErrUnknownOptimizer", err)
	}
}

func TestSetLR(t *testing.T) {
	opt := optim.NewAdam(nil, optim.Config{LR: 0.1})
	opt.SetLR(0.001)
	if opt.LR() != 0.001 {
		t.Errorf("LR() = %f, want 0.001", opt.LR())
	}
}
