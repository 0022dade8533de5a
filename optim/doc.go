// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the optimizers used for fine-tuning models.
//
// # Overview
//
// This package contains:
//   - Adam: Adaptive Moment Estimation with bias correction
//   - AdamW: Adam with decoupled weight decay
//   - Optimizer interface shared by both, plus construction by name
//
// Gradients are attached to parameters by the caller before each step; the
// optimizer performs only the update arithmetic.
//
// # Basic Usage
//
//	import (
//	    "github.com/atomica-ml/atomica/model"
//	    "github.com/atomica-ml/atomica/optim"
//	)
//
//	func main() {
//	    m, err := model.Load("foundation.atmc")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Create optimizer
//	    optimizer := optim.NewAdamW(m.Parameters(), optim.Config{
//	        LR:          0.001,
//	        WeightDecay: 5e-7,
//	    })
//
//	    // Training loop
//	    for step := 0; step < numSteps; step++ {
//	        optimizer.ZeroGrad()
//	        attachGradients(m) // caller-supplied backward pass
//	        if err := optimizer.Step(); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	}
//
// # Resuming From Checkpoints
//
// Checkpoint metadata records the optimizer by name; New rebuilds a
// matching optimizer when resuming:
//
//	m, ckpt, err := model.LoadCheckpoint("run-042.atmc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	optimizer, err := optim.New(ckpt.OptimizerName, optim.Config{LR: 0.001}, m.Parameters())
package optim
