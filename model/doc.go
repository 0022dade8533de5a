// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides the public API for MACE-family model containers.
//
// # Overview
//
// A model is an explicit configuration plus the module tree holding every
// weight tensor. This package provides:
//   - Config: versioned architecture description, parsed and validated
//   - Model: construction, parameter access, and state-dict exchange
//   - Persistence to and from .atmc files, with optional checkpoint state
//
// The package covers construction, weight access, and persistence. It does
// not evaluate the potential.
//
// # Basic Usage
//
//	import "github.com/atomica-ml/atomica/model"
//
//	func main() {
//	    // Load a foundation model; its configuration travels in the file
//	    m, err := model.Load("mace-mp-small.atmc")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Inspect the architecture and weights
//	    cfg := model.ExtractConfig(m)
//	    fmt.Println(cfg.HiddenIrreps, m.NumWeights())
//
//	    // Persist after modification
//	    if err := model.Save(m, "out.atmc"); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Building From a Configuration
//
//	cfg, err := model.ParseConfig(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := model.New(*cfg)
//
// # Checkpoints
//
// SaveCheckpoint attaches training state to the weights so a fine-tuning
// run can resume:
//
//	ckpt := &model.CheckpointMeta{Epoch: 12, Step: 48000, Loss: 0.0041, OptimizerName: "adamw"}
//	if err := model.SaveCheckpoint(m, "run-042.atmc", ckpt); err != nil {
//	    log.Fatal(err)
//	}
//	m2, ckpt2, err := model.LoadCheckpoint("run-042.atmc")
package model
