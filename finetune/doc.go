// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package finetune provides the public API for weight transplants from
// foundation models.
//
// # Overview
//
// Fine-tuning a foundation model on a narrower chemistry starts by
// building a fresh model over the target elements and seeding it with the
// foundation's learned weights. This package provides:
//   - LoadFoundations: the transplant itself, with species re-indexing
//     and variance-preserving rescaling of species-summed tensors
//   - Options: gates for the readout heads and the energy scale and shift
//
// # Basic Usage
//
//	import (
//	    "github.com/atomica-ml/atomica/finetune"
//	    "github.com/atomica-ml/atomica/model"
//	)
//
//	func main() {
//	    foundation, err := model.Load("mace-mp-small.atmc")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Same architecture, narrower element vocabulary
//	    cfg := model.ExtractConfig(foundation)
//	    cfg.AtomicNumbers = []int{1, 8}
//	    cfg.AtomicEnergies = []float64{-13.6, -2043.0}
//	    target, err := model.New(cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    target, err = finetune.LoadFoundations(target, foundation, target.Table, finetune.DefaultOptions())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Save(target, "water-seed.atmc"); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package finetune
