// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package finetune

import (
	"github.com/atomica-ml/atomica/internal/elements"
	"github.com/atomica-ml/atomica/internal/finetune"
	"github.com/atomica-ml/atomica/internal/model"
)

// DefaultMaxL is the angular resolution assumed for the skip-connection
// layout of density-normalized interaction blocks when Options.MaxL is
// zero.
const DefaultMaxL = finetune.DefaultMaxL

// Options control the optional parts of a transplant.
type Options = finetune.Options

// DefaultOptions returns the conventional transplant settings: readouts
// and shift stay untouched, the energy scale carries over.
func DefaultOptions() Options {
	return finetune.DefaultOptions()
}

// LoadFoundations transplants every learned weight of foundation into
// target, re-indexing species-dependent tensors through table. table lists
// the target's elements in model row order; every entry must exist in the
// foundation's own table. target is mutated in place and returned.
//
// Example:
//
//	target, err := model.New(targetCfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	target, err = finetune.LoadFoundations(target, foundation, target.Table, finetune.DefaultOptions())
func LoadFoundations(target, foundation *model.Model, table *elements.Table, opts Options) (*model.Model, error) {
	return finetune.LoadFoundations(target, foundation, table, opts)
}
