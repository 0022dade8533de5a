// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"github.com/atomica-ml/atomica/internal/model"
	"github.com/atomica-ml/atomica/internal/serialization"
	"github.com/atomica-ml/atomica/tensor"
)

// SchemaVersion identifies the configuration schema written to and read
// from model files.
const SchemaVersion = model.SchemaVersion

// Architecture kinds

// BlockKind distinguishes the interaction block variants.
type BlockKind = model.BlockKind

// Known interaction block variants.
const (
	BlockResidual BlockKind = model.BlockResidual
	BlockStandard BlockKind = model.BlockStandard
)

// ParseBlockKind parses a block tag such as "residual" or "standard".
func ParseBlockKind(s string) (BlockKind, error) {
	return model.ParseBlockKind(s)
}

// RadialKind distinguishes the radial basis variants.
type RadialKind = model.RadialKind

// Known radial bases.
const (
	RadialBessel    RadialKind = model.RadialBessel
	RadialGaussian  RadialKind = model.RadialGaussian
	RadialChebyshev RadialKind = model.RadialChebyshev
)

// ParseRadialKind parses a radial basis tag such as "bessel".
func ParseRadialKind(s string) (RadialKind, error) {
	return model.ParseRadialKind(s)
}

// TransformKind distinguishes the distance transforms applied ahead of
// the radial basis.
type TransformKind = model.TransformKind

// Known distance transforms.
const (
	TransformNone   TransformKind = model.TransformNone
	TransformAgnesi TransformKind = model.TransformAgnesi
	TransformSoft   TransformKind = model.TransformSoft
)

// ParseTransformKind parses a distance transform tag such as "agnesi".
func ParseTransformKind(s string) (TransformKind, error) {
	return model.ParseTransformKind(s)
}

// Configuration

// Config is the explicit, versioned description of a model architecture.
type Config = model.Config

// ParseConfig decodes and validates a configuration document.
//
// Example:
//
//	cfg, err := model.ParseConfig(raw)
func ParseConfig(data []byte) (*Config, error) {
	return model.ParseConfig(data)
}

// ExtractConfig returns a copy of the model's configuration with the
// values that live in weight buffers (atomic energies, output scale and
// shift, average neighbor count) read back from the buffers.
func ExtractConfig(m *Model) Config {
	return model.ExtractConfig(m)
}

// Model and parameters

// Model is the full parameter container for one MACE-family potential:
// the module tree holding every weight tensor, plus the element table and
// configuration it was built from.
type Model = model.Model

// Parameter is a named weight tensor with an optional gradient slot.
type Parameter = model.Parameter

// New builds a zero-initialized model from a validated configuration.
//
// Example:
//
//	m, err := model.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(m.NumWeights())
func New(cfg Config) (*Model, error) {
	return model.New(cfg)
}

// NewParameter wraps a tensor as a named trainable parameter.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return model.NewParameter(name, value)
}

// Persistence

// CheckpointMeta records the training state stored alongside checkpoint
// weights.
type CheckpointMeta = serialization.CheckpointMeta

// Save writes the model with its embedded configuration to path.
func Save(m *Model, path string) error {
	return model.Save(m, path)
}

// Load reads a model file, rebuilds the module tree from the embedded
// configuration, and fills it with the stored weights.
//
// Example:
//
//	m, err := model.Load("mace-mp-small.atmc")
func Load(path string) (*Model, error) {
	return model.Load(path)
}

// SaveCheckpoint writes the model together with training state so a run
// can resume later.
func SaveCheckpoint(m *Model, path string, ckpt *CheckpointMeta) error {
	return model.SaveCheckpoint(m, path, ckpt)
}

// LoadCheckpoint reads a checkpoint file, returning the model and the
// stored training state. The metadata is nil for plain model files.
func LoadCheckpoint(path string) (*Model, *CheckpointMeta, error) {
	return model.LoadCheckpoint(path)
}
