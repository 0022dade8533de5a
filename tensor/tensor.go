// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense host tensors that
// carry model weights throughout atomica.
//
// The package defines the core types for weight storage and exchange:
//   - Tensor: dense, contiguous, row-major array of one data type
//   - Shape, DataType: dimension and element-type descriptors
//
// Example:
//
//	w, err := tensor.FromFloat64([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	sum := 0.0
//	for i := 0; i < w.NumElements(); i++ {
//	    sum += w.Float64At(i)
//	}
package tensor

import (
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Type aliases for public API

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{16, 3} is a matrix with 16 rows and 3 columns. A nil or
// empty shape is a zero-dimensional scalar.
type Shape = tensor.Shape

// Tensor is a dense in-memory array of a single data type. Model weights
// are stored and exchanged as tensors.
type Tensor = tensor.Tensor

// ParseDataType parses a dtype name such as "float32" or "int64".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// Creation functions

// New creates a zero-filled tensor with the given shape and data type,
// rejecting invalid shapes.
//
// Example:
//
//	t, err := tensor.New(tensor.Shape{4, 8}, tensor.Float64)
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.New(shape, dtype)
}

// Zeros creates a zero-filled tensor, panicking on an invalid shape. Use
// New when the shape comes from untrusted input.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{4, 8}, tensor.Float64)
func Zeros(shape Shape, dtype DataType) *Tensor {
	return tensor.Zeros(shape, dtype)
}

// FromBytes wraps a raw little-endian payload without copying it. The
// payload length must match the shape and data type exactly, and the caller
// must keep the backing slice alive and unmodified for the life of the
// tensor.
func FromBytes(data []byte, shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.FromBytes(data, shape, dtype)
}

// FromFloat64 creates a Float64 tensor from a copy of values.
//
// Example:
//
//	t, err := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromFloat64(values []float64, shape Shape) (*Tensor, error) {
	return tensor.FromFloat64(values, shape)
}

// FromFloat32 creates a Float32 tensor from a copy of values.
func FromFloat32(values []float32, shape Shape) (*Tensor, error) {
	return tensor.FromFloat32(values, shape)
}

// FromInt64 creates an Int64 tensor from a copy of values.
func FromInt64(values []int64, shape Shape) (*Tensor, error) {
	return tensor.FromInt64(values, shape)
}

// Scalar creates a zero-dimensional Float64 tensor holding v.
func Scalar(v float64) *Tensor {
	return tensor.Scalar(v)
}
