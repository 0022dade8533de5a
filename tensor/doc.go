// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense host tensors for model weight storage.
//
// # Overview
//
// Tensors are the weight containers used everywhere in atomica. This
// package provides:
//   - Dense, contiguous, row-major storage in a single byte buffer
//   - Four element types: float32, float64, int32, int64
//   - Zero-copy construction from raw payloads (FromBytes)
//   - Widening element access regardless of storage type (Float64At)
//
// # Basic Usage
//
//	import "github.com/atomica-ml/atomica/tensor"
//
//	func main() {
//	    // Create tensors
//	    w, _ := tensor.FromFloat64([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	    b := tensor.Zeros(tensor.Shape{3}, tensor.Float64)
//
//	    // Element access widens to float64 for any storage type
//	    first := w.Float64At(0)
//
//	    // Raw bytes back a tensor; Data exposes them for serialization
//	    payload := w.Data()
//	    _ = b
//	    _, _ = first, payload
//	}
//
// # Supported Data Types
//
// The tensor package supports the following data types:
//   - float32, float64 (floating-point weights)
//   - int32, int64 (index and bookkeeping tensors)
//
// # Memory Layout
//
// A tensor owns one contiguous little-endian byte buffer. FromBytes wraps
// an existing payload without copying, which keeps inspection of
// memory-mapped model files cheap; the converting accessors (Float64Values,
// AsFloat64 on matching dtypes) expose typed views or copies as documented
// per method.
package tensor
