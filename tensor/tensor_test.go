// Copyright 2025 Atomica ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/atomica-ml/atomica/tensor"
)

// TestCreationFunctions verifies the public tensor creation API.
func TestCreationFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*tensor.Tensor, error)
	}{
		{
			name: "New",
			fn: func() (*tensor.Tensor, error) {
				return tensor.New(tensor.Shape{2, 3}, tensor.Float64)
			},
		},
		{
			name: "Zeros",
			fn: func() (*tensor.Tensor, error) {
				return tensor.Zeros(tensor.Shape{2, 3}, tensor.Float64), nil
			},
		},
		{
			name: "FromFloat64",
			fn: func() (*tensor.Tensor, error) {
				return tensor.FromFloat64([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
			},
		},
		{
			name: "FromFloat32",
			fn: func() (*tensor.Tensor, error) {
				return tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
			},
		},
		{
			name: "FromInt64",
			fn: func() (*tensor.Tensor, error) {
				return tensor.FromInt64([]int64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("%s() returned error: %v", tt.name, err)
			}
			if got == nil {
				t.Fatalf("%s() returned nil", tt.name)
			}
			if n := got.NumElements(); n != 6 {
				t.Errorf("%s().NumElements() = %d, want 6", tt.name, n)
			}
			if !got.Shape().Equal(tensor.Shape{2, 3}) {
				t.Errorf("%s().Shape() = %v, want [2 3]", tt.name, got.Shape())
			}
		})
	}
}

// TestDataTypeConstants verifies all data type constants are accessible.
func TestDataTypeConstants(t *testing.T) {
	dtypes := []struct {
		name  string
		dtype tensor.DataType
	}{
		{"float32", tensor.Float32},
		{"float64", tensor.Float64},
		{"int32", tensor.Int32},
		{"int64", tensor.Int64},
	}

	for _, dt := range dtypes {
		t.Run(dt.name, func(t *testing.T) {
			if str := dt.dtype.String(); str != dt.name {
				t.Errorf("DataType.String() = %q, want %q", str, dt.name)
			}
			if size := dt.dtype.Size(); size <= 0 {
				t.Errorf("DataType.Size() = %d, want > 0", size)
			}
			parsed, err := tensor.ParseDataType(dt.name)
			if err != nil {
				t.Fatalf("ParseDataType(%q) returned error: %v", dt.name, err)
			}
			if parsed != dt.dtype {
				t.Errorf("ParseDataType(%q) = %v, want %v", dt.name, parsed, dt.dtype)
			}
		})
	}
}

// TestShapeAPI verifies the Shape type alias exposes the expected API.
func TestShapeAPI(t *testing.T) {
	shape := tensor.Shape{2, 3, 4}

	if n := shape.NumElements(); n != 24 {
		t.Errorf("NumElements() = %d, want 24", n)
	}
	if len(shape) != 3 {
		t.Errorf("len(shape) = %d, want 3", len(shape))
	}
	if !shape.Equal(tensor.Shape{2, 3, 4}) {
		t.Error("Equal() = false, want true for identical shapes")
	}

	clone := shape.Clone()
	if !clone.Equal(shape) {
		t.Error("Clone() created non-equal shape")
	}
	clone[0] = 999
	if shape[0] == 999 {
		t.Error("Clone() didn't create independent copy")
	}
}

// TestFromBytesSharesPayload verifies the zero-copy contract of FromBytes.
func TestFromBytesSharesPayload(t *testing.T) {
	src, err := tensor.FromFloat64([]float64{1.5, -2.5, 3.5}, tensor.Shape{3})
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}

	wrapped, err := tensor.FromBytes(src.Data(), tensor.Shape{3}, tensor.Float64)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if got := wrapped.Float64At(1); got != -2.5 {
		t.Errorf("Float64At(1) = %v, want -2.5", got)
	}

	// Writes through the wrapper land in the shared payload.
	wrapped.SetFloat64At(0, 9.0)
	if got := src.Float64At(0); got != 9.0 {
		t.Errorf("after write through wrapper, source Float64At(0) = %v, want 9", got)
	}

	if _, err := tensor.FromBytes(make([]byte, 7), tensor.Shape{3}, tensor.Float64); err == nil {
		t.Error("FromBytes accepted a payload of the wrong length")
	}
}

// TestScalar verifies zero-dimensional tensor construction.
func TestScalar(t *testing.T) {
	s := tensor.Scalar(2.75)
	if n := s.NumElements(); n != 1 {
		t.Errorf("NumElements() = %d, want 1", n)
	}
	if len(s.Shape()) != 0 {
		t.Errorf("Shape() = %v, want zero-dimensional", s.Shape())
	}
	if got := s.Float64At(0); got != 2.75 {
		t.Errorf("Float64At(0) = %v, want 2.75", got)
	}
}
