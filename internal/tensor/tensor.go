package tensor

import (
	"fmt"
	"unsafe"
)

// Tensor is a dense, contiguous, row-major host tensor.
// The zero value is not usable; construct tensors with New, Zeros, or the
// From* helpers.
type Tensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
}

// New allocates a zero-initialized tensor with the given shape and type.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// Zeros allocates a zero-initialized tensor.
// Panics on an invalid shape; use for shapes fixed at construction time.
func Zeros(shape Shape, dtype DataType) *Tensor {
	t, err := New(shape, dtype)
	if err != nil {
		panic(err)
	}
	return t
}

// FromBytes wraps a raw little-endian payload as a tensor.
// The payload is used directly, not copied; it must be exactly
// shape.NumElements() * dtype.Size() bytes long.
func FromBytes(data []byte, shape Shape, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	want := shape.NumElements() * dtype.Size()
	if len(data) != want {
		return nil, fmt.Errorf("payload size %d does not match shape %v of dtype %s (want %d bytes)",
			len(data), shape, dtype, want)
	}
	return &Tensor{
		data:   data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// FromFloat64 creates a Float64 tensor holding the given values.
func FromFloat64(values []float64, shape Shape) (*Tensor, error) {
	t, err := New(shape, Float64)
	if err != nil {
		return nil, err
	}
	if len(values) != t.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %v (want %d)", len(values), shape, t.NumElements())
	}
	copy(t.AsFloat64(), values)
	return t, nil
}

// FromFloat32 creates a Float32 tensor holding the given values.
func FromFloat32(values []float32, shape Shape) (*Tensor, error) {
	t, err := New(shape, Float32)
	if err != nil {
		return nil, err
	}
	if len(values) != t.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %v (want %d)", len(values), shape, t.NumElements())
	}
	copy(t.AsFloat32(), values)
	return t, nil
}

// FromInt64 creates an Int64 tensor holding the given values.
func FromInt64(values []int64, shape Shape) (*Tensor, error) {
	t, err := New(shape, Int64)
	if err != nil {
		return nil, err
	}
	if len(values) != t.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %v (want %d)", len(values), shape, t.NumElements())
	}
	copy(t.AsInt64(), values)
	return t, nil
}

// Scalar creates a zero-dimensional Float64 tensor holding a single value.
func Scalar(v float64) *Tensor {
	t := Zeros(Shape{}, Float64)
	t.AsFloat64()[0] = v
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's element strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (t *Tensor) ByteSize() int {
	return len(t.data)
}

// Data returns the raw byte slice.
// WARNING: direct access to underlying memory. Use with caution.
func (t *Tensor) Data() []byte {
	return t.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (t *Tensor) AsFloat64() []float64 {
	if t.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (t *Tensor) AsInt32() []int32 {
	if t.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (t *Tensor) AsInt64() []int64 {
	if t.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// Clone returns a deep copy with its own buffer.
func (t *Tensor) Clone() *Tensor {
	data := make([]byte, len(t.data))
	copy(data, t.data)
	return &Tensor{
		data:   data,
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		dtype:  t.dtype,
	}
}

// Float64At returns the element at flat index i widened to float64.
// Works for every dtype; used for scalar parameters and value inspection.
func (t *Tensor) Float64At(i int) float64 {
	switch t.dtype {
	case Float32:
		return float64(t.AsFloat32()[i])
	case Float64:
		return t.AsFloat64()[i]
	case Int32:
		return float64(t.AsInt32()[i])
	case Int64:
		return float64(t.AsInt64()[i])
	default:
		panic("unknown data type")
	}
}

// SetFloat64At stores v at flat index i, narrowing to the tensor's dtype.
func (t *Tensor) SetFloat64At(i int, v float64) {
	switch t.dtype {
	case Float32:
		t.AsFloat32()[i] = float32(v)
	case Float64:
		t.AsFloat64()[i] = v
	case Int32:
		t.AsInt32()[i] = int32(v)
	case Int64:
		t.AsInt64()[i] = int64(v)
	default:
		panic("unknown data type")
	}
}

// Float64Values returns a converting copy of all elements as float64.
func (t *Tensor) Float64Values() []float64 {
	out := make([]float64, t.NumElements())
	switch t.dtype {
	case Float64:
		copy(out, t.AsFloat64())
	case Float32:
		for i, v := range t.AsFloat32() {
			out[i] = float64(v)
		}
	case Int32:
		for i, v := range t.AsInt32() {
			out[i] = float64(v)
		}
	case Int64:
		for i, v := range t.AsInt64() {
			out[i] = float64(v)
		}
	default:
		panic("unknown data type")
	}
	return out
}
