package tensor

import "fmt"

// View returns a tensor with a new shape sharing the same underlying buffer.
// At most one dimension may be -1; it is inferred from the element count.
//
// Example:
//
//	w := tensor.Zeros(Shape{89 * 128}, Float64)
//	m, _ := w.View(Shape{89, -1}) // Shape: [89, 128], same buffer
func (t *Tensor) View(shape Shape) (*Tensor, error) {
	resolved := shape.Clone()
	wildcard := -1
	known := 1
	for i, dim := range resolved {
		switch {
		case dim == -1:
			if wildcard >= 0 {
				return nil, fmt.Errorf("view shape %v has more than one -1 dimension", shape)
			}
			wildcard = i
		case dim <= 0:
			return nil, fmt.Errorf("view shape %v has invalid dimension %d", shape, dim)
		default:
			known *= dim
		}
	}
	if wildcard >= 0 {
		if known == 0 || t.NumElements()%known != 0 {
			return nil, fmt.Errorf("cannot infer -1 in view shape %v for %d elements", shape, t.NumElements())
		}
		resolved[wildcard] = t.NumElements() / known
		known *= resolved[wildcard]
	}
	if known != t.NumElements() {
		return nil, fmt.Errorf("view shape %v has %d elements, tensor has %d", shape, known, t.NumElements())
	}
	return &Tensor{
		data:   t.data,
		shape:  resolved,
		stride: resolved.ComputeStrides(),
		dtype:  t.dtype,
	}, nil
}

// Flatten returns a 1-D view over the same buffer.
func (t *Tensor) Flatten() *Tensor {
	flat, err := t.View(Shape{-1})
	if err != nil {
		panic(err) // a 1-D view always exists
	}
	return flat
}

// Select gathers entries along dimension dim in the order given by indices,
// returning a new tensor. Indices may repeat; each must be in range.
//
// Example:
//
//	w := tensor.Zeros(Shape{89, 128}, Float64)
//	sub, _ := w.Select(0, []int{0, 13, 27}) // Shape: [3, 128]
func (t *Tensor) Select(dim int, indices []int) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, fmt.Errorf("select dimension %d out of range for shape %v", dim, t.shape)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("select along dimension %d: no indices", dim)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= t.shape[dim] {
			return nil, fmt.Errorf("select index %d out of range for dimension %d of shape %v", idx, dim, t.shape)
		}
	}

	newShape := t.shape.Clone()
	newShape[dim] = len(indices)
	out := Zeros(newShape, t.dtype)

	elemSize := t.dtype.Size()
	blockBytes := t.stride[dim] * elemSize
	srcDimBytes := t.shape[dim] * blockBytes
	dstDimBytes := len(indices) * blockBytes

	outer := 1
	for _, d := range t.shape[:dim] {
		outer *= d
	}
	for o := 0; o < outer; o++ {
		srcBase := o * srcDimBytes
		dstBase := o * dstDimBytes
		for j, idx := range indices {
			src := t.data[srcBase+idx*blockBytes : srcBase+(idx+1)*blockBytes]
			copy(out.data[dstBase+j*blockBytes:], src)
		}
	}
	return out, nil
}

// SliceRows returns a copy of rows [start, end) along the first dimension.
func (t *Tensor) SliceRows(start, end int) (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("cannot slice rows of a scalar")
	}
	if start < 0 || end > t.shape[0] || start >= end {
		return nil, fmt.Errorf("row slice [%d:%d] out of range for shape %v", start, end, t.shape)
	}
	newShape := t.shape.Clone()
	newShape[0] = end - start
	rowBytes := t.stride[0] * t.dtype.Size()
	data := make([]byte, (end-start)*rowBytes)
	copy(data, t.data[start*rowBytes:end*rowBytes])
	return FromBytes(data, newShape, t.dtype)
}

// Scale multiplies every element by v in place.
// Panics if the tensor is not a floating-point type.
func (t *Tensor) Scale(v float64) {
	switch t.dtype {
	case Float32:
		f := float32(v)
		data := t.AsFloat32()
		for i := range data {
			data[i] *= f
		}
	case Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] *= v
		}
	default:
		panic(fmt.Sprintf("cannot scale tensor of dtype %s", t.dtype))
	}
}

// CopyFrom copies src's elements into t. Shapes and dtypes must match.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if src.dtype != t.dtype {
		return fmt.Errorf("dtype mismatch: got %s, want %s", src.dtype, t.dtype)
	}
	if !src.shape.Equal(t.shape) {
		return fmt.Errorf("shape mismatch: got %v, want %v", src.shape, t.shape)
	}
	copy(t.data, src.data)
	return nil
}

// Equal reports whether two tensors have identical dtype, shape, and contents.
func (t *Tensor) Equal(other *Tensor) bool {
	if t.dtype != other.dtype || !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// ToFloat64 returns the tensor widened to Float64.
// Returns the receiver unchanged when already Float64.
func (t *Tensor) ToFloat64() *Tensor {
	if t.dtype == Float64 {
		return t
	}
	out := Zeros(t.shape, Float64)
	copy(out.AsFloat64(), t.Float64Values())
	return out
}
