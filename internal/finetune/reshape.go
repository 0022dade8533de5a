package finetune

import (
	"fmt"

	"github.com/atomica-ml/atomica/internal/model"
)

// selectAxis gathers index slices along one axis of a row-major tensor held
// as a flat float64 slice. dims describes the source layout; idx lists the
// positions to keep along axis, in output order. Species re-indexing during
// a transplant is this operation with idx set to the element mapping.
func selectAxis(src []float64, dims []int, axis int, idx []int) ([]float64, error) {
	if axis < 0 || axis >= len(dims) {
		return nil, fmt.Errorf("axis %d out of range for %d dims", axis, len(dims))
	}
	total := 1
	for _, d := range dims {
		total *= d
	}
	if total != len(src) {
		return nil, fmt.Errorf("layout %v wants %d values, source has %d", dims, total, len(src))
	}

	outer, inner := 1, 1
	for _, d := range dims[:axis] {
		outer *= d
	}
	for _, d := range dims[axis+1:] {
		inner *= d
	}
	n := dims[axis]
	for _, ix := range idx {
		if ix < 0 || ix >= n {
			return nil, fmt.Errorf("index %d out of range for axis of size %d", ix, n)
		}
	}

	out := make([]float64, outer*len(idx)*inner)
	for o := 0; o < outer; o++ {
		for j, ix := range idx {
			srcBase := (o*n + ix) * inner
			dstBase := (o*len(idx) + j) * inner
			copy(out[dstBase:dstBase+inner], src[srcBase:srcBase+inner])
		}
	}
	return out, nil
}

// scaleValues multiplies in place.
func scaleValues(values []float64, factor float64) {
	if factor == 1 {
		return
	}
	for i := range values {
		values[i] *= factor
	}
}

// copyInto writes values into a parameter, rejecting length mismatches with
// an error that names the destination tensor.
func copyInto(p *model.Parameter, values []float64) error {
	dst := p.Value().AsFloat64()
	if len(dst) != len(values) {
		return fmt.Errorf("%s: expected %d values, got %d", p.Name(), len(dst), len(values))
	}
	copy(dst, values)
	return nil
}
