package finetune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomica-ml/atomica/internal/model"
	"github.com/atomica-ml/atomica/internal/tensor"
)

func TestSelectAxisRows(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}

	out, err := selectAxis(src, []int{3, 2}, 0, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 1, 2}, out)
}

func TestSelectAxisInner(t *testing.T) {
	// Layout (2, 3, 2): two outer blocks of three rows.
	src := []float64{
		0, 1, 2, 3, 4, 5,
		6, 7, 8, 9, 10, 11,
	}

	out, err := selectAxis(src, []int{2, 3, 2}, 1, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 8, 9}, out)

	out, err = selectAxis(src, []int{2, 3, 2}, 1, []int{2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 2, 3, 0, 1, 10, 11, 8, 9, 6, 7}, out)
}

func TestSelectAxisRepeatedIndex(t *testing.T) {
	src := []float64{1, 2, 3}

	out, err := selectAxis(src, []int{3}, 0, []int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, out)
}

func TestSelectAxisErrors(t *testing.T) {
	src := []float64{1, 2, 3, 4}

	_, err := selectAxis(src, []int{3, 2}, 0, []int{0})
	assert.ErrorContains(t, err, "wants 6 values, source has 4")

	_, err = selectAxis(src, []int{2, 2}, 2, []int{0})
	assert.ErrorContains(t, err, "axis 2 out of range")

	_, err = selectAxis(src, []int{2, 2}, 0, []int{2})
	assert.ErrorContains(t, err, "index 2 out of range")
}

func TestCopyIntoMismatch(t *testing.T) {
	p := model.NewParameter("products.0.linear.weight", tensor.Zeros(tensor.Shape{4}, tensor.Float64))

	err := copyInto(p, []float64{1, 2})
	require.Error(t, err)
	assert.ErrorContains(t, err, "products.0.linear.weight")
	assert.ErrorContains(t, err, "expected 4 values, got 2")

	require.NoError(t, copyInto(p, []float64{1, 2, 3, 4}))
	assert.Equal(t, []float64{1, 2, 3, 4}, p.Value().AsFloat64())
}

func TestScaleValues(t *testing.T) {
	values := []float64{1, -2, 0.5}
	scaleValues(values, 2)
	assert.Equal(t, []float64{2, -4, 1}, values)

	scaleValues(values, 1)
	assert.Equal(t, []float64{2, -4, 1}, values)
}
