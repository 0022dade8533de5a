package metrics_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomica-ml/atomica/internal/metrics"
	"github.com/atomica-ml/atomica/internal/tensor"
)

func TestLogAppendsParseableLines(t *testing.T) {
	dir := t.TempDir()
	logger := metrics.NewLogger(dir, "eval_run-7")

	require.NoError(t, logger.Log(map[string]any{"epoch": 1, "mae_e": float32(0.5)}))
	require.NoError(t, logger.Log(map[string]any{"epoch": 2, "mae_e": 0.25}))

	data, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, float64(1), first["epoch"])
	assert.InDelta(t, 0.5, first["mae_e"].(float64), 1e-9)
	assert.Equal(t, float64(2), second["epoch"])
}

func TestLogCreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "2026-01")
	logger := metrics.NewLogger(dir, "train")

	require.NoError(t, logger.Log(map[string]any{"step": 0}))

	_, err := os.Stat(logger.Path())
	require.NoError(t, err)
}

func TestLogCoercesTensors(t *testing.T) {
	dir := t.TempDir()
	logger := metrics.NewLogger(dir, "tensors")

	w, err := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	zs, err := tensor.FromInt64([]int64{1, 8}, tensor.Shape{2})
	require.NoError(t, err)

	require.NoError(t, logger.Log(map[string]any{
		"weights": w,
		"zs":      zs,
		"scale":   tensor.Scalar(3.5),
	}))

	data, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))

	assert.Equal(t, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}, record["weights"])
	assert.Equal(t, []any{float64(1), float64(8)}, record["zs"])
	assert.Equal(t, 3.5, record["scale"])
}

func TestLogCoercesNestedContainers(t *testing.T) {
	dir := t.TempDir()
	logger := metrics.NewLogger(dir, "nested")

	require.NoError(t, logger.Log(map[string]any{
		"per_element": map[string]float32{"H": 0.1, "O": 0.2},
		"losses":      []float32{1.5, 0.75},
		"counts":      []int{3, 4},
	}))

	data, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))

	perElement := record["per_element"].(map[string]any)
	assert.InDelta(t, 0.1, perElement["H"].(float64), 1e-6)
	assert.Equal(t, []any{1.5, 0.75}, record["losses"])
	assert.Equal(t, []any{float64(3), float64(4)}, record["counts"])
}

func TestLogRejectsUnsupportedValues(t *testing.T) {
	dir := t.TempDir()
	logger := metrics.NewLogger(dir, "bad")

	err := logger.Log(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type")

	// Nothing may be written when coercion fails.
	_, statErr := os.Stat(logger.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestPath(t *testing.T) {
	logger := metrics.NewLogger("/tmp/runs", "mace_run-3")
	assert.Equal(t, filepath.Join("/tmp/runs", "mace_run-3.txt"), logger.Path())
}
