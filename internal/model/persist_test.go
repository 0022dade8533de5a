package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomica-ml/atomica/internal/serialization"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)
	fillSequential(m, 0.01)
	m.ScaleShift.Scale.AsFloat64()[0] = 0.8
	m.ScaleShift.Shift.AsFloat64()[0] = -1.25
	for i := range m.Interactions {
		m.Interactions[i].AvgNumNeighbors = 12.5
	}

	path := filepath.Join(t.TempDir(), "model.atmc")
	require.NoError(t, Save(m, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, loaded.Table.Equal(m.Table))
	assert.Equal(t, m.Config.HiddenIrreps, loaded.Config.HiddenIrreps)

	want := m.StateDict()
	got := loaded.StateDict()
	require.Equal(t, len(want), len(got))
	for name, wt := range want {
		gt, ok := got[name]
		require.True(t, ok, "tensor %s missing after reload", name)
		assert.Equal(t, wt.Data(), gt.Data(), "tensor %s differs after reload", name)
	}

	assert.InDelta(t, 0.8, loaded.ScaleShift.Scale.AsFloat64()[0], 0)
	assert.InDelta(t, -1.25, loaded.ScaleShift.Shift.AsFloat64()[0], 0)
	assert.InDelta(t, 12.5, loaded.Interactions[0].AvgNumNeighbors, 0)
}

func TestSaveLoadCheckpoint(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ckpt.atmc")
	require.NoError(t, SaveCheckpoint(m, path, &serialization.CheckpointMeta{
		Epoch:         7,
		Step:          3500,
		Loss:          0.042,
		OptimizerName: "adamw",
	}))

	_, ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)
	require.NotNil(t, ckpt)
	assert.Equal(t, 7, ckpt.Epoch)
	assert.Equal(t, int64(3500), ckpt.Step)
	assert.Equal(t, "adamw", ckpt.OptimizerName)

	// A plain save carries no checkpoint block.
	plain := filepath.Join(t.TempDir(), "plain.atmc")
	require.NoError(t, Save(m, plain))
	_, ckpt, err = LoadCheckpoint(plain)
	require.NoError(t, err)
	assert.Nil(t, ckpt)
}

func TestLoadRejectsConfiglessFile(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)

	// Write the state dict through the serialization layer directly, without
	// an embedded config.
	path := filepath.Join(t.TempDir(), "raw.atmc")
	writer, err := serialization.NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.WriteStateDict(m.StateDict(), serialization.Header{ModelType: "MACE"}))
	require.NoError(t, writer.Close())

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model config")
}
