package logging_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomica-ml/atomica/internal/logging"
)

func TestSetupDefaults(t *testing.T) {
	logger, err := logging.Setup(logging.Config{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestSetupLevelParsing(t *testing.T) {
	logger, err := logging.Setup(logging.Config{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = logging.Setup(logging.Config{Level: "chatty"})
	require.Error(t, err)
}

func TestSetupFileSink(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.Setup(logging.Config{
		Tag:       "mace_run-1",
		Directory: dir,
	})
	require.NoError(t, err)

	logger.Info("starting transplant")

	data, err := os.ReadFile(filepath.Join(dir, "mace_run-1.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting transplant")
}

func TestSetupEmitFalseDiscardsEverything(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.Setup(logging.Config{
		Tag:       "silent",
		Directory: dir,
		Emit:      func() bool { return false },
	})
	require.NoError(t, err)
	assert.Equal(t, io.Discard, logger.Out)

	logger.Info("should vanish")

	_, statErr := os.Stat(filepath.Join(dir, "silent.log"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRankEmitter(t *testing.T) {
	assert.True(t, logging.RankEmitter(0)())
	assert.False(t, logging.RankEmitter(1)())
}

func TestTag(t *testing.T) {
	assert.Equal(t, "mace_run-3", logging.Tag("mace", 3))
	assert.Equal(t, "ft-water_run-0", logging.Tag("ft-water", 0))
}
