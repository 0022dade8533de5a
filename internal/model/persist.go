package model

import (
	"encoding/json"
	"fmt"

	"github.com/atomica-ml/atomica/internal/serialization"
)

const modelType = "MACE"

// Save writes the model and its configuration to an .atmc file. The
// configuration travels inside the file, so Load needs nothing else.
func Save(m *Model, path string) error {
	return saveWithHeader(m, path, serialization.Header{ModelType: modelType})
}

// SaveCheckpoint writes the model with a checkpoint block attached.
func SaveCheckpoint(m *Model, path string, ckpt *serialization.CheckpointMeta) error {
	return saveWithHeader(m, path, serialization.Header{
		ModelType:  modelType,
		Checkpoint: ckpt,
	})
}

func saveWithHeader(m *Model, path string, header serialization.Header) error {
	configJSON, err := json.Marshal(ExtractConfig(m))
	if err != nil {
		return fmt.Errorf("failed to encode model config: %w", err)
	}
	header.ModelConfig = configJSON

	writer, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	if err := writer.WriteStateDict(m.StateDict(), header); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// Load rebuilds a model from an .atmc file using the embedded configuration.
func Load(path string) (*Model, error) {
	m, _, err := LoadCheckpoint(path)
	return m, err
}

// LoadCheckpoint rebuilds a model and returns its checkpoint block, which is
// nil for plain model files.
func LoadCheckpoint(path string) (*Model, *serialization.CheckpointMeta, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	configJSON := reader.ModelConfig()
	if len(configJSON) == 0 {
		return nil, nil, fmt.Errorf("file %s carries no model config", path)
	}
	cfg, err := ParseConfig(configJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse model config: %w", err)
	}

	m, err := New(*cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build model: %w", err)
	}

	stateDict, err := reader.ReadStateDict()
	if err != nil {
		return nil, nil, err
	}
	if err := m.LoadStateDict(stateDict); err != nil {
		return nil, nil, fmt.Errorf("failed to load state dict: %w", err)
	}

	return m, reader.Checkpoint(), nil
}
