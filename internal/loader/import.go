package loader

import (
	"fmt"
	"sort"

	"github.com/atomica-ml/atomica/internal/model"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// ConfigMetadataKey is the __metadata__ entry that carries the model
// config as JSON. MACE safetensors exporters write it alongside the
// weights so a file is self-describing.
const ConfigMetadataKey = "config"

// ImportReport summarizes what an import did: which convention was
// detected, how many tensors were mapped into the model, and which file
// entries were skipped as non-weights.
type ImportReport struct {
	Source  string
	Mapped  int
	Skipped []string
}

// ImportModel reads a safetensors export of a MACE model, rebuilds the
// architecture from the embedded config, and loads the weights under our
// naming. Float32 weights are widened to Float64.
func ImportModel(path string) (*model.Model, *ImportReport, error) {
	r, err := NewSafeTensorsReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	return importFromReader(r)
}

func importFromReader(r *SafeTensorsReader) (*model.Model, *ImportReport, error) {
	names := r.TensorNames()
	source := DetectSource(names)
	if source == "" {
		return nil, nil, fmt.Errorf("unrecognized export: none of %d tensor names match a known convention", len(names))
	}
	mapper, err := GetMapper(source)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := readEmbeddedConfig(r)
	if err != nil {
		return nil, nil, err
	}

	stateDict := make(map[string]*tensor.Tensor, len(names))
	report := &ImportReport{Source: source}
	for _, name := range names {
		mapped, ok := mapper.MapName(name)
		if !ok {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		t, err := r.LoadTensor(name)
		if err != nil {
			return nil, nil, err
		}
		stateDict[mapped] = t.ToFloat64()
		report.Mapped++
	}
	sort.Strings(report.Skipped)

	if err := fillMissingBuffers(stateDict, cfg); err != nil {
		return nil, nil, err
	}

	m, err := model.New(*cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := m.LoadStateDict(stateDict); err != nil {
		return nil, nil, fmt.Errorf("failed to load imported weights: %w", err)
	}

	return m, report, nil
}

func readEmbeddedConfig(r *SafeTensorsReader) (*model.Config, error) {
	raw, ok := r.Metadata()[ConfigMetadataKey]
	if !ok || raw == "" {
		return nil, fmt.Errorf("export carries no %q metadata entry", ConfigMetadataKey)
	}
	cfg, err := model.ParseConfig([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("embedded config: %w", err)
	}
	return cfg, nil
}

// fillMissingBuffers synthesizes state dict entries that PyTorch keeps as
// plain attributes rather than tensors, reading their values from the
// config. Entries already present in the export win.
func fillMissingBuffers(stateDict map[string]*tensor.Tensor, cfg *model.Config) error {
	for i := 0; i < cfg.NumInteractions; i++ {
		name := fmt.Sprintf("interactions.%d.avg_num_neighbors", i)
		if _, ok := stateDict[name]; !ok {
			stateDict[name] = tensor.Scalar(cfg.AvgNumNeighbors)
		}
	}
	if _, ok := stateDict["scale_shift.scale"]; !ok {
		stateDict["scale_shift.scale"] = tensor.Scalar(cfg.AtomicInterScale)
	}
	if _, ok := stateDict["scale_shift.shift"]; !ok {
		stateDict["scale_shift.shift"] = tensor.Scalar(cfg.AtomicInterShift)
	}
	if _, ok := stateDict["atomic_energies.energies"]; !ok {
		t, err := tensor.FromFloat64(cfg.AtomicEnergies, tensor.Shape{len(cfg.AtomicEnergies)})
		if err != nil {
			return fmt.Errorf("atomic energies from config: %w", err)
		}
		stateDict["atomic_energies.energies"] = t
	}
	return nil
}
