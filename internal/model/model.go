package model

import (
	"fmt"
	"sort"

	"github.com/atomica-ml/atomica/internal/elements"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// Model is the full parameter container: the configuration schema, the
// element table, and the module tree. Models are built by New, loaded from
// files, or imported from foreign checkpoints; the weights are mutated in
// place by training and transplant.
type Model struct {
	Config Config
	Table  *elements.Table

	NodeEmbedding   *NodeEmbedding
	RadialEmbedding *RadialEmbedding
	Interactions    []*Interaction
	Products        []*Product
	Readouts        []Readout
	ScaleShift      *ScaleShift
	AtomicEnergies  *AtomicEnergies
}

// New builds a model with zero-initialized weights from a configuration.
// Every parameter shape is derived from the schema; a zero SchemaVersion is
// treated as the current version.
func New(cfg Config) (*Model, error) {
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = SchemaVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		Config: cfg,
		Table:  elements.NewTable(cfg.AtomicNumbers),
	}
	channels := cfg.Hidden().Channels()
	m.NodeEmbedding = newNodeEmbedding("node_embedding", cfg.NumElements(), channels)
	m.RadialEmbedding = newRadialEmbedding("radial_embedding", &m.Config)

	for i := 0; i < cfg.NumInteractions; i++ {
		inter, err := newInteraction(fmt.Sprintf("interactions.%d", i), i, &m.Config)
		if err != nil {
			return nil, err
		}
		m.Interactions = append(m.Interactions, inter)

		prod, err := newProduct(fmt.Sprintf("products.%d", i), i, &m.Config)
		if err != nil {
			return nil, err
		}
		m.Products = append(m.Products, prod)

		if i < cfg.NumInteractions-1 {
			m.Readouts = append(m.Readouts, newLinearReadout(fmt.Sprintf("readouts.%d", i), &m.Config))
		} else {
			m.Readouts = append(m.Readouts, newMLPReadout(fmt.Sprintf("readouts.%d", i), &m.Config))
		}
	}
	m.ScaleShift = newScaleShift(&m.Config)
	m.AtomicEnergies = newAtomicEnergies(&m.Config)
	return m, nil
}

// Parameters returns every trainable parameter in a stable order:
// embeddings first, then interactions, products, and readouts.
func (m *Model) Parameters() []*Parameter {
	var params []*Parameter
	params = append(params, m.NodeEmbedding.Parameters()...)
	params = append(params, m.RadialEmbedding.Parameters()...)
	for _, b := range m.Interactions {
		params = append(params, b.Parameters()...)
	}
	for _, p := range m.Products {
		params = append(params, p.Parameters()...)
	}
	for _, r := range m.Readouts {
		params = append(params, r.Parameters()...)
	}
	return params
}

// NumWeights returns the total number of trainable weight elements.
func (m *Model) NumWeights() int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.Value().NumElements()
	}
	return n
}

// StateDict returns every parameter and buffer keyed by dotted path.
// Parameter entries are the live storage, not copies; scalar buffers such as
// the neighbor averages are materialized on each call.
func (m *Model) StateDict() map[string]*tensor.Tensor {
	dict := make(map[string]*tensor.Tensor)
	for _, p := range m.Parameters() {
		dict[p.Name()] = p.Value()
	}
	for i, b := range m.Interactions {
		dict[fmt.Sprintf("interactions.%d.avg_num_neighbors", i)] = tensor.Scalar(b.AvgNumNeighbors)
	}
	dict["scale_shift.scale"] = m.ScaleShift.Scale
	dict["scale_shift.shift"] = m.ScaleShift.Shift
	dict["atomic_energies.energies"] = m.AtomicEnergies.Energies
	return dict
}

// StateNames returns the sorted key set of the state dict.
func (m *Model) StateNames() []string {
	dict := m.StateDict()
	names := make([]string, 0, len(dict))
	for name := range dict {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadStateDict copies tensors from a state dict into the model, validating
// shapes and dtypes. The dict must cover the model exactly: missing and
// unexpected entries are errors.
func (m *Model) LoadStateDict(src map[string]*tensor.Tensor) error {
	if err := loadParameters(src, m.Parameters()...); err != nil {
		return err
	}
	expected := make(map[string]struct{})
	for _, p := range m.Parameters() {
		expected[p.Name()] = struct{}{}
	}

	for i, b := range m.Interactions {
		name := fmt.Sprintf("interactions.%d.avg_num_neighbors", i)
		expected[name] = struct{}{}
		v, err := scalarEntry(src, name)
		if err != nil {
			return err
		}
		b.AvgNumNeighbors = v
	}
	for _, buf := range []struct {
		name string
		dst  *tensor.Tensor
	}{
		{"scale_shift.scale", m.ScaleShift.Scale},
		{"scale_shift.shift", m.ScaleShift.Shift},
		{"atomic_energies.energies", m.AtomicEnergies.Energies},
	} {
		expected[buf.name] = struct{}{}
		t, ok := src[buf.name]
		if !ok {
			return fmt.Errorf("missing %s in state dict", buf.name)
		}
		if err := buf.dst.CopyFrom(t.ToFloat64()); err != nil {
			return fmt.Errorf("%s: %w", buf.name, err)
		}
	}

	for name := range src {
		if _, ok := expected[name]; !ok {
			return fmt.Errorf("unexpected %s in state dict", name)
		}
	}
	return nil
}

// ExtractConfig returns the schema a model rebuilds from. Slices are
// copies, and values that live in buffers rather than the config (atomic
// energies, scale, shift, neighbor averages) are read back from the model,
// so the result reflects mutations made after construction.
func ExtractConfig(m *Model) Config {
	cfg := m.Config
	cfg.RadialMLP = append([]int(nil), m.Config.RadialMLP...)
	cfg.AtomicNumbers = append([]int(nil), m.Config.AtomicNumbers...)
	cfg.AtomicEnergies = m.AtomicEnergies.Energies.Float64Values()
	cfg.AtomicInterScale = m.ScaleShift.Scale.Float64At(0)
	cfg.AtomicInterShift = m.ScaleShift.Shift.Float64At(0)
	if len(m.Interactions) > 0 {
		cfg.AvgNumNeighbors = m.Interactions[0].AvgNumNeighbors
	}
	return cfg
}

func scalarEntry(src map[string]*tensor.Tensor, name string) (float64, error) {
	t, ok := src[name]
	if !ok {
		return 0, fmt.Errorf("missing %s in state dict", name)
	}
	if t.NumElements() != 1 {
		return 0, fmt.Errorf("%s must be a scalar, got shape %v", name, t.Shape())
	}
	return t.Float64At(0), nil
}
