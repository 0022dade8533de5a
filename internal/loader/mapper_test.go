package loader

import "testing"

func TestMACETorchMapper_MapName(t *testing.T) {
	mapper := NewMACETorchMapper()

	tests := []struct {
		name   string
		mapped string
		ok     bool
	}{
		// Renamed entries.
		{"radial_embedding.bessel_fn.bessel_weights", "radial_embedding.bessel_weights", true},
		{"atomic_energies_fn.atomic_energies", "atomic_energies.energies", true},
		{"products.0.symmetric_contractions.contractions.1.weights_max", "products.0.contractions.1.weights_max", true},
		{"products.1.symmetric_contractions.contractions.0.weights.2", "products.1.contractions.0.weights.2", true},

		// Pass-through entries.
		{"node_embedding.linear.weight", "node_embedding.linear.weight", true},
		{"interactions.0.linear_up.weight", "interactions.0.linear_up.weight", true},
		{"interactions.1.conv_tp_weights.layer0.weight", "interactions.1.conv_tp_weights.layer0.weight", true},
		{"interactions.1.conv_tp_weights.layer3.weight", "interactions.1.conv_tp_weights.layer3.weight", true},
		{"interactions.0.linear.weight", "interactions.0.linear.weight", true},
		{"interactions.0.skip_tp.weight", "interactions.0.skip_tp.weight", true},
		{"interactions.0.avg_num_neighbors", "interactions.0.avg_num_neighbors", true},
		{"products.0.linear.weight", "products.0.linear.weight", true},
		{"readouts.0.linear.weight", "readouts.0.linear.weight", true},
		{"readouts.1.linear_1.weight", "readouts.1.linear_1.weight", true},
		{"readouts.1.linear_2.weight", "readouts.1.linear_2.weight", true},
		{"scale_shift.scale", "scale_shift.scale", true},
		{"scale_shift.shift", "scale_shift.shift", true},

		// Non-weight buffers are skipped.
		{"r_max", "", false},
		{"atomic_numbers", "", false},
		{"num_interactions", "", false},
		{"products.0.symmetric_contractions.contractions.0.U_matrix_3", "", false},
		{"interactions.0.reshape.some_buffer", "", false},
		{"spherical_harmonics._w", "", false},
	}

	for _, tt := range tests {
		mapped, ok := mapper.MapName(tt.name)
		if ok != tt.ok {
			t.Errorf("MapName(%q): expected ok=%v, got %v", tt.name, tt.ok, ok)
			continue
		}
		if ok && mapped != tt.mapped {
			t.Errorf("MapName(%q): expected %q, got %q", tt.name, tt.mapped, mapped)
		}
	}
}

func TestDetectSource(t *testing.T) {
	maceNames := []string{
		"node_embedding.linear.weight",
		"products.0.symmetric_contractions.contractions.0.weights_max",
	}
	if got := DetectSource(maceNames); got != SourceMACETorch {
		t.Errorf("Expected %q, got %q", SourceMACETorch, got)
	}

	if got := DetectSource([]string{"atomic_energies_fn.atomic_energies"}); got != SourceMACETorch {
		t.Errorf("Expected %q, got %q", SourceMACETorch, got)
	}

	if got := DetectSource([]string{"model.layers.0.self_attn.q_proj.weight"}); got != "" {
		t.Errorf("Expected no detection, got %q", got)
	}
}

func TestGetMapper(t *testing.T) {
	mapper, err := GetMapper(SourceMACETorch)
	if err != nil {
		t.Fatalf("GetMapper failed: %v", err)
	}
	if mapper.Source() != SourceMACETorch {
		t.Errorf("Expected source %q, got %q", SourceMACETorch, mapper.Source())
	}

	if _, err := GetMapper("onnx"); err == nil {
		t.Error("Expected error for unknown source")
	}
}
