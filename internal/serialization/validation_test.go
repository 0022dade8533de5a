package serialization

import (
	"strings"
	"testing"
)

func TestValidateTensorOffsetsAccepts(t *testing.T) {
	tensors := []TensorMeta{
		{Name: "a", Offset: 0, Size: 64},
		{Name: "b", Offset: 64, Size: 32},
		{Name: "c", Offset: 96, Size: 4},
	}

	if err := ValidateTensorOffsets(tensors, 100); err != nil {
		t.Errorf("contiguous layout should validate, got: %v", err)
	}
}

func TestValidateTensorOffsetsRejects(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantType string
	}{
		{
			name: "overlap",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 64},
				{Name: "b", Offset: 32, Size: 64},
			},
			dataSize: 128,
			wantType: "offset_overlap",
		},
		{
			name: "overlap by one byte",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 65},
				{Name: "b", Offset: 64, Size: 64},
			},
			dataSize: 128,
			wantType: "offset_overlap",
		},
		{
			name: "out of bounds",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 256},
			},
			dataSize: 128,
			wantType: "out_of_bounds",
		},
		{
			name: "negative offset",
			tensors: []TensorMeta{
				{Name: "a", Offset: -8, Size: 64},
			},
			dataSize: 128,
			wantType: "negative_offset",
		},
		{
			name: "negative size",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: -1},
			},
			dataSize: 128,
			wantType: "negative_offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Type != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, verr.Type)
			}
		})
	}
}

func TestValidateTensorName(t *testing.T) {
	valid := []string{
		"node_embedding.linear.weight",
		"interactions.0.conv_tp_weights.layer1.weight",
		"scale_shift.scale",
	}
	for _, name := range valid {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("name %q should validate, got: %v", name, err)
		}
	}

	invalid := []string{
		"../escape",
		"dir/weight",
		"dir\\weight",
		"null\x00byte",
		strings.Repeat("w", MaxTensorNameLen+1),
	}
	for _, name := range invalid {
		if err := ValidateTensorName(name); err == nil {
			t.Errorf("name %q should be rejected", name)
		}
	}
}

func TestValidateHeaderLevels(t *testing.T) {
	header := &Header{
		Tensors: []TensorMeta{
			{Name: "a", Offset: 0, Size: 64},
			{Name: "b", Offset: 32, Size: 64}, // overlaps a
		},
	}

	if err := ValidateHeader(header, 128, ValidationNone); err != nil {
		t.Errorf("ValidationNone should skip all checks, got: %v", err)
	}
	if err := ValidateHeader(header, 128, ValidationNormal); err != nil {
		t.Errorf("ValidationNormal should skip offset checks, got: %v", err)
	}
	if err := ValidateHeader(header, 128, ValidationStrict); err == nil {
		t.Error("ValidationStrict should catch the overlap")
	}
}

func TestValidateHeaderMetadataSize(t *testing.T) {
	header := &Header{
		Metadata: map[string]string{
			"config": strings.Repeat("x", MaxMetadataSize),
		},
	}
	err := ValidateHeader(header, 0, ValidationNormal)
	if err == nil {
		t.Fatal("oversized metadata should be rejected")
	}
	if verr, ok := err.(*ValidationError); !ok || verr.Type != "metadata_too_large" {
		t.Errorf("expected metadata_too_large, got: %v", err)
	}
}

func TestValidationErrorMessages(t *testing.T) {
	err := &ValidationError{Type: "offset_overlap", Tensor: "a", Tensor2: "b", Details: "regions overlap"}
	msg := err.Error()
	if !strings.Contains(msg, "a") || !strings.Contains(msg, "b") {
		t.Errorf("message should name both tensors: %s", msg)
	}

	err = &ValidationError{Type: "invalid_name", Tensor: "x", Details: "bad"}
	if !strings.Contains(err.Error(), "x") {
		t.Errorf("message should name the tensor: %s", err.Error())
	}
}
