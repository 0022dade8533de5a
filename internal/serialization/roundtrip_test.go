package serialization

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/atomica-ml/atomica/internal/tensor"
)

func testStateDict(t *testing.T) map[string]*tensor.Tensor {
	t.Helper()

	weight, err := tensor.FromFloat64([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("failed to create tensor: %v", err)
	}
	embedding, err := tensor.FromFloat32([]float32{0.5, -0.5, 1.5, -1.5}, tensor.Shape{4})
	if err != nil {
		t.Fatalf("failed to create tensor: %v", err)
	}
	numbers, err := tensor.FromInt64([]int64{1, 8, 26}, tensor.Shape{3})
	if err != nil {
		t.Fatalf("failed to create tensor: %v", err)
	}

	return map[string]*tensor.Tensor{
		"linear.weight":    weight,
		"embedding.weight": embedding,
		"atomic_numbers":   numbers,
	}
}

func assertTensorEqual(t *testing.T, name string, got, want *tensor.Tensor) {
	t.Helper()
	if got.DType() != want.DType() {
		t.Errorf("%s: dtype %s, want %s", name, got.DType(), want.DType())
	}
	if !got.Shape().Equal(want.Shape()) {
		t.Errorf("%s: shape %v, want %v", name, got.Shape(), want.Shape())
	}
	if !bytes.Equal(got.Data(), want.Data()) {
		t.Errorf("%s: payload differs", name)
	}
}

func writeTestFile(t *testing.T, path string, stateDict map[string]*tensor.Tensor, header Header) {
	t.Helper()
	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	if err := writer.WriteStateDict(stateDict, header); err != nil {
		t.Fatalf("failed to write state dict: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.atmc")
	stateDict := testStateDict(t)

	writeTestFile(t, path, stateDict, Header{
		ModelType:   "MACE",
		Metadata:    map[string]string{"source": "unit-test"},
		ModelConfig: json.RawMessage(`{"r_max":5.0,"num_interactions":2}`),
		Checkpoint: &CheckpointMeta{
			Epoch:         3,
			Step:          1200,
			Loss:          0.125,
			OptimizerName: "adamw",
		},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("failed to open file: %v", err)
	}
	defer reader.Close()

	header := reader.Header()
	if header.FormatVersion != FormatVersion {
		t.Errorf("format version %d, want %d", header.FormatVersion, FormatVersion)
	}
	if header.ToolkitVersion == "" {
		t.Error("toolkit version should be stamped")
	}
	if header.ModelType != "MACE" {
		t.Errorf("model type %q, want MACE", header.ModelType)
	}
	if header.CreatedAt.IsZero() {
		t.Error("creation time should be stamped")
	}
	if reader.Metadata()["source"] != "unit-test" {
		t.Errorf("metadata not preserved: %v", reader.Metadata())
	}
	if string(reader.ModelConfig()) != `{"r_max":5.0,"num_interactions":2}` {
		t.Errorf("model config not preserved: %s", reader.ModelConfig())
	}

	ckpt := reader.Checkpoint()
	if ckpt == nil {
		t.Fatal("checkpoint block missing")
	}
	if ckpt.Epoch != 3 || ckpt.Step != 1200 || ckpt.Loss != 0.125 || ckpt.OptimizerName != "adamw" {
		t.Errorf("checkpoint block not preserved: %+v", ckpt)
	}

	if reader.Flags()&FlagHasMetadata == 0 {
		t.Error("metadata flag should be set")
	}
	if reader.Flags()&FlagHasCheckpoint == 0 {
		t.Error("checkpoint flag should be set")
	}

	loaded, err := reader.ReadStateDict()
	if err != nil {
		t.Fatalf("failed to read state dict: %v", err)
	}
	if len(loaded) != len(stateDict) {
		t.Fatalf("loaded %d tensors, want %d", len(loaded), len(stateDict))
	}
	for name, want := range stateDict {
		got, ok := loaded[name]
		if !ok {
			t.Fatalf("tensor %s missing", name)
		}
		assertTensorEqual(t, name, got, want)
	}
}

// TestDeterministicLayout verifies tensors are laid out in name order with
// contiguous offsets.
func TestDeterministicLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.atmc")
	writeTestFile(t, path, testStateDict(t), Header{ModelType: "MACE"})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("failed to open file: %v", err)
	}
	defer reader.Close()

	names := reader.TensorNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("tensor names should be sorted: %v", names)
	}

	var next int64
	for _, meta := range reader.Header().Tensors {
		if meta.Offset != next {
			t.Errorf("tensor %s at offset %d, want %d", meta.Name, meta.Offset, next)
		}
		next = meta.Offset + meta.Size
	}
}

func TestSingleTensorAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.atmc")
	stateDict := testStateDict(t)
	writeTestFile(t, path, stateDict, Header{ModelType: "MACE"})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("failed to open file: %v", err)
	}
	defer reader.Close()

	got, err := reader.LoadTensor("linear.weight")
	if err != nil {
		t.Fatalf("failed to load tensor: %v", err)
	}
	assertTensorEqual(t, "linear.weight", got, stateDict["linear.weight"])

	data, err := reader.ReadTensorData("atomic_numbers")
	if err != nil {
		t.Fatalf("failed to read tensor data: %v", err)
	}
	if len(data) != 3*8 {
		t.Errorf("payload is %d bytes, want 24", len(data))
	}

	if _, err := reader.LoadTensor("missing"); err == nil {
		t.Error("loading an absent tensor should fail")
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.atmc")
	writeTestFile(t, path, testStateDict(t), Header{ModelType: "MACE"})

	// Flip the last byte; the data section ends the file.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file back: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write corrupted file: %v", err)
	}

	_, err = NewReader(path)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got: %v", err)
	}

	// Skipping validation must still open the file.
	reader, err := NewReaderWithOptions(path, ReaderOptions{
		SkipChecksumValidation: true,
		ValidationLevel:        ValidationStrict,
	})
	if err != nil {
		t.Fatalf("skip-checksum open failed: %v", err)
	}
	defer reader.Close()
	if _, err := reader.ReadStateDict(); err != nil {
		t.Errorf("reading corrupted data with checks off should succeed: %v", err)
	}
}

func TestInvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.atmc")
	bogus := make([]byte, FixedHeaderSize)
	copy(bogus, "NOPE")
	if err := os.WriteFile(path, bogus, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := NewReader(path)
	if !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got: %v", err)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.atmc")
	writeTestFile(t, path, testStateDict(t), Header{ModelType: "MACE"})

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file back: %v", err)
	}
	raw[4] = 99 // version field
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write patched file: %v", err)
	}

	_, err = NewReader(path)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got: %v", err)
	}
}

func TestWriteToReadFrom(t *testing.T) {
	stateDict := testStateDict(t)

	var buf bytes.Buffer
	if err := WriteTo(&buf, stateDict, Header{ModelType: "MACE"}); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	loaded, header, err := ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if header.ModelType != "MACE" {
		t.Errorf("model type %q, want MACE", header.ModelType)
	}
	for name, want := range stateDict {
		got, ok := loaded[name]
		if !ok {
			t.Fatalf("tensor %s missing", name)
		}
		assertTensorEqual(t, name, got, want)
	}
}

func TestReadFromDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, testStateDict(t), Header{ModelType: "MACE"}); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF

	_, _, err := ReadFrom(bytes.NewReader(raw))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got: %v", err)
	}
}

func TestMmapReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.atmc")
	stateDict := testStateDict(t)
	writeTestFile(t, path, stateDict, Header{
		ModelType: "MACE",
		Metadata:  map[string]string{"source": "unit-test"},
	})

	reader, err := NewMmapReader(path)
	if err != nil {
		t.Fatalf("failed to mmap file: %v", err)
	}
	defer reader.Close()

	if reader.Header().ModelType != "MACE" {
		t.Errorf("model type %q, want MACE", reader.Header().ModelType)
	}
	if err := reader.VerifyChecksum(); err != nil {
		t.Errorf("checksum should verify: %v", err)
	}

	meta, err := reader.TensorInfo("linear.weight")
	if err != nil {
		t.Fatalf("TensorInfo failed: %v", err)
	}
	data, err := reader.TensorData("linear.weight")
	if err != nil {
		t.Fatalf("TensorData failed: %v", err)
	}
	if int64(len(data)) != meta.Size {
		t.Errorf("zero-copy slice is %d bytes, want %d", len(data), meta.Size)
	}

	loaded, err := reader.ReadStateDict()
	if err != nil {
		t.Fatalf("failed to read state dict: %v", err)
	}
	for name, want := range stateDict {
		assertTensorEqual(t, name, loaded[name], want)
	}

	if _, err := reader.TensorInfo("missing"); err == nil {
		t.Error("TensorInfo for an absent tensor should fail")
	}

	if err := reader.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Errorf("double close should be a no-op: %v", err)
	}
}

func TestMmapReaderRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.atmc")
	if err := os.WriteFile(path, []byte("ATMC"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewMmapReader(path); err == nil {
		t.Error("truncated file should be rejected")
	}
}
