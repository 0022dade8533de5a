package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atomica-ml/atomica/internal/tensor"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// SafeTensorsDType represents supported SafeTensors data types.
type SafeTensorsDType string

// SafeTensors dtypes that appear in MACE exports.
const (
	SafeTensorsF16  SafeTensorsDType = "F16"
	SafeTensorsF32  SafeTensorsDType = "F32"
	SafeTensorsF64  SafeTensorsDType = "F64"
	SafeTensorsBF16 SafeTensorsDType = "BF16"
	SafeTensorsI32  SafeTensorsDType = "I32"
	SafeTensorsI64  SafeTensorsDType = "I64"
)

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
// The special "__metadata__" key holds string metadata; every other key
// names a tensor.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits the metadata entry from the tensor entries.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.Metadata = make(map[string]string)
	h.Tensors = make(map[string]SafeTensorInfo)

	for key, value := range raw {
		if key == "__metadata__" {
			if err := json.Unmarshal(value, &h.Metadata); err != nil {
				return fmt.Errorf("failed to parse __metadata__: %w", err)
			}
			continue
		}

		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to parse tensor %q: %w", key, err)
		}
		h.Tensors[key] = info
	}

	return nil
}

// maxSafeTensorsHeader bounds the JSON header of files we are willing to
// parse. Real MACE exports carry a few hundred tensor entries, well under
// a megabyte.
const maxSafeTensorsHeader = 100 * 1024 * 1024

// SafeTensorsReader reads tensors from a .safetensors file.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	dataOffset int64
	dataSize   int64
}

// NewSafeTensorsReader opens a SafeTensors file and parses its header.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path comes from the user's CLI invocation
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &SafeTensorsReader{file: file}
	if err := r.parseHeader(); err != nil {
		_ = file.Close()
		return nil, err
	}

	return r, nil
}

func (r *SafeTensorsReader) parseHeader() error {
	var headerSize uint64
	if err := binary.Read(r.file, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("failed to read header size: %w", err)
	}

	if headerSize > maxSafeTensorsHeader {
		return fmt.Errorf("header too large: %d bytes", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r.dataOffset = 8 + int64(headerSize) //nolint:gosec // G115: bounded by maxSafeTensorsHeader

	stat, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	r.dataSize = stat.Size() - r.dataOffset

	for name, info := range r.header.Tensors {
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start || end > r.dataSize {
			return fmt.Errorf("tensor %q: data offsets [%d, %d) outside data section of %d bytes",
				name, start, end, r.dataSize)
		}
	}

	return nil
}

// Close closes the underlying file.
func (r *SafeTensorsReader) Close() error {
	return r.file.Close()
}

// Metadata returns the __metadata__ entries of the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in the file.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (SafeTensorInfo, bool) {
	info, ok := r.header.Tensors[name]
	return info, ok
}

// ReadTensorData reads the raw bytes of a tensor.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("tensor not found: %s", name)
	}

	size := info.DataOffsets[1] - info.DataOffsets[0]
	data := make([]byte, size)
	if _, err := r.file.ReadAt(data, r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor %q: %w", name, err)
	}

	return data, nil
}

// safeTensorsDTypeToDataType converts a SafeTensors dtype to our DataType.
func safeTensorsDTypeToDataType(dt SafeTensorsDType) (tensor.DataType, error) {
	switch dt {
	case SafeTensorsF32:
		return tensor.Float32, nil
	case SafeTensorsF64:
		return tensor.Float64, nil
	case SafeTensorsI32:
		return tensor.Int32, nil
	case SafeTensorsI64:
		return tensor.Int64, nil
	case SafeTensorsF16, SafeTensorsBF16:
		return 0, fmt.Errorf("dtype %s requires conversion (not directly supported)", dt)
	default:
		return 0, fmt.Errorf("unsupported dtype: %s", dt)
	}
}

// LoadTensor reads a tensor from the file.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.Tensor, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("tensor not found: %s", name)
	}

	dtype, err := safeTensorsDTypeToDataType(info.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}

	t, err := tensor.FromBytes(data, tensor.Shape(info.Shape), dtype)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}

	return t, nil
}
