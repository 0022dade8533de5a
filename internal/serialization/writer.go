package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/atomica-ml/atomica/internal/tensor"
)

// ToolkitVersion is stamped into every written file.
const ToolkitVersion = "0.2.0"

// Writer writes models in .atmc format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .atmc file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: file path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary under the given header. The
// writer stamps the format and toolkit versions and the creation time;
// everything else in the header (model type, metadata, model config,
// checkpoint block) is taken as given.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.Tensor, header Header) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	return encode(w.file, stateDict, header)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteTo writes a state dictionary to an io.Writer. This is useful for
// writing to buffers or network connections.
func WriteTo(writer io.Writer, stateDict map[string]*tensor.Tensor, header Header) error {
	return encode(writer, stateDict, header)
}

// encode lays out the file: fixed header, JSON header, alignment padding,
// then tensor data. Tensors are written in name order so the same state
// dictionary always produces byte-identical files.
func encode(w io.Writer, stateDict map[string]*tensor.Tensor, header Header) error {
	header.FormatVersion = FormatVersion
	header.ToolkitVersion = ToolkitVersion
	header.CreatedAt = time.Now().UTC()
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	header.Tensors = make([]TensorMeta, 0, len(names))
	var dataSize int64
	for _, name := range names {
		t := stateDict[name]
		size := int64(t.ByteSize())
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtypeToString(t.DType()),
			Shape:  []int(t.Shape()),
			Offset: dataSize,
			Size:   size,
		})
		dataSize += size
	}

	data := make([]byte, 0, dataSize)
	for _, name := range names {
		data = append(data, stateDict[name].Data()...)
	}
	checksum := ComputeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Checkpoint != nil {
		flags |= FlagHasCheckpoint
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	// 0x0C-0x0F: reserved, zero
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(dataSize)) //nolint:gosec // G115: dataSize is a sum of tensor sizes, never negative
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	pos := int64(FixedHeaderSize) + int64(len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}
