package serialization

import (
	"encoding/json"
	"time"

	"github.com/atomica-ml/atomica/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "ATMC"
	FormatVersion   = 1
	FixedHeaderSize = 64   // magic, version, flags, sizes, checksum
	HeaderAlignment = 64   // tensor data alignment
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // checksum position in the fixed header
)

// Data type string constants for serialization.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
	DTypeInt32   = "int32"
	DTypeInt64   = "int64"
)

// Flags for the .atmc format.
const (
	FlagCompressed    uint32 = 1 << 0 // reserved
	FlagHasCheckpoint uint32 = 1 << 1
	FlagHasMetadata   uint32 = 1 << 2
)

// Header is the JSON header of an .atmc file. ModelConfig carries the model
// configuration document verbatim, so a file is enough to rebuild the model
// it stores.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	ToolkitVersion string            `json:"toolkit_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata"`
	ModelConfig    json.RawMessage   `json:"model_config,omitempty"`
	Checkpoint     *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta records training state for checkpoint files.
type CheckpointMeta struct {
	Epoch           int            `json:"epoch"`
	Step            int64          `json:"step"`
	Loss            float64        `json:"loss"`
	OptimizerName   string         `json:"optimizer_name"`
	OptimizerConfig map[string]any `json:"optimizer_config,omitempty"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`
}

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return DTypeFloat32
	case tensor.Float64:
		return DTypeFloat64
	case tensor.Int32:
		return DTypeInt32
	case tensor.Int64:
		return DTypeInt64
	default:
		return "unknown"
	}
}

// ParseDType maps a header dtype string to the tensor data type.
func ParseDType(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat32:
		return tensor.Float32, true
	case DTypeFloat64:
		return tensor.Float64, true
	case DTypeInt32:
		return tensor.Int32, true
	case DTypeInt64:
		return tensor.Int64, true
	default:
		return 0, false
	}
}
