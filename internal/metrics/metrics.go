// Package metrics appends run metrics as newline-delimited JSON, one
// self-contained object per line, so runs can be tailed and post-processed
// without a database.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/atomica-ml/atomica/internal/tensor"
)

// Logger writes records to <Directory>/<Tag>.txt. The file is opened and
// closed on every call so concurrent runs and crashes never hold a line
// hostage in a buffer.
type Logger struct {
	Directory string
	Tag       string
}

// NewLogger creates a metrics logger for the given directory and run tag.
func NewLogger(directory, tag string) *Logger {
	return &Logger{Directory: directory, Tag: tag}
}

// Path returns the file the logger appends to.
func (l *Logger) Path() string {
	return filepath.Join(l.Directory, l.Tag+".txt")
}

// Log appends one record as a single JSON line. The directory is created on
// demand. Values are coerced before anything touches the disk, so a record
// with an unsupported value leaves the file untouched.
func (l *Logger) Log(record map[string]any) error {
	coerced, err := coerceMap(record)
	if err != nil {
		return err
	}

	data, err := json.Marshal(coerced)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if err := os.MkdirAll(l.Directory, 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}

	//nolint:gosec // G304: path is derived from the run configuration
	file, err := os.OpenFile(l.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open metrics file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func coerceMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		cv, err := coerceValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = cv
	}
	return out, nil
}

// coerceValue normalizes a value for JSON: float kinds widen to float64, int
// kinds to int64, tensors become nested lists, slices and maps recurse.
func coerceValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case string:
		return x, nil
	case *tensor.Tensor:
		return nestedValues(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil //nolint:gosec // G115: metrics counters stay far below 2^63
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cv, err := coerceValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = cv
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cv, err := coerceValue(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = cv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// nestedValues renders a tensor as nested lists matching its shape. A
// zero-dimensional tensor becomes a bare number.
func nestedValues(t *tensor.Tensor) any {
	return fold(t.Float64Values(), t.Shape(), t.DType().IsFloat())
}

func fold(vals []float64, shape tensor.Shape, isFloat bool) any {
	if len(shape) == 0 {
		if isFloat {
			return vals[0]
		}
		return int64(vals[0])
	}
	n := shape[0]
	out := make([]any, n)
	if n == 0 {
		return out
	}
	chunk := len(vals) / n
	for i := 0; i < n; i++ {
		out[i] = fold(vals[i*chunk:(i+1)*chunk], shape[1:], isFloat)
	}
	return out
}
