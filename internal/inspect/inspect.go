// Package inspect computes summary statistics over the tensors of a saved
// model so a checkpoint can be sanity-checked without rebuilding the model.
// NaN and Inf elements are counted separately and excluded from the
// min/max/mean/absmax aggregates.
package inspect

import (
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/atomica-ml/atomica/internal/parallel"
	"github.com/atomica-ml/atomica/internal/serialization"
	"github.com/atomica-ml/atomica/internal/tensor"
)

// TensorStats summarizes the values of one tensor. Min, Max, Mean and
// AbsMax cover only the finite elements; an all-NaN tensor reports zeros.
type TensorStats struct {
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	AbsMax        float64 `json:"abs_max"`
	NaNCount      int     `json:"nan_count"`
	InfCount      int     `json:"inf_count"`
	TotalElements int     `json:"total_elements"`
}

// Problematic reports whether the tensor holds any non-finite values.
func (s TensorStats) Problematic() bool {
	return s.NaNCount > 0 || s.InfCount > 0
}

type partial struct {
	min, max, sum, absMax float64
	nan, inf, finite      int
}

// Analyze computes statistics over a flat value slice. Large tensors are
// split into chunks processed in parallel; per-chunk partials are merged
// after the sweep.
func Analyze(values []float64, cfg parallel.Config) TensorStats {
	stats := TensorStats{TotalElements: len(values)}
	if len(values) == 0 {
		return stats
	}

	var mu sync.Mutex
	merged := partial{min: math.Inf(1), max: math.Inf(-1)}

	parallel.Ranges(len(values), func(start, end int) {
		part := partial{min: math.Inf(1), max: math.Inf(-1)}
		for _, v := range values[start:end] {
			if math.IsNaN(v) {
				part.nan++
				continue
			}
			if math.IsInf(v, 0) {
				part.inf++
				continue
			}
			if v < part.min {
				part.min = v
			}
			if v > part.max {
				part.max = v
			}
			if a := math.Abs(v); a > part.absMax {
				part.absMax = a
			}
			part.sum += v
			part.finite++
		}

		mu.Lock()
		merged.nan += part.nan
		merged.inf += part.inf
		merged.finite += part.finite
		merged.sum += part.sum
		if part.min < merged.min {
			merged.min = part.min
		}
		if part.max > merged.max {
			merged.max = part.max
		}
		if part.absMax > merged.absMax {
			merged.absMax = part.absMax
		}
		mu.Unlock()
	}, cfg)

	stats.NaNCount = merged.nan
	stats.InfCount = merged.inf
	if merged.finite > 0 {
		stats.Min = merged.min
		stats.Max = merged.max
		stats.Mean = merged.sum / float64(merged.finite)
		stats.AbsMax = merged.absMax
	}
	return stats
}

// AnalyzeTensor computes statistics over a tensor of any dtype. Float64
// tensors are swept in place; other dtypes go through a widening copy.
func AnalyzeTensor(t *tensor.Tensor, cfg parallel.Config) TensorStats {
	if t.DType() == tensor.Float64 {
		return Analyze(t.AsFloat64(), cfg)
	}
	return Analyze(t.Float64Values(), cfg)
}

// TensorReport is the per-tensor entry of a file report.
type TensorReport struct {
	Name      string      `json:"name"`
	DType     string      `json:"dtype"`
	Shape     []int       `json:"shape"`
	SizeBytes int64       `json:"size_bytes"`
	Stats     TensorStats `json:"stats"`
}

// Summary aggregates the per-tensor statistics of a file.
type Summary struct {
	TensorCount        int      `json:"tensor_count"`
	TotalElements      int      `json:"total_elements"`
	TotalNaN           int      `json:"total_nan"`
	TotalInf           int      `json:"total_inf"`
	ProblematicTensors []string `json:"problematic_tensors"`
}

// Summarize folds per-tensor reports into file totals and collects the
// names of tensors holding non-finite values.
func Summarize(tensors []TensorReport) Summary {
	s := Summary{
		TensorCount:        len(tensors),
		ProblematicTensors: []string{},
	}
	for _, tr := range tensors {
		s.TotalElements += tr.Stats.TotalElements
		s.TotalNaN += tr.Stats.NaNCount
		s.TotalInf += tr.Stats.InfCount
		if tr.Stats.Problematic() {
			s.ProblematicTensors = append(s.ProblematicTensors, tr.Name)
		}
	}
	return s
}

// Report describes one .atmc file: header facts, integrity, and value
// statistics for every tensor in file order.
type Report struct {
	Path             string                        `json:"path"`
	FormatVersion    int                           `json:"format_version"`
	ToolkitVersion   string                        `json:"toolkit_version"`
	ModelType        string                        `json:"model_type"`
	CreatedAt        time.Time                     `json:"created_at"`
	Metadata         map[string]string             `json:"metadata,omitempty"`
	Checkpoint       *serialization.CheckpointMeta `json:"checkpoint,omitempty"`
	Checksum         string                        `json:"checksum"`
	ChecksumVerified bool                          `json:"checksum_verified"`
	Tensors          []TensorReport                `json:"tensors"`
	Summary          Summary                       `json:"summary"`
}

// Options controls File. Verify forces a checksum pass over the data
// section before any statistics run. Parallel spreads tensors across
// workers; each tensor is swept sequentially.
type Options struct {
	Verify   bool
	Parallel parallel.Config
}

// File builds a report for an .atmc file. The file is memory-mapped, so
// only the header and the swept values are ever resident.
func File(path string, opts Options) (*Report, error) {
	r, err := serialization.NewMmapReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if opts.Verify {
		if err := r.VerifyChecksum(); err != nil {
			return nil, fmt.Errorf("checksum verification failed: %w", err)
		}
	}

	header := r.Header()
	checksum := r.Checksum()
	report := &Report{
		Path:             path,
		FormatVersion:    header.FormatVersion,
		ToolkitVersion:   header.ToolkitVersion,
		ModelType:        header.ModelType,
		CreatedAt:        header.CreatedAt,
		Metadata:         header.Metadata,
		Checkpoint:       header.Checkpoint,
		Checksum:         hex.EncodeToString(checksum[:]),
		ChecksumVerified: opts.Verify,
		Tensors:          make([]TensorReport, len(header.Tensors)),
	}

	// Mmap reads are plain slicing, safe from concurrent workers. Each
	// worker writes only its own index.
	errs := make([]error, len(header.Tensors))
	parallel.For(len(header.Tensors), func(i int) {
		meta := header.Tensors[i]
		tr := TensorReport{
			Name:      meta.Name,
			DType:     meta.DType,
			Shape:     meta.Shape,
			SizeBytes: meta.Size,
		}

		dtype, ok := serialization.ParseDType(meta.DType)
		if !ok {
			errs[i] = fmt.Errorf("tensor %q: unsupported dtype %s", meta.Name, meta.DType)
			return
		}
		data, err := r.TensorData(meta.Name)
		if err != nil {
			errs[i] = err
			return
		}
		t, err := tensor.FromBytes(data, tensor.Shape(meta.Shape), dtype)
		if err != nil {
			errs[i] = fmt.Errorf("tensor %q: %w", meta.Name, err)
			return
		}

		tr.Stats = AnalyzeTensor(t, parallel.Config{})
		report.Tensors[i] = tr
	}, opts.Parallel)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	report.Summary = Summarize(report.Tensors)
	return report, nil
}
