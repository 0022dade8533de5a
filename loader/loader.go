// Package loader provides the public API for importing model weights from
// external formats.
//
// This package wraps the internal importer and exports a clean surface for
// turning a safetensors export of a PyTorch MACE model into a native model.
//
// Example usage:
//
//	import "github.com/atomica-ml/atomica/loader"
//
//	m, report, err := loader.ImportModel("mace-mp-small.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Source: %s\n", report.Source)
//	fmt.Printf("Mapped: %d tensors (%d skipped)\n", report.Mapped, len(report.Skipped))
package loader

import (
	"github.com/atomica-ml/atomica/internal/loader"
	"github.com/atomica-ml/atomica/internal/model"
)

// ConfigMetadataKey is the safetensors metadata key under which exports
// embed the model configuration document.
const ConfigMetadataKey = loader.ConfigMetadataKey

// ImportReport summarizes what an import mapped and what it left behind.
type ImportReport = loader.ImportReport

// ImportModel reads a safetensors export, maps its weight names onto the
// native layout, and builds a model from the embedded configuration.
// Entries that are not model weights (optimizer state, export bookkeeping)
// are skipped and listed in the report.
//
// Example:
//
//	m, report, err := loader.ImportModel("mace-mp-small.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range report.Skipped {
//	    fmt.Println("skipped", name)
//	}
func ImportModel(path string) (*model.Model, *ImportReport, error) {
	return loader.ImportModel(path)
}

// WeightMapper maps export-specific weight names to native names.
// Different exporters use different naming conventions; a mapper
// normalizes one convention.
type WeightMapper = loader.WeightMapper

// NewMACETorchMapper creates a weight mapper for PyTorch MACE exports.
func NewMACETorchMapper() *loader.MACETorchMapper {
	return loader.NewMACETorchMapper()
}

// DetectSource attempts to detect the exporting framework from weight
// names. Returns a source tag accepted by GetMapper.
func DetectSource(names []string) string {
	return loader.DetectSource(names)
}

// GetMapper returns the mapper registered for a source tag.
func GetMapper(source string) (WeightMapper, error) {
	return loader.GetMapper(source)
}

// SafeTensorsReader reads raw tensors and metadata from a safetensors
// file without interpreting them as a model.
type SafeTensorsReader = loader.SafeTensorsReader

// OpenSafeTensors opens a safetensors file for raw tensor access.
//
// Example:
//
//	r, err := loader.OpenSafeTensors("export.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	for _, name := range r.TensorNames() {
//	    fmt.Println(name)
//	}
func OpenSafeTensors(path string) (*SafeTensorsReader, error) {
	return loader.NewSafeTensorsReader(path)
}
