// Package loader imports externally trained MACE models.
//
// The only external format is safetensors, the Hugging Face tensor
// container that MACE exporters write. A file is self-describing: the
// JSON header's __metadata__ block carries the model config, and the
// tensor entries follow the PyTorch module tree naming. ImportModel
// rebuilds the architecture from the config, translates the tensor
// names through a WeightMapper, and widens float32 weights to the
// float64 the training stack works in.
//
// Example:
//
//	m, report, err := loader.ImportModel("mace_foundation.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("imported %d tensors from a %s export", report.Mapped, report.Source)
package loader
