package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomica-ml/atomica/internal/loader"
	"github.com/atomica-ml/atomica/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import <safetensors-file>",
	Short: "Import a MACE safetensors export into a native model file",
	Long: `Reads a safetensors export carrying an embedded configuration, maps
the foreign parameter names onto the native layout, and writes the
result as an .atmc file.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importOutput string

func init() {
	importCmd.Flags().StringVar(&importOutput, "output", "", "Output path for the imported model (.atmc)")
	_ = importCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	m, report, err := loader.ImportModel(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	logger.Infof("Imported %s export %s: %d tensors mapped, %d skipped",
		report.Source, args[0], report.Mapped, len(report.Skipped))
	for _, name := range report.Skipped {
		logger.Debugf("Skipped non-weight entry %s", name)
	}

	if err := model.Save(m, importOutput); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	logger.Infof("Wrote %s: elements %s, %d weights", importOutput, m.Table, m.NumWeights())

	if results := cfg.resultsLogger(); results != nil {
		record := map[string]any{
			"command":     "import",
			"source":      args[0],
			"output":      importOutput,
			"mapped":      report.Mapped,
			"skipped":     len(report.Skipped),
			"num_weights": m.NumWeights(),
		}
		if err := results.Log(record); err != nil {
			return fmt.Errorf("failed to record results: %w", err)
		}
		logger.Debugf("Appended run record to %s", results.Path())
	}
	return nil
}
