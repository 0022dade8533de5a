package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomica-ml/atomica/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report header facts and per-tensor statistics of an .atmc file",
	Long: `Prints an indented JSON report: file header, integrity, and for every
tensor the min/max/mean/absmax over its finite values plus NaN and Inf
counts. Tensors holding non-finite values are listed in the summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var inspectVerify bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectVerify, "verify", false, "Verify the data checksum before reporting")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	report, err := inspect.File(args[0], inspect.Options{
		Verify:   inspectVerify,
		Parallel: cfg.parallelConfig(),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
