package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atomica-ml/atomica/internal/elements"
	"github.com/atomica-ml/atomica/internal/finetune"
	"github.com/atomica-ml/atomica/internal/model"
)

var transplantCmd = &cobra.Command{
	Use:   "transplant",
	Short: "Transplant foundation weights onto a new element set",
	Long: `Builds a fresh model over the given atomic numbers and fills it with
the per-species blocks of a foundation model, ready for fine-tuning.
Every target element must be covered by the foundation.`,
	RunE: runTransplant,
}

var (
	transplantFoundation string
	transplantOutput     string
	transplantElements   string
	transplantEnergies   string
	transplantReadouts   bool
	transplantShift      bool
	transplantScale      bool
	transplantMaxL       int
)

func init() {
	transplantCmd.Flags().StringVar(&transplantFoundation, "foundation", "", "Foundation model file (.atmc)")
	transplantCmd.Flags().StringVar(&transplantOutput, "output", "", "Output path for the target model")
	transplantCmd.Flags().StringVar(&transplantElements, "elements", "", "Target atomic numbers, comma-separated (e.g. 1,6,8)")
	transplantCmd.Flags().StringVar(&transplantEnergies, "energies", "", "Target atomic energies, comma-separated (default: taken from the foundation)")
	transplantCmd.Flags().BoolVar(&transplantReadouts, "load-readouts", false, "Copy readout head weights")
	transplantCmd.Flags().BoolVar(&transplantShift, "use-shift", false, "Copy the energy shift scalar")
	transplantCmd.Flags().BoolVar(&transplantScale, "use-scale", true, "Copy the energy scale scalar")
	transplantCmd.Flags().IntVar(&transplantMaxL, "max-l", finetune.DefaultMaxL, "Angular resolution of the transplanted skip weights")
	_ = transplantCmd.MarkFlagRequired("foundation")
	_ = transplantCmd.MarkFlagRequired("output")
	_ = transplantCmd.MarkFlagRequired("elements")
	rootCmd.AddCommand(transplantCmd)
}

func runTransplant(_ *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	zs, err := parseIntList(transplantElements)
	if err != nil {
		return fmt.Errorf("invalid --elements: %w", err)
	}

	foundation, err := model.Load(transplantFoundation)
	if err != nil {
		return fmt.Errorf("failed to load foundation model: %w", err)
	}
	logger.Infof("Loaded foundation %s: elements %s, %d weights",
		transplantFoundation, foundation.Table, foundation.NumWeights())

	energies, err := targetEnergies(foundation, zs)
	if err != nil {
		return err
	}

	targetCfg := model.ExtractConfig(foundation)
	targetCfg.AtomicNumbers = zs
	targetCfg.AtomicEnergies = energies
	target, err := model.New(targetCfg)
	if err != nil {
		return fmt.Errorf("failed to build target model: %w", err)
	}

	opts := finetune.Options{
		LoadReadouts: transplantReadouts,
		UseShift:     transplantShift,
		UseScale:     transplantScale,
		MaxL:         transplantMaxL,
	}
	if _, err := finetune.LoadFoundations(target, foundation, target.Table, opts); err != nil {
		return fmt.Errorf("transplant failed: %w", err)
	}

	if err := model.Save(target, transplantOutput); err != nil {
		return fmt.Errorf("failed to save target model: %w", err)
	}
	logger.Infof("Wrote %s: elements %s, %d weights", transplantOutput, target.Table, target.NumWeights())

	if results := cfg.resultsLogger(); results != nil {
		record := map[string]any{
			"command":       "transplant",
			"foundation":    transplantFoundation,
			"output":        transplantOutput,
			"elements":      zs,
			"num_weights":   target.NumWeights(),
			"load_readouts": transplantReadouts,
		}
		if err := results.Log(record); err != nil {
			return fmt.Errorf("failed to record results: %w", err)
		}
		logger.Debugf("Appended run record to %s", results.Path())
	}
	return nil
}

// targetEnergies resolves the isolated-atom energies of the target
// elements, either from the --energies override or from the foundation's
// own table.
func targetEnergies(foundation *model.Model, zs []int) ([]float64, error) {
	if transplantEnergies != "" {
		energies, err := parseFloatList(transplantEnergies)
		if err != nil {
			return nil, fmt.Errorf("invalid --energies: %w", err)
		}
		if len(energies) != len(zs) {
			return nil, fmt.Errorf("got %d energies for %d elements", len(energies), len(zs))
		}
		return energies, nil
	}

	indices, err := elements.IndicesFor(zs, foundation.Table)
	if err != nil {
		return nil, fmt.Errorf("target element missing from foundation table: %w", err)
	}
	source := foundation.AtomicEnergies.Energies.Float64Values()
	energies := make([]float64, len(indices))
	for i, idx := range indices {
		energies[i] = source[idx]
	}
	return energies, nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad value %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
