package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atomica-ml/atomica/internal/serialization"
)

var configCmd = &cobra.Command{
	Use:   "config <file>",
	Short: "Print the model configuration embedded in an .atmc file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowConfig,
}

var configYAML bool

func init() {
	configCmd.Flags().BoolVar(&configYAML, "yaml", false, "Emit YAML instead of JSON")
	rootCmd.AddCommand(configCmd)
}

func runShowConfig(_ *cobra.Command, args []string) error {
	r, err := serialization.NewMmapReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	raw := r.Header().ModelConfig
	if len(raw) == 0 {
		return fmt.Errorf("file %s carries no model config", args[0])
	}

	if configYAML {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to parse model config: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to render YAML: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format model config: %w", err)
	}
	buf.WriteByte('\n')
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}
