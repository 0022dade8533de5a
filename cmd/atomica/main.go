// Package main provides the atomica CLI: transplanting foundation weights
// onto new element sets, importing safetensors exports, and inspecting
// .atmc model files.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atomica-ml/atomica/internal/logging"
	"github.com/atomica-ml/atomica/internal/metrics"
	"github.com/atomica-ml/atomica/internal/parallel"
	"github.com/atomica-ml/atomica/internal/serialization"
)

var rootCmd = &cobra.Command{
	Use:   "atomica",
	Short: "Fine-tuning toolkit for MACE interatomic potentials",
	Long: `atomica manipulates MACE-family model checkpoints: transplanting
foundation weights onto new element sets, importing safetensors exports
from the PyTorch world, and inspecting native .atmc files.`,
	SilenceUsage: true,
}

var configPath string

// runConfig is the run-level configuration shared by all subcommands.
// Values resolve in the usual order: flags over environment over the
// optional YAML file over defaults.
type runConfig struct {
	Name       string `mapstructure:"name"`
	Seed       int    `mapstructure:"seed"`
	LogLevel   string `mapstructure:"log_level"`
	LogDir     string `mapstructure:"log_dir"`
	ResultsDir string `mapstructure:"results_dir"`
	Workers    int    `mapstructure:"workers"`
}

func setDefaults() {
	viper.SetDefault("name", "atomica")
	viper.SetDefault("seed", 123)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_dir", "")
	viper.SetDefault("results_dir", "")
	viper.SetDefault("workers", 0)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Run configuration file (YAML)")
	rootCmd.PersistentFlags().String("name", "atomica", "Run name, used to tag log files")
	rootCmd.PersistentFlags().Int("seed", 123, "Run seed, used to tag log files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory for per-run log files (console only when empty)")
	rootCmd.PersistentFlags().String("results-dir", "", "Directory for per-run result records (disabled when empty)")
	rootCmd.PersistentFlags().Int("workers", 0, "Worker count for parallel sweeps (0 = all CPUs)")

	_ = viper.BindPFlag("name", rootCmd.PersistentFlags().Lookup("name"))
	_ = viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	_ = viper.BindPFlag("results_dir", rootCmd.PersistentFlags().Lookup("results-dir"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))

	viper.SetEnvPrefix("ATOMICA")
	viper.AutomaticEnv()

	rootCmd.AddCommand(versionCmd)
}

func loadRunConfig() (*runConfig, error) {
	setDefaults()
	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read run config: %w", err)
		}
	}

	cfg := &runConfig{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run config: %w", err)
	}
	return cfg, nil
}

func (c *runConfig) parallelConfig() parallel.Config {
	pcfg := parallel.DefaultConfig()
	if c.Workers > 0 {
		pcfg.NumWorkers = c.Workers
	}
	return pcfg
}

func newLogger(cfg *runConfig) (*logrus.Logger, error) {
	return logging.Setup(logging.Config{
		Level:     cfg.LogLevel,
		Tag:       logging.Tag(cfg.Name, cfg.Seed),
		Directory: cfg.LogDir,
	})
}

// resultsLogger returns a metrics logger for the run, or nil when no
// results directory is configured.
func (c *runConfig) resultsLogger() *metrics.Logger {
	if c.ResultsDir == "" {
		return nil
	}
	return metrics.NewLogger(c.ResultsDir, logging.Tag(c.Name, c.Seed))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the toolkit version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("atomica %s (file format v%d)\n", serialization.ToolkitVersion, serialization.FormatVersion)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
