// Package main provides the phenoage command line interface: single-subject
// calculations, intervention ranking and simulation, batch file processing
// and an interactive assessment mode.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/config"
	"github.com/phenoage-mcp-server/internal/domain"
	"github.com/phenoage-mcp-server/internal/service"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Shared runtime built by the root PersistentPreRunE
	configMgr *config.Manager
	logger    *logrus.Logger
	toolkit   *service.Toolkit
	parser    *service.InputParserService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "phenoage",
	Short: "PhenoAge Toolkit - biological age calculator and intervention simulator",
	Long: `PhenoAge Toolkit calculates phenotypic (biological) age from ten standard
blood biomarkers, ranks lifestyle, diet and supplement interventions by their
projected impact, and simulates combined intervention effects.

Single subjects are scored from command line flags or a JSON file; whole
cohorts are processed from TSV/CSV/Excel/JSON files with the process command.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: search ., ./config, /etc/phenoage)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (json|text)")

	// Add commands to root
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(percentileCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(createExampleCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initRuntime loads the configuration, applies flag overrides and builds the
// logger and toolkit shared by every command.
func initRuntime(cmd *cobra.Command, args []string) error {
	mgr, err := config.NewManagerWithFile(cfgFile)
	if err != nil {
		return err
	}

	cfg := mgr.GetConfig()
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if err := mgr.Validate(); err != nil {
		return err
	}

	configMgr = mgr
	logger = newLogger(&cfg.Logging)
	parser = service.NewInputParserService(logger)

	toolkit, err = buildToolkit(cfg, logger)
	return err
}

// newLogger builds the logger described by the logging configuration.
func newLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if strings.ToLower(cfg.Format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	// Command output owns stdout; logs default to stderr.
	if strings.ToLower(cfg.Output) == "stdout" {
		logger.SetOutput(os.Stdout)
	}
	return logger
}

// buildToolkit assembles the service stack, wrapping the scorer in an LRU
// cache when the configuration enables it.
func buildToolkit(cfg *domain.Config, logger *logrus.Logger) (*service.Toolkit, error) {
	var scorer domain.AgeScorer = service.NewPhenoAgeScorer(logger)
	if cfg.Cache.Enabled {
		cached, err := service.NewCachedScorer(scorer, cfg.Cache.MaxItems, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build score cache: %w", err)
		}
		scorer = cached
	}

	catalog := service.NewInterventionCatalog(logger)
	return service.NewToolkit(
		scorer,
		service.NewPhenoAgePercentile(),
		catalog,
		service.NewInterventionRanker(scorer, catalog, logger),
		service.NewCombinedSimulator(scorer, catalog, logger),
		service.NewChangeReporter(),
		logger,
	), nil
}
