// Package main provides the winnings simulation CLI.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fourd-analyzer/internal/config"
	applogger "github.com/yourusername/fourd-analyzer/internal/logger"
	"github.com/yourusername/fourd-analyzer/internal/simulate"
)

var (
	configFile  string
	numbersFile string
	filePattern string

	logger *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&numbersFile, "file", "f", "", "Filtered numbers CSV, defaults to the latest in the output directory")
	rootCmd.PersistentFlags().StringVarP(&filePattern, "pattern", "p", "filtered_first_digit_*.csv", "Glob used to find the latest CSV")
}

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate winnings over a filtered number list",
	Long:  `Price the cost of buying every number in a filtered selection and enumerate prize scenarios.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(loaded); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
		logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var top3Cmd = &cobra.Command{
	Use:   "top3",
	Short: "Enumerate the eight top-3 prize scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenarios(simulate.TopThreeScenarios)
	},
}

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Enumerate all 968 prize scenarios including starters and consolations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenarios(simulate.CompleteScenarios)
	},
}

func main() {
	rootCmd.AddCommand(top3Cmd, fullCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runScenarios(enumerate func([]string) []simulate.Scenario) error {
	path := numbersFile
	if path == "" {
		latest, err := simulate.FindLatestCSV(cfg.Output.Dir, filePattern)
		if err != nil {
			return fmt.Errorf("no numbers file given and none found: %w", err)
		}
		path = latest
	}

	numbers, err := simulate.LoadNumbersCSV(path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file":    path,
		"numbers": len(numbers),
	}).Info("Loaded filtered numbers")

	report, err := simulate.FormatReport(enumerate(numbers))
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, report)
	return nil
}
