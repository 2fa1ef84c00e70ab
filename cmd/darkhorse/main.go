// Package main provides the management CLI for the curated dark-horse table.
package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-predictor/internal/config"
	"github.com/yourusername/keiba-predictor/internal/darkhorse"
	"github.com/yourusername/keiba-predictor/internal/models"
)

var (
	configFile string
	dbPath     string
	logger     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Override dark-horse database path")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(searchCmd)
}

var rootCmd = &cobra.Command{
	Use:   "darkhorse",
	Short: "Manage the curated dark-horse table",
	Long:  `Lists, searches and edits the hand-curated longshot annotations used by the evaluator.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)

		if dbPath == "" {
			cfg, err := config.LoadWithDefaults(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			dbPath = cfg.DarkHorse.Path
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all curated entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := newContext()
		defer cancel()

		records, err := darkhorse.All(ctx, dbPath)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No curated entries.")
			return nil
		}
		for _, record := range records {
			fmt.Printf("%-24s %6.1f  %s\n", record.HorseName, record.EvaluationScore, record.EvaluationReason)
		}
		fmt.Printf("\n%d entries\n", len(records))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <horse-name> <score> [reason]",
	Short: "Add or update a curated entry",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil || score < 0 || score > 100 {
			return fmt.Errorf("score must be a number between 0 and 100, got %q", args[1])
		}
		reason := ""
		if len(args) == 3 {
			reason = args[2]
		}

		ctx, cancel := newContext()
		defer cancel()

		record := models.DarkHorseRecord{
			HorseName:        args[0],
			EvaluationScore:  score,
			EvaluationReason: reason,
		}
		if err := darkhorse.Upsert(ctx, dbPath, record); err != nil {
			return err
		}
		fmt.Printf("Saved %s (%.1f)\n", record.HorseName, record.EvaluationScore)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <horse-name>",
	Short: "Look up one horse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := newContext()
		defer cancel()

		store, err := darkhorse.Open(ctx, dbPath, logger)
		if err != nil {
			return err
		}
		record := store.Search(args[0])
		if record == nil {
			fmt.Printf("%s is not curated.\n", args[0])
			return nil
		}
		fmt.Printf("%s\n  score:  %.1f\n  reason: %s\n", record.HorseName, record.EvaluationScore, record.EvaluationReason)
		return nil
	},
}

func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
