package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-embed/internal/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a resume record to another schema version",
	Long:  "Finds the shortest chain of registered migration steps from the record's declared version to the target version and applies it.",
	RunE:  runMigrate,
}

var (
	migrateRecordFile string
	migrateOutputFile string
	migrateTarget     string
)

func init() {
	migrateCmd.Flags().StringVarP(&migrateRecordFile, "record", "r", "", "Path to record JSON file (required)")
	migrateCmd.Flags().StringVarP(&migrateOutputFile, "out", "o", "", "Path to output record JSON file (default: stdout)")
	migrateCmd.Flags().StringVarP(&migrateTarget, "target", "t", "", "Target version (default: current)")

	if err := migrateCmd.MarkFlagRequired("record"); err != nil {
		panic(fmt.Sprintf("failed to mark record flag as required: %v", err))
	}

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	rec, err := loadRecord(migrateRecordFile)
	if err != nil {
		return err
	}

	result := migration.Default().Migrate(rec, migrateTarget)
	if !result.OK {
		return fmt.Errorf("migration failed: %w", result.Err)
	}

	jsonBytes, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal migrated record: %w", err)
	}

	if migrateOutputFile != "" {
		if err := os.WriteFile(migrateOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
	}

	if verbose {
		for _, step := range result.Steps {
			_, _ = fmt.Fprintf(os.Stdout, "applied %s -> %s: %s\n", step.From, step.To, step.Description)
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Migrated %s -> %s in %d step(s)\n", result.FromVersion, result.ToVersion, len(result.Steps))
	return nil
}
