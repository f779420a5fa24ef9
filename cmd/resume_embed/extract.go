package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-embed/internal/embedding"
	"github.com/jonathan/resume-embed/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the embedded resume record from a container",
	Long:  "Recovers the embedded resume record, verifies its checksum, runs validation, and optionally migrates the record to the latest version.",
	RunE:  runExtract,
}

var (
	extractContainerFile string
	extractOutputFile    string
	extractMigrate       bool
	extractMode          string
)

func init() {
	extractCmd.Flags().StringVarP(&extractContainerFile, "container", "c", "", "Path to container file (required)")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Path to output record JSON file (default: stdout)")
	extractCmd.Flags().BoolVar(&extractMigrate, "migrate", false, "Migrate the record to the latest version")
	extractCmd.Flags().StringVar(&extractMode, "mode", "", "Validation mode: strict, compat, or permissive")

	if err := extractCmd.MarkFlagRequired("container"); err != nil {
		panic(fmt.Sprintf("failed to mark container flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	embedder, cfg, err := newEmbedder()
	if err != nil {
		return err
	}

	c, err := loadContainer(extractContainerFile, cfg, false)
	if err != nil {
		return err
	}

	result, err := embedder.Extract(cmd.Context(), c, embedding.ExtractOptions{
		Mode:            extractMode,
		MigrateToLatest: extractMigrate,
	})
	if err != nil {
		if errors.Is(err, embedding.ErrArtifactNotFound) {
			return fmt.Errorf("container %s carries no embedded resume record", extractContainerFile)
		}
		return fmt.Errorf("failed to extract record: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal extracted record: %w", err)
	}

	if extractOutputFile != "" {
		if err := os.WriteFile(extractOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
	}

	if verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintExtractResult(result)
		printer.PrintValidationResult(result.Validation)
	}
	return nil
}
