// Package main implements the resume_embed CLI tool for embedding,
// extracting, validating, and migrating structured resume records.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_embed",
	Short: "Embed and recover structured resume records in document containers",
	Long:  "resume_embed stores a versioned resume record inside a document container with checksummed, optionally compressed payloads, and validates and migrates records across schema versions.",
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
