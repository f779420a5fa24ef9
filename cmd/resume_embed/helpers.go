package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-embed/internal/config"
	"github.com/jonathan/resume-embed/internal/container"
	"github.com/jonathan/resume-embed/internal/embedding"
	"github.com/jonathan/resume-embed/internal/types"
)

// loadRecord reads a record JSON file.
func loadRecord(path string) (types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}
	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record JSON: %w", err)
	}
	return rec, nil
}

// loadContainer reads a container file, or returns an empty container
// when allowMissing is set and the file does not exist.
func loadContainer(path string, cfg *config.Config, allowMissing bool) (*container.Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return container.NewMemory(), nil
		}
		return nil, fmt.Errorf("failed to open container %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	c, err := container.ReadMemory(f, cfg.MaxContainerBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load container %s: %w", path, err)
	}
	return c, nil
}

// saveContainer writes a container file.
func saveContainer(path string, c *container.Memory) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := c.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write container %s: %w", path, err)
	}
	return nil
}

// newEmbedder builds an embedder from the environment configuration.
func newEmbedder() (*embedding.Embedder, *config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	return embedding.New(nil, nil, cfg), cfg, nil
}
