// Package seed loads the starter categories and tags from a YAML file and
// writes any missing rows at startup. Seeding is idempotent; existing rows
// are left alone.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cjaradhye/money-minder/internal/core"
)

type File struct {
	Categories []CategorySeed `yaml:"categories"`
	Tags       []string       `yaml:"tags"`
}

type CategorySeed struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

type Store interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	EnsureTags(ctx context.Context, names []string) ([]string, error)
}

// Load parses a seed file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the seed rows that are missing. Category matching is by name,
// case-insensitive, same as the parsers.
func Apply(ctx context.Context, store Store, f *File) error {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[strings.ToLower(c.Name)] = true
	}

	created := 0
	for _, cs := range f.Categories {
		if cs.Name == "" || have[strings.ToLower(cs.Name)] {
			continue
		}
		if _, err := store.CreateCategory(ctx, core.Category{
			Name:  cs.Name,
			Icon:  cs.Icon,
			Color: cs.Color,
		}); err != nil {
			return fmt.Errorf("seed category %q: %w", cs.Name, err)
		}
		created++
	}

	if _, err := store.EnsureTags(ctx, f.Tags); err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}

	slog.InfoContext(ctx, "Seed applied",
		"categories_created", created,
		"tags", len(f.Tags))
	return nil
}
