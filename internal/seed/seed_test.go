package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cjaradhye/money-minder/internal/core"
)

type fakeStore struct {
	categories []core.Category
	tags       []core.Tag
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = "cat-" + strings.ToLower(c.Name)
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeStore) EnsureTags(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		found := ""
		for _, t := range f.tags {
			if strings.EqualFold(t.Name, name) {
				found = t.ID
				break
			}
		}
		if found == "" {
			found = "tag-" + strings.ToLower(name)
			f.tags = append(f.tags, core.Tag{ID: found, Name: name})
		}
		ids = append(ids, found)
	}
	return ids, nil
}

const sampleYAML = `categories:
  - name: Food
    icon: "🍔"
    color: "#FF6B6B"
  - name: Transport
    icon: "🚗"
    color: "#4ECDC4"
tags:
  - essentials
  - work
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeSeedFile(t, sampleYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(f.Categories) != 2 || f.Categories[0].Name != "Food" || f.Categories[0].Icon != "🍔" {
		t.Fatalf("unexpected categories: %+v", f.Categories)
	}
	if len(f.Tags) != 2 || f.Tags[0] != "essentials" {
		t.Fatalf("unexpected tags: %+v", f.Tags)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeSeedFile(t, "categories: [unclosed")); err == nil {
		t.Fatal("invalid YAML must error")
	}
}

func TestApplyCreatesMissingRows(t *testing.T) {
	f, err := Load(writeSeedFile(t, sampleYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	store := &fakeStore{}
	if err := Apply(context.Background(), store, f); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(store.categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(store.categories))
	}
	if len(store.tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(store.tags))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	f, err := Load(writeSeedFile(t, sampleYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Pre-existing row with different casing must not duplicate.
	store := &fakeStore{categories: []core.Category{{ID: "cat-1", Name: "food"}}}
	if err := Apply(context.Background(), store, f); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(store.categories) != 2 {
		t.Fatalf("expected food untouched plus Transport, got %+v", store.categories)
	}

	if err := Apply(context.Background(), store, f); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if len(store.categories) != 2 {
		t.Fatalf("apply must be idempotent, got %d categories", len(store.categories))
	}
}
