package seedfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndMap(t *testing.T) {
	path := writeSeed(t, `
categories:
  - name: Writing Tools
    description: Grammar and composition helpers
    color: "#4f46e5"
    icon: pen
  - name: Assessment
    slug: assessment-grading
`)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cats, err := NewMapper().MapCategories(config)
	if err != nil {
		t.Fatalf("MapCategories() error = %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("mapped %d categories, want 2", len(cats))
	}

	if cats[0].ID != "writing-tools" || cats[0].Slug != "writing-tools" {
		t.Errorf("missing slug should be derived from the name, got %q", cats[0].Slug)
	}
	if cats[0].Color != "#4f46e5" || cats[0].Icon != "pen" {
		t.Errorf("styling fields not carried over: %+v", cats[0])
	}
	if cats[1].ID != "assessment-grading" {
		t.Errorf("explicit slug must win, got %q", cats[1].ID)
	}
}

func TestMapRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing name",
			yaml: "categories:\n  - slug: anonymous\n",
		},
		{
			name: "duplicate slug",
			yaml: "categories:\n  - name: STEM\n  - name: stem\n",
		},
		{
			name: "empty list",
			yaml: "categories: []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := NewLoader(writeSeed(t, tt.yaml)).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if _, err := NewMapper().MapCategories(config); err == nil {
				t.Errorf("MapCategories() should reject %s", tt.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Errorf("Load() should fail for a missing file")
	}
}
