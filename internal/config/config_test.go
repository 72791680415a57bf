package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if *cfg != *def {
		t.Fatalf("got %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "render:\n  colormap: magma\nview:\n  max_zoom: 80\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Colormap != "magma" {
		t.Fatalf("colormap = %q", cfg.Render.Colormap)
	}
	if cfg.View.MaxZoom != 80 {
		t.Fatalf("max_zoom = %v", cfg.View.MaxZoom)
	}
	// unspecified fields take defaults
	if cfg.Dataset.NormalizeTotal != 10000 {
		t.Fatalf("normalize_total = %v", cfg.Dataset.NormalizeTotal)
	}
	if cfg.Annotation.CacheSize != 256 {
		t.Fatalf("cache_size = %v", cfg.Annotation.CacheSize)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("render: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("invalid yaml accepted")
	}
}
