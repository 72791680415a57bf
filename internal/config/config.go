// Package config handles configuration loading for the heatmap viewer.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration.
type Config struct {
	View       ViewConfig       `yaml:"view"`
	Render     RenderConfig     `yaml:"render"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Annotation AnnotationConfig `yaml:"annotation"`
}

// ViewConfig contains zoom/pan settings.
type ViewConfig struct {
	MaxZoom      float64 `yaml:"max_zoom"`      // multiple of the baseline scale
	LeftGutter   float64 `yaml:"left_gutter"`   // feature label gutter, px
	BottomGutter float64 `yaml:"bottom_gutter"` // sample label gutter, px
}

// RenderConfig contains bitmap rendering settings.
type RenderConfig struct {
	Colormap         string  `yaml:"colormap"`
	RobustPercentile float64 `yaml:"robust_percentile"`
	ExportCellSize   int     `yaml:"export_cell_size"`
}

// DatasetConfig contains data preparation settings.
type DatasetConfig struct {
	NormalizeTotal float64 `yaml:"normalize_total"`
	LogFloor       float64 `yaml:"log_floor"`
}

// AnnotationConfig contains annotation service settings.
type AnnotationConfig struct {
	BaseURL        string `yaml:"base_url"`
	CacheSize      int    `yaml:"cache_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; missing fields are filled in.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			MaxZoom:      40,
			LeftGutter:   120,
			BottomGutter: 40,
		},
		Render: RenderConfig{
			Colormap:         "viridis",
			RobustPercentile: 1,
			ExportCellSize:   6,
		},
		Dataset: DatasetConfig{
			NormalizeTotal: 10000,
			LogFloor:       1,
		},
		Annotation: AnnotationConfig{
			BaseURL:        "http://localhost:7322",
			CacheSize:      256,
			TimeoutSeconds: 10,
		},
	}
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.View.MaxZoom <= 1 {
		cfg.View.MaxZoom = def.View.MaxZoom
	}
	if cfg.View.LeftGutter <= 0 {
		cfg.View.LeftGutter = def.View.LeftGutter
	}
	if cfg.View.BottomGutter <= 0 {
		cfg.View.BottomGutter = def.View.BottomGutter
	}
	if cfg.Render.Colormap == "" {
		cfg.Render.Colormap = def.Render.Colormap
	}
	if cfg.Render.ExportCellSize <= 0 {
		cfg.Render.ExportCellSize = def.Render.ExportCellSize
	}
	if cfg.Dataset.NormalizeTotal <= 0 {
		cfg.Dataset.NormalizeTotal = def.Dataset.NormalizeTotal
	}
	if cfg.Dataset.LogFloor <= 0 {
		cfg.Dataset.LogFloor = def.Dataset.LogFloor
	}
	if cfg.Annotation.BaseURL == "" {
		cfg.Annotation.BaseURL = def.Annotation.BaseURL
	}
	if cfg.Annotation.CacheSize <= 0 {
		cfg.Annotation.CacheSize = def.Annotation.CacheSize
	}
	if cfg.Annotation.TimeoutSeconds <= 0 {
		cfg.Annotation.TimeoutSeconds = def.Annotation.TimeoutSeconds
	}
}
