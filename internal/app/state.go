// Package app provides application state, events, theming, and
// development lifecycle helpers.
package app

import (
	"fmt"
	"image"
	"sync"

	"heatlens/internal/config"
	"heatlens/internal/dataset"
	"heatlens/internal/render"
	"heatlens/internal/view"
	"heatlens/pkg/colormap"
)

// State holds the loaded dataset, the synthesized bitmap, and the axis
// domains the viewer renders. UI components subscribe to change events
// rather than polling.
type State struct {
	mu sync.RWMutex

	Config *config.Config

	// Dataset
	DatasetPath  string
	MetadataPath string
	Table        *dataset.Table

	// Derived render inputs
	Bitmap        *image.RGBA
	SampleDomain  *view.SampleDomain
	FeatureDomain *view.FeatureDomain

	// Current view options
	ColormapName string
	GroupField   string
	Title        string

	listeners map[EventType][]EventListener
}

// EventType identifies application events.
type EventType int

const (
	EventDatasetLoaded EventType = iota
	EventBitmapChanged
	EventSelectionChanged
	EventStatusMessage
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates application state with the given configuration.
func NewState(cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.Default()
	}
	return &State{
		Config:        cfg,
		ColormapName:  cfg.Render.Colormap,
		SampleDomain:  &view.SampleDomain{},
		FeatureDomain: &view.FeatureDomain{},
		Bitmap:        image.NewRGBA(image.Rect(0, 0, 0, 0)),
		listeners:     make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadDataset reads an abundance table (and optional sample mapping
// file), applies the default preparation (normalize, log transform,
// abundance sort), and rebuilds the bitmap and domains.
func (s *State) LoadDataset(tablePath, metadataPath string) error {
	tbl, err := dataset.ReadTable(tablePath)
	if err != nil {
		return err
	}
	if metadataPath != "" {
		if err := tbl.AttachMetadata(metadataPath); err != nil {
			return fmt.Errorf("load mapping file: %w", err)
		}
	}

	if err := tbl.Normalize(s.Config.Dataset.NormalizeTotal); err != nil {
		return err
	}
	if err := tbl.SortFeaturesByAbundance(nil, false); err != nil {
		return err
	}
	if err := tbl.Log2(s.Config.Dataset.LogFloor); err != nil {
		return err
	}

	s.mu.Lock()
	s.DatasetPath = tablePath
	s.MetadataPath = metadataPath
	s.Table = tbl
	s.GroupField = ""
	s.Title = tablePath
	s.mu.Unlock()

	s.rebuild()
	s.Emit(EventDatasetLoaded, tablePath)
	return nil
}

// SortSamplesBy reorders samples by a metadata field and recomputes
// group separators and categorical ticks.
func (s *State) SortSamplesBy(field string) error {
	s.mu.RLock()
	tbl := s.Table
	s.mu.RUnlock()
	if tbl == nil {
		return fmt.Errorf("no dataset loaded")
	}
	if err := tbl.SortSamplesByField(field); err != nil {
		return err
	}
	s.mu.Lock()
	s.GroupField = field
	s.mu.Unlock()
	s.rebuild()
	return nil
}

// ClusterFeatures reorders features by correlation linkage.
func (s *State) ClusterFeatures() error {
	s.mu.RLock()
	tbl := s.Table
	s.mu.RUnlock()
	if tbl == nil {
		return fmt.Errorf("no dataset loaded")
	}
	if err := tbl.ClusterFeatures(); err != nil {
		return err
	}
	s.rebuild()
	return nil
}

// SetColormap switches the colormap and re-synthesizes the bitmap.
func (s *State) SetColormap(name string) error {
	if _, ok := colormap.ByName(name); !ok {
		return fmt.Errorf("unknown colormap %q", name)
	}
	s.mu.Lock()
	s.ColormapName = name
	s.mu.Unlock()
	s.rebuild()
	return nil
}

// rebuild re-synthesizes the bitmap and domains from the current table
// and emits EventBitmapChanged.
func (s *State) rebuild() {
	s.mu.Lock()
	tbl := s.Table
	if tbl == nil {
		s.mu.Unlock()
		return
	}
	cmap, _ := colormap.ByName(s.ColormapName)
	s.Bitmap = render.Bitmap(tbl, render.Options{
		Colormap:         cmap,
		RobustPercentile: s.Config.Render.RobustPercentile,
	})

	sd := &view.SampleDomain{IDs: tbl.SampleIDs}
	if s.GroupField != "" {
		groups := tbl.Groups(s.GroupField)
		sd.Separators = dataset.Separators(groups)
		for _, g := range groups {
			sd.Ticks = append(sd.Ticks, view.Tick{Position: g.Center(), Label: g.Label})
		}
	}
	s.SampleDomain = sd
	s.FeatureDomain = &view.FeatureDomain{IDs: tbl.FeatureIDs, Taxonomies: tbl.Taxonomies}
	s.mu.Unlock()

	s.Emit(EventBitmapChanged, nil)
}

// Snapshot returns the current render inputs as one consistent set.
func (s *State) Snapshot() (*image.RGBA, *view.SampleDomain, *view.FeatureDomain) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Bitmap, s.SampleDomain, s.FeatureDomain
}

// Status emits a status bar message.
func (s *State) Status(format string, args ...interface{}) {
	s.Emit(EventStatusMessage, fmt.Sprintf(format, args...))
}
