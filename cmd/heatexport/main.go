// Command heatexport renders an abundance table to an annotated PNG
// without opening the viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"heatlens/internal/dataset"
	"heatlens/internal/render"
	"heatlens/pkg/colormap"
)

func main() {
	tablePath := flag.String("table", "", "Path to abundance table (TSV, optionally gzipped)")
	mappingPath := flag.String("map", "", "Sample mapping file")
	outPath := flag.String("out", "heatmap.png", "Output PNG path")
	cmapName := flag.String("colormap", "viridis", "Colormap name")
	cellSize := flag.Int("cell", 6, "Pixels per matrix cell")
	groupField := flag.String("group", "", "Sample metadata field for group separators")
	sortField := flag.String("sort", "", "Sample metadata field to sort by")
	normalize := flag.Float64("normalize", 10000, "Reads per sample after normalization (0 disables)")
	logFloor := flag.Float64("floor", 1, "Log2 transform floor")
	cluster := flag.Bool("cluster", false, "Cluster features by correlation")
	title := flag.String("title", "", "Plot title")
	flag.Parse()

	if *tablePath == "" {
		fmt.Println("Usage: heatexport -table <path> [-map <path>] [-out heatmap.png]")
		os.Exit(1)
	}

	cmap, ok := colormap.ByName(*cmapName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown colormap %q (have: %v)\n", *cmapName, colormap.Names())
		os.Exit(1)
	}

	tbl, err := dataset.ReadTable(*tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read table: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d features x %d samples\n", tbl.NFeatures(), tbl.NSamples())

	if *mappingPath != "" {
		if err := tbl.AttachMetadata(*mappingPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read mapping file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Attached metadata fields: %v\n", tbl.MetadataFields)
	}

	if *normalize > 0 {
		if err := tbl.Normalize(*normalize); err != nil {
			fmt.Fprintf(os.Stderr, "Normalize: %v\n", err)
			os.Exit(1)
		}
	}
	if err := tbl.SortFeaturesByAbundance(nil, false); err != nil {
		fmt.Fprintf(os.Stderr, "Sort features: %v\n", err)
		os.Exit(1)
	}
	if err := tbl.Log2(*logFloor); err != nil {
		fmt.Fprintf(os.Stderr, "Log transform: %v\n", err)
		os.Exit(1)
	}
	if *sortField != "" {
		if err := tbl.SortSamplesByField(*sortField); err != nil {
			fmt.Fprintf(os.Stderr, "Sort samples: %v\n", err)
			os.Exit(1)
		}
	}
	if *cluster {
		if err := tbl.ClusterFeatures(); err != nil {
			fmt.Fprintf(os.Stderr, "Cluster: %v\n", err)
			os.Exit(1)
		}
	}

	err = render.Export(tbl, *outPath, render.ExportOptions{
		Options: render.Options{
			Colormap:         cmap,
			RobustPercentile: 1,
		},
		Title:      *title,
		CellSize:   *cellSize,
		GroupField: *groupField,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
