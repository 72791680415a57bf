package panels

import (
	"fmt"

	"heatlens/internal/app"
	"heatlens/pkg/colormap"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// DatasetPanel shows the loaded table's shape and preparation state and
// hosts the reorder and colormap controls.
type DatasetPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	pathLabel *widget.Label
	dimsLabel *widget.Label
	normLabel *widget.Label

	colormapSelect *widget.Select
	sortSelect     *widget.Select
	clusterButton  *widget.Button
}

// NewDatasetPanel creates a new dataset panel.
func NewDatasetPanel(state *app.State) *DatasetPanel {
	dp := &DatasetPanel{
		state: state,
	}

	dp.pathLabel = widget.NewLabel("No dataset loaded")
	dp.pathLabel.Wrapping = fyne.TextWrapWord
	dp.dimsLabel = widget.NewLabel("")
	dp.normLabel = widget.NewLabel("")

	dp.colormapSelect = widget.NewSelect(colormap.Names(), func(name string) {
		if name == state.ColormapName {
			return
		}
		if err := state.SetColormap(name); err != nil {
			dp.showError(err)
		}
	})
	dp.colormapSelect.SetSelected(state.ColormapName)

	dp.sortSelect = widget.NewSelect(nil, func(field string) {
		if field == "" {
			return
		}
		if err := state.SortSamplesBy(field); err != nil {
			dp.showError(err)
			return
		}
		state.Status("samples sorted by %s", field)
	})
	dp.sortSelect.PlaceHolder = "(load a mapping file)"

	dp.clusterButton = widget.NewButton("Cluster Features", func() {
		if err := state.ClusterFeatures(); err != nil {
			dp.showError(err)
			return
		}
		state.Status("features clustered by correlation")
	})

	dp.container = container.NewVBox(
		widget.NewCard("Dataset", "", container.NewVBox(
			dp.pathLabel,
			dp.dimsLabel,
			dp.normLabel,
		)),
		widget.NewCard("Order", "", container.NewVBox(
			widget.NewLabel("Sort samples by field:"),
			dp.sortSelect,
			dp.clusterButton,
		)),
		widget.NewCard("Colormap", "", dp.colormapSelect),
	)

	state.On(app.EventDatasetLoaded, func(interface{}) {
		dp.refresh()
	})
	state.On(app.EventBitmapChanged, func(interface{}) {
		dp.refresh()
	})

	return dp
}

// Container returns the panel container.
func (dp *DatasetPanel) Container() fyne.CanvasObject {
	return dp.container
}

// SetWindow sets the parent window for error dialogs.
func (dp *DatasetPanel) SetWindow(w fyne.Window) {
	dp.window = w
}

func (dp *DatasetPanel) showError(err error) {
	if dp.window != nil {
		dialog.ShowError(err, dp.window)
		return
	}
	dp.state.Status("%v", err)
}

func (dp *DatasetPanel) refresh() {
	tbl := dp.state.Table
	if tbl == nil {
		dp.pathLabel.SetText("No dataset loaded")
		dp.dimsLabel.SetText("")
		dp.normLabel.SetText("")
		return
	}
	dp.pathLabel.SetText(dp.state.DatasetPath)
	dp.dimsLabel.SetText(fmt.Sprintf("%d features x %d samples", tbl.NFeatures(), tbl.NSamples()))
	if tbl.NormalizedTo > 0 {
		dp.normLabel.SetText(fmt.Sprintf("Normalized to %.0f reads/sample, log2 scale", tbl.NormalizedTo))
	} else {
		dp.normLabel.SetText("Raw counts")
	}
	if fields := tbl.MetadataFields; len(fields) > 0 {
		dp.sortSelect.Options = fields
		dp.sortSelect.Refresh()
	}
}
