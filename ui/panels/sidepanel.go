// Package panels provides UI panels for the application.
package panels

import (
	"heatlens/internal/app"
	"heatlens/internal/view"
	"heatlens/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	canvas    *canvas.HeatmapCanvas
	container *container.AppTabs

	datasetPanel    *DatasetPanel
	annotationPanel *AnnotationPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, cvs *canvas.HeatmapCanvas) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	sp.datasetPanel = NewDatasetPanel(state)
	sp.annotationPanel = NewAnnotationPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Dataset", sp.datasetPanel.Container()),
		container.NewTabItem("Annotations", sp.annotationPanel.Container()),
	)

	// A resolved click switches to the annotation tab with the cell's
	// identity filled in.
	cvs.OnSelect(func(sel view.Selection) {
		sp.annotationPanel.ShowSelection(sel)
		sp.container.Select(sp.container.Items[1])
	})

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.datasetPanel.SetWindow(w)
}
