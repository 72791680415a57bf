package panels

import (
	"context"
	"strings"
	"time"

	"heatlens/internal/annotation"
	"heatlens/internal/app"
	"heatlens/internal/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// AnnotationPanel shows the identity of the selected cell and the
// annotations fetched for its feature. Lookups run in the background;
// a newer selection silently supersedes an in-flight one.
type AnnotationPanel struct {
	state     *app.State
	client    *annotation.Client
	container fyne.CanvasObject

	featureLabel  *widget.Label
	taxonomyLabel *widget.Label
	sampleLabel   *widget.Label
	resultLabel   *widget.Label
	permalink     *widget.Hyperlink
}

// NewAnnotationPanel creates a new annotation panel.
func NewAnnotationPanel(state *app.State) *AnnotationPanel {
	ap := &AnnotationPanel{
		state: state,
	}

	cfg := state.Config.Annotation
	client, err := annotation.NewClient(cfg.BaseURL, cfg.CacheSize,
		time.Duration(cfg.TimeoutSeconds)*time.Second)
	if err == nil {
		ap.client = client
	}

	ap.featureLabel = widget.NewLabel("Click a cell to select it")
	ap.featureLabel.Wrapping = fyne.TextWrapBreak
	ap.taxonomyLabel = widget.NewLabel("")
	ap.taxonomyLabel.Wrapping = fyne.TextWrapWord
	ap.sampleLabel = widget.NewLabel("")
	ap.resultLabel = widget.NewLabel("")
	ap.resultLabel.Wrapping = fyne.TextWrapWord
	ap.permalink = widget.NewHyperlink("View in database", nil)
	ap.permalink.Hide()

	ap.container = container.NewVBox(
		widget.NewCard("Selection", "", container.NewVBox(
			ap.featureLabel,
			ap.taxonomyLabel,
			ap.sampleLabel,
		)),
		widget.NewCard("Annotations", "", container.NewVBox(
			ap.resultLabel,
			ap.permalink,
		)),
	)

	state.On(app.EventDatasetLoaded, func(interface{}) {
		ap.clear()
	})

	return ap
}

// Container returns the panel container.
func (ap *AnnotationPanel) Container() fyne.CanvasObject {
	return ap.container
}

// ShowSelection fills in the selected cell's identity and starts an
// annotation lookup for its feature.
func (ap *AnnotationPanel) ShowSelection(sel view.Selection) {
	ap.featureLabel.SetText("Feature: " + sel.FeatureID)
	ap.taxonomyLabel.SetText(view.FormatTaxonomy(sel.Taxonomy))
	ap.sampleLabel.SetText("Sample: " + sel.SampleID)
	ap.permalink.Hide()

	if ap.client == nil {
		ap.resultLabel.SetText("Annotation service unavailable")
		return
	}
	ap.resultLabel.SetText("Looking up annotations...")
	ap.client.Lookup(context.Background(), sel.FeatureID, func(res annotation.Result) {
		ap.showResult(res)
	})
}

func (ap *AnnotationPanel) showResult(res annotation.Result) {
	if res.Err != nil {
		ap.resultLabel.SetText("Lookup failed: " + res.Err.Error())
		return
	}
	if len(res.Annotations) == 0 {
		ap.resultLabel.SetText("No annotations for this feature")
	} else {
		ap.resultLabel.SetText("- " + strings.Join(res.Annotations, "\n- "))
	}
	if res.Permalink != "" {
		if err := ap.permalink.SetURLFromString(res.Permalink); err == nil {
			ap.permalink.Show()
		}
	}
}

func (ap *AnnotationPanel) clear() {
	ap.featureLabel.SetText("Click a cell to select it")
	ap.taxonomyLabel.SetText("")
	ap.sampleLabel.SetText("")
	ap.resultLabel.SetText("")
	ap.permalink.Hide()
}
