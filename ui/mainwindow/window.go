// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"heatlens/internal/app"
	"heatlens/internal/render"
	"heatlens/internal/version"
	"heatlens/pkg/colormap"
	"heatlens/ui/canvas"
	"heatlens/ui/panels"
	"heatlens/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyLastDataset = "lastDataset"
	prefKeyLastMapping = "lastMapping"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.HeatmapCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("HeatLens")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  prefs.Load(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	cfg := mw.state.Config
	mw.canvas = canvas.NewHeatmapCanvas(
		cfg.View.LeftGutter, cfg.View.BottomGutter, cfg.View.MaxZoom)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")
	mw.canvas.OnStatus(mw.updateStatus)

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas,
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createToolbar creates the toolbar with the discrete view actions.
// Each button drives whichever axis is active (hold Shift for the
// feature axis).
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	resetBtn := widget.NewButton("Reset", func() {
		mw.canvas.Reset()
	})
	zoomOutBtn := widget.NewButton("-", func() {
		mw.canvas.ZoomOut()
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.canvas.ZoomIn()
	})
	pageUpBtn := widget.NewButton("Prev Page", func() {
		mw.canvas.PageUp()
	})
	pageDownBtn := widget.NewButton("Next Page", func() {
		mw.canvas.PageDown()
	})

	return container.NewHBox(
		resetBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		widget.NewSeparator(),
		pageUpBtn,
		pageDownBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Dataset...", mw.onOpenDataset),
		fyne.NewMenuItem("Open Mapping File...", mw.onOpenMapping),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset View", mw.canvas.Reset),
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Previous Page", mw.canvas.PageUp),
		fyne.NewMenuItem("Next Page", mw.canvas.PageDown),
	)

	var cmapItems []*fyne.MenuItem
	for _, name := range colormap.Names() {
		name := name
		cmapItems = append(cmapItems, fyne.NewMenuItem(name, func() {
			if err := mw.state.SetColormap(name); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}))
	}
	colormapMenu := fyne.NewMenu("Colormap", cmapItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, viewMenu, colormapMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupKeys routes the Shift modifier to the axis selector: held, all
// gestures drive the feature (vertical) axis; released, the sample
// axis.
func (mw *MainWindow) setupKeys() {
	dc, ok := mw.Canvas().(desktop.Canvas)
	if !ok {
		return
	}
	dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
			mw.canvas.SetFeatureAxisActive(true)
		}
	})
	dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
			mw.canvas.SetFeatureAxisActive(false)
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDatasetLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("HeatLens - " + filepath.Base(path))
			mw.updateStatus("Loaded " + path)
		}
	})

	mw.state.On(app.EventBitmapChanged, func(interface{}) {
		bm, sd, fd := mw.state.Snapshot()
		mw.canvas.SetData(bm, sd, fd)
	})

	mw.state.On(app.EventStatusMessage, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// RestoreLastDataset reloads the dataset from the previous session, if
// any. Called once at startup when no path was given on the command
// line.
func (mw *MainWindow) RestoreLastDataset() {
	path := mw.prefs.String(prefKeyLastDataset, "")
	if path == "" {
		return
	}
	mapping := mw.prefs.String(prefKeyLastMapping, "")
	if err := mw.state.LoadDataset(path, mapping); err != nil {
		mw.updateStatus(fmt.Sprintf("Could not restore %s: %v", path, err))
	}
}

// OpenDataset loads a table (and optional mapping file) and remembers
// the paths for the next session.
func (mw *MainWindow) OpenDataset(tablePath, mappingPath string) {
	if err := mw.state.LoadDataset(tablePath, mappingPath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.SetString(prefKeyLastDataset, tablePath)
	mw.prefs.SetString(prefKeyLastMapping, mappingPath)
	mw.prefs.Save()
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	mw.prefs.Save()
}

// Menu action handlers

func (mw *MainWindow) onOpenDataset() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.OpenDataset(path, "")
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".tsv", ".gz"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenMapping() {
	if mw.state.Table == nil {
		mw.updateStatus("Load a dataset before attaching a mapping file")
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.OpenDataset(mw.state.DatasetPath, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".tsv"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	tbl := mw.state.Table
	if tbl == nil {
		mw.updateStatus("No dataset to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		mw.saveLastDir(path)

		cmap, _ := colormap.ByName(mw.state.ColormapName)
		exportErr := render.Export(tbl, path, render.ExportOptions{
			Options: render.Options{
				Colormap:         cmap,
				RobustPercentile: mw.state.Config.Render.RobustPercentile,
			},
			Title:      mw.state.Title,
			CellSize:   mw.state.Config.Render.ExportCellSize,
			GroupField: mw.state.GroupField,
		})
		if exportErr != nil {
			dialog.ShowError(exportErr, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName("heatmap.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About HeatLens",
		fmt.Sprintf("HeatLens v%s\n\n"+
			"An interactive viewer for microbial abundance tables.\n\n"+
			"Scroll to zoom, drag to pan, hold Shift for the feature axis.\n"+
			"Click a cell to look up its annotations.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
