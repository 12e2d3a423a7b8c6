// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/jkjkil4/pdf-clip/internal/app"
	"github.com/jkjkil4/pdf-clip/internal/clip"
	"github.com/jkjkil4/pdf-clip/internal/doc"
	"github.com/jkjkil4/pdf-clip/internal/raster"
	"github.com/jkjkil4/pdf-clip/internal/version"
	"github.com/jkjkil4/pdf-clip/pkg/geometry"
	"github.com/jkjkil4/pdf-clip/ui/prefs"
	"github.com/jkjkil4/pdf-clip/ui/viewer"
)

const (
	prefKeyLastDir      = "lastDirectory"
	prefKeyWindowWidth  = "windowWidth"
	prefKeyWindowHeight = "windowHeight"
)

// MainWindow is the primary application window: the source viewer on the
// left, the target composition viewer on the right.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	source        *viewer.SourceView
	compose       *viewer.ComposeView
	sourceWidget  *viewer.Widget
	composeWidget *viewer.Widget
	statusBar     *widget.Label

	// Wheel events carry no modifier state, so control is tracked
	// through the window's key handlers.
	ctrlHeld bool
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("PDF Clip")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeyTracking()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(
		float32(appPrefs.FloatWithFallback(prefKeyWindowWidth, 1200)),
		float32(appPrefs.FloatWithFallback(prefKeyWindowHeight, 800)),
	))
	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		win.Close()
	})

	return mw
}

// setupUI creates the two viewers and the main layout.
func (mw *MainWindow) setupUI() {
	mw.source = viewer.NewSourceView()
	mw.compose = viewer.NewComposeView()
	mw.source.OnSelect = mw.onClipSelected

	mw.sourceWidget = viewer.NewWidget(mw.source)
	mw.composeWidget = viewer.NewWidget(mw.compose)
	mw.sourceWidget.ZoomModifier = func() bool { return mw.ctrlHeld }
	mw.composeWidget.ZoomModifier = func() bool { return mw.ctrlHeld }

	mw.statusBar = widget.NewLabel("Open a PDF to start clipping")

	split := container.NewHSplit(mw.sourceWidget, mw.composeWidget)
	split.SetOffset(0.5)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus and keyboard shortcuts.
func (mw *MainWindow) setupMenus() {
	openItem := fyne.NewMenuItem("Open...", mw.onOpen)
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	exportItem := fyne.NewMenuItem("Export...", mw.onExport)
	exportItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}

	fileMenu := fyne.NewMenu("File",
		openItem,
		exportItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))

	mw.Canvas().AddShortcut(openItem.Shortcut, func(fyne.Shortcut) { mw.onOpen() })
	mw.Canvas().AddShortcut(exportItem.Shortcut, func(fyne.Shortcut) { mw.onExport() })
}

// setupKeyTracking follows the control key through the window canvas so
// wheel zooming can check it.
func (mw *MainWindow) setupKeyTracking() {
	deskCanvas, ok := mw.Canvas().(desktop.Canvas)
	if !ok {
		return
	}
	deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		if ev.Name == desktop.KeyControlLeft || ev.Name == desktop.KeyControlRight {
			mw.ctrlHeld = true
		}
	})
	deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		if ev.Name == desktop.KeyControlLeft || ev.Name == desktop.KeyControlRight {
			mw.ctrlHeld = false
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("PDF Clip - " + filepath.Base(path))
			mw.updateStatus(fmt.Sprintf("Loaded %s (%d pages)", filepath.Base(path), mw.state.Document.PageCount()))
		}
	})

	mw.state.On(app.EventSegmentsChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("%d segment(s) clipped", mw.state.SegmentCount()))
	})

	mw.state.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Exported " + path)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// SavePreferences persists window geometry and the last directory.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefKeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefKeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// onOpen prompts for a PDF file and loads it into the source viewer.
func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.loadDocument(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// OpenDocument loads the given PDF file, for paths passed on the command
// line.
func (mw *MainWindow) OpenDocument(path string) {
	mw.loadDocument(path)
}

// loadDocument opens and rasterizes a PDF, resetting both viewers.
func (mw *MainWindow) loadDocument(path string) {
	mw.updateStatus("Loading " + filepath.Base(path) + "...")

	document, err := doc.Open(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		mw.updateStatus("Failed to load " + filepath.Base(path))
		return
	}

	images, err := document.RenderAll()
	if err != nil {
		document.Close()
		dialog.ShowError(err, mw.Window)
		mw.updateStatus("Failed to render " + filepath.Base(path))
		return
	}

	mw.state.SetDocument(path, document)
	mw.source.SetImages(images)
	mw.compose.Clear()
	mw.sourceWidget.Refresh()
	mw.composeWidget.Refresh()
}

// onClipSelected turns a selection on the source viewer into a segment on
// the composition viewer. Target pages grow on demand so the segment's
// page always exists, each mirroring its source page.
func (mw *MainWindow) onClipSelected(rect geometry.FracRect) {
	if !mw.state.HasDocument() {
		return
	}
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}

	for mw.compose.PageCount() <= rect.PageIndex {
		b := mw.source.PageImage(mw.compose.PageCount()).Bounds()
		mw.compose.AddPage(geometry.NewSize(float64(b.Dx()), float64(b.Dy())))
	}

	cropped := raster.CropFrac(mw.source.PageImage(rect.PageIndex), rect.XMin, rect.XMax, rect.YMin, rect.YMax)
	seg := clip.NewSegment(rect, cropped)

	mw.state.AddSegment(seg)
	mw.compose.AddSegment(seg)
	mw.composeWidget.Refresh()
}

// onExport writes the composed segments to a new PDF.
func (mw *MainWindow) onExport() {
	if !mw.state.HasDocument() {
		mw.updateStatus("Nothing to export: no document open")
		return
	}
	if mw.state.SegmentCount() == 0 {
		mw.updateStatus("Nothing to export: no segments clipped")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".pdf" {
			path += ".pdf"
		}
		mw.saveLastDir(path)
		mw.exportTo(path)
	}, mw.Window)
	fd.SetFileName(defaultExportName(mw.state.FilePath))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// exportTo assembles the output document at path.
func (mw *MainWindow) exportTo(path string) {
	composer, err := doc.NewComposer(mw.state.FilePath)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := clip.Export(composer, mw.state.Segments, path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.state.Emit(app.EventExported, path)
}

// defaultExportName derives the suggested output filename from the source
// document: report.pdf becomes report_clip.pdf.
func defaultExportName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = "output"
	}
	return name + "_clip.pdf"
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About PDF Clip",
		fmt.Sprintf("PDF Clip v%s\n\n"+
			"Clip regions out of PDF pages and arrange them\n"+
			"into a new document.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
