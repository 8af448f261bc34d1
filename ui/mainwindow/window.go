// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"image-board/internal/app"
	"image-board/internal/export"
	boardimage "image-board/internal/image"
	"image-board/internal/items"
	"image-board/internal/version"
	"image-board/internal/viewport"
	"image-board/pkg/geometry"
	"image-board/ui/canvas"
	"image-board/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const readyText = "Ready"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs
	cfg   prefs.Config

	canvas     *canvas.BoardCanvas
	statusBar  *widget.Label
	countLabel *widget.Label
	zoomLabel  *widget.Label

	toastMu    sync.Mutex
	toastTimer *time.Timer

	copyMu     sync.Mutex
	copyCancel context.CancelFunc
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Image Board")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		cfg:    p.Config(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	size := mw.cfg.WindowSize
	mw.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))
	mw.SetOnDropped(mw.onDropped)
	mw.SetCloseIntercept(mw.onClose)
	fyneApp.Lifecycle().SetOnExitedForeground(func() {
		state.FocusLost()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewBoardCanvas(mw.state)

	mw.statusBar = widget.NewLabel(readyText)
	mw.countLabel = widget.NewLabel("0 selected")
	mw.zoomLabel = widget.NewLabel(zoomText(1))

	toolbar := mw.createToolbar()
	status := container.NewBorder(nil, nil, nil, mw.countLabel, mw.statusBar)

	content := container.NewBorder(
		toolbar,   // top
		status,    // bottom
		nil,       // left
		nil,       // right
		mw.canvas, // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with board and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Import...", mw.onImport),
		widget.NewButton("Arrange", mw.state.ArrangeGrid),
		widget.NewButton("Delete", mw.onDelete),
		widget.NewButton("Save...", mw.onSave),
		widget.NewButton("Copy", mw.onCopy),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.state.ZoomOut),
		mw.zoomLabel,
		widget.NewButton("+", mw.state.ZoomIn),
		widget.NewButton("Fit", mw.state.FitAll),
		widget.NewButton("1:1", mw.state.ResetView),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Image...", mw.onImport),
		fyne.NewMenuItem("Save Image As...", mw.onSave),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", mw.onClose),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Copy", mw.onCopy),
		fyne.NewMenuItem("Paste", mw.onPaste),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All", mw.state.SelectAll),
		fyne.NewMenuItem("Select None", mw.state.ClearSelection),
		fyne.NewMenuItem("Delete Selected", mw.onDelete),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Arrange in Grid", mw.state.ArrangeGrid),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.state.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.state.ZoomOut),
		fyne.NewMenuItem("Fit All", mw.state.FitAll),
		fyne.NewMenuItem("Actual Size", mw.state.ResetView),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupShortcuts binds the keyboard shortcuts on the window canvas.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { mw.onCopy() })
	c.AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { mw.onPaste() })
	c.AddShortcut(&fyne.ShortcutSelectAll{}, func(fyne.Shortcut) { mw.state.SelectAll() })
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDelete()
		case fyne.KeyEscape:
			mw.state.FocusLost()
			mw.state.ClearSelection()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		if n, ok := data.(int); ok {
			mw.countLabel.SetText(fmt.Sprintf("%d selected", n))
		}
	})

	mw.state.On(app.EventViewportChanged, func(data interface{}) {
		if v, ok := data.(viewport.State); ok {
			mw.zoomLabel.SetText(zoomText(v.Zoom))
		}
	})

	mw.state.On(app.EventNotice, func(data interface{}) {
		n, ok := data.(app.Notice)
		if !ok {
			return
		}
		if n.Level == app.NoticeError {
			log.Printf("notice: %s", n.Text)
		}
		mw.showToast(n.Text)
	})
}

// showToast shows text in the status bar until the toast delay passes.
func (mw *MainWindow) showToast(text string) {
	mw.toastMu.Lock()
	defer mw.toastMu.Unlock()

	mw.statusBar.SetText(text)
	if mw.toastTimer != nil {
		mw.toastTimer.Stop()
	}
	mw.toastTimer = time.AfterFunc(mw.cfg.ToastDuration, func() {
		mw.toastMu.Lock()
		defer mw.toastMu.Unlock()
		if mw.statusBar.Text == text {
			mw.statusBar.SetText(readyText)
		}
	})
}

func zoomText(z float64) string {
	return fmt.Sprintf("%.0f%%", z*100)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onImport() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		uri := reader.URI()
		if uri.Scheme() == "file" {
			mw.saveLastDir(uri.Path())
		}
		src := app.Source{
			Name: uri.Name(),
			Read: func() ([]byte, error) {
				defer reader.Close()
				return io.ReadAll(reader)
			},
		}
		mw.state.Import([]app.Source{src}, nil)
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(boardimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onDropped(pos fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	at := mw.canvas.LocalPosition(pos)
	mw.state.Import(uriSources(uris), &at)
}

func (mw *MainWindow) onPaste() {
	sources := pasteSources(mw.Clipboard().Content())
	if len(sources) == 0 {
		mw.state.Notify(app.NoticeInfo, "Clipboard has no image to paste")
		return
	}
	mw.state.Paste(sources)
}

func (mw *MainWindow) onDelete() {
	mw.state.DeleteSelected()
}

// onCopy copies the selection in the background. A new copy cancels one
// still in progress.
func (mw *MainWindow) onCopy() {
	mw.copyMu.Lock()
	if mw.copyCancel != nil {
		mw.copyCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	mw.copyCancel = cancel
	mw.copyMu.Unlock()

	cb := fyneClipboard{cb: mw.Clipboard()}
	go func() {
		defer cancel()
		mw.state.CopySelected(ctx, cb)
	}()
}

// onSave saves the primary selected image in its original encoding.
func (mw *MainWindow) onSave() {
	id, ok := mw.primary()
	if !ok {
		mw.state.Notify(app.NoticeInfo, "Select an image to save")
		return
	}
	it, _ := mw.state.Item(id)

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if writer.URI().Scheme() == "file" {
			mw.saveLastDir(writer.URI().Path())
		}
		if err := mw.state.SaveItem(id, writer); err != nil {
			log.Printf("save %s: %v", writer.URI(), err)
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.Notify(app.NoticeInfo, "Saved %s", writer.URI().Name())
	}, mw.Window)
	fd.SetFileName(export.FileName(&it))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// primary returns the primary selected item, or the front-most selected one.
func (mw *MainWindow) primary() (items.ID, bool) {
	snap := mw.state.Snapshot()
	var found items.ID
	for _, iv := range snap.Items {
		if iv.Primary {
			return iv.ID, true
		}
		if iv.Selected {
			found = iv.ID
		}
	}
	return found, found != 0
}

func (mw *MainWindow) onClose() {
	mw.copyMu.Lock()
	if mw.copyCancel != nil {
		mw.copyCancel()
	}
	mw.copyMu.Unlock()

	size := mw.Canvas().Size()
	mw.prefs.SetWindowSize(geometry.Size{Width: float64(size.Width), Height: float64(size.Height)})
	mw.SavePreferences()
	mw.app.Quit()
}

// SavePreferences writes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// SavePreferencesIfChanged writes preferences only when they changed.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Image Board",
		fmt.Sprintf("Image Board %s\n\n"+
			"A pan-and-zoom board for collecting images.",
			version.String()),
		mw.Window)
}
