// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"gopaint/internal/editor"
	"gopaint/internal/version"
	"gopaint/ui/canvas"
	"gopaint/ui/prefs"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastFile  = "lastFile"
	prefKeyBrushSize = "brushSize"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	editor *editor.Editor
	prefs  *prefs.Prefs
	canvas *canvas.PaintCanvas

	statusBar *widget.Label
	fgWell    *colorSwatch
	bgWell    *colorSwatch

	currentPath string
}

// New creates the main window around an editor.
func New(fyneApp fyne.App, ed *editor.Editor, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("GoPaint")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		editor: ed,
		prefs:  p,
	}

	if size := p.FloatWithFallback(prefKeyBrushSize, 0); size > 0 {
		ed.SetBrushSize(int(size))
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.updateTitle()

	win.Resize(fyne.NewSize(1024, 768))
	return mw
}

// setupUI creates the main layout: tool strip | canvas, palette and status
// bar at the bottom.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPaintCanvas(mw.editor)
	mw.statusBar = widget.NewLabel("Ready")

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom %d%%", int(zoom*100)))
	})

	bottom := container.NewVBox(
		mw.buildPalette(),
		container.NewPadded(mw.statusBar),
	)

	content := container.NewBorder(
		nil,
		bottom,
		mw.buildToolStrip(),
		nil,
		mw.canvas.Container(),
	)
	mw.SetContent(content)
}

// buildToolStrip creates the vertical tool selector with the brush size
// slider and fill mode options.
func (mw *MainWindow) buildToolStrip() fyne.CanvasObject {
	tools := []struct {
		label string
		tool  editor.ToolType
	}{
		{"Select", editor.ToolSelect},
		{"Pencil", editor.ToolPencil},
		{"Brush", editor.ToolBrush},
		{"Eraser", editor.ToolEraser},
		{"Alpha", editor.ToolAlphaBrush},
		{"Line", editor.ToolLine},
		{"Rect", editor.ToolRect},
		{"Ellipse", editor.ToolEllipse},
		{"Fill", editor.ToolFill},
		{"Text", editor.ToolText},
		{"Picker", editor.ToolPicker},
	}

	buttons := make([]fyne.CanvasObject, 0, len(tools)+4)
	for _, t := range tools {
		tool := t.tool
		buttons = append(buttons, widget.NewButton(t.label, func() {
			mw.editor.SetTool(tool)
			mw.updateStatus("Tool: " + tool.String())
		}))
	}

	slider := widget.NewSlider(1, 50)
	slider.Step = 1
	slider.Value = float64(mw.editor.BrushSize())
	slider.OnChanged = func(v float64) {
		mw.editor.SetBrushSize(int(v))
		mw.prefs.SetFloat(prefKeyBrushSize, v)
	}

	fillMode := widget.NewRadioGroup(
		[]string{"Outline", "Fill+Outline", "Fill"},
		func(s string) {
			switch s {
			case "Fill+Outline":
				mw.editor.SetFillMode(editor.ShapeFilledOutline)
			case "Fill":
				mw.editor.SetFillMode(editor.ShapeFilled)
			default:
				mw.editor.SetFillMode(editor.ShapeOutline)
			}
		})
	fillMode.Selected = "Outline"

	buttons = append(buttons,
		widget.NewSeparator(),
		widget.NewLabel("Size"),
		slider,
		fillMode,
	)
	return container.NewVBox(buttons...)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New...", mw.onNew),
		fyne.NewMenuItem("Open...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItem("Save As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cut", mw.editor.Cut),
		fyne.NewMenuItem("Copy", mw.editor.Copy),
		fyne.NewMenuItem("Paste", mw.onPaste),
		fyne.NewMenuItem("Delete", mw.editor.Delete),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All", mw.editor.SelectAll),
	)

	imageMenu := fyne.NewMenu("Image",
		fyne.NewMenuItem("Clear", mw.editor.Clear),
		fyne.NewMenuItem("Resize Canvas...", mw.onResizeCanvas),
		fyne.NewMenuItem("Trim to Content", mw.editor.TrimCanvas),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate 90° CW", func() { mw.editor.RotateCanvas(90) }),
		fyne.NewMenuItem("Rotate 90° CCW", func() { mw.editor.RotateCanvas(-90) }),
		fyne.NewMenuItem("Rotate 180°", func() { mw.editor.RotateCanvas(180) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Flip Horizontal", mw.editor.FlipHorizontal),
		fyne.NewMenuItem("Flip Vertical", mw.editor.FlipVertical),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Actual Size", mw.canvas.ZoomReset),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, imageMenu, viewMenu, helpMenu))
}

// setupKeys wires typed runes to the text tool and registers the editing
// shortcuts.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedRune(mw.editor.TypeRune)
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyReturn, fyne.KeyEnter:
			mw.editor.Enter()
		case fyne.KeyBackspace:
			mw.editor.Backspace()
		case fyne.KeyEscape:
			mw.editor.Escape()
		case fyne.KeyDelete:
			mw.editor.Delete()
		}
	})

	shortcuts := map[fyne.KeyName]func(){
		fyne.KeyZ: mw.onUndo,
		fyne.KeyY: mw.onRedo,
		fyne.KeyX: mw.editor.Cut,
		fyne.KeyC: mw.editor.Copy,
		fyne.KeyV: mw.onPaste,
		fyne.KeyA: mw.editor.SelectAll,
		fyne.KeyN: mw.onNew,
		fyne.KeyO: mw.onOpen,
		fyne.KeyS: mw.onSave,
	}
	for key, action := range shortcuts {
		action := action
		mw.Canvas().AddShortcut(
			&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierControl},
			func(fyne.Shortcut) { action() },
		)
	}
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateTitle() {
	title := "GoPaint"
	if mw.currentPath != "" {
		title += " - " + filepath.Base(mw.currentPath)
	}
	mw.SetTitle(title)
}

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

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	mw.prefs.SetString(prefKeyLastFile, filePath)
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

// OpenFile loads an image file into the editor, e.g. from a command line
// argument.
func (mw *MainWindow) OpenFile(path string) error {
	if err := mw.editor.Load(path); err != nil {
		return err
	}
	mw.currentPath = path
	mw.saveLastDir(path)
	mw.updateTitle()
	mw.updateStatus("Opened " + path)
	return nil
}

// Menu action handlers

func (mw *MainWindow) onNew() {
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(editor.DefaultWidth))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(editor.DefaultHeight))

	form := []*widget.FormItem{
		widget.NewFormItem("Width", widthEntry),
		widget.NewFormItem("Height", heightEntry),
	}
	dialog.ShowForm("New Image", "Create", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		w, errW := strconv.Atoi(widthEntry.Text)
		h, errH := strconv.Atoi(heightEntry.Text)
		if errW != nil || errH != nil || w < 1 || h < 1 {
			dialog.ShowError(fmt.Errorf("invalid canvas size %q x %q", widthEntry.Text, heightEntry.Text), mw.Window)
			return
		}
		mw.editor.NewCanvas(w, h)
		mw.currentPath = ""
		mw.updateTitle()
	}, mw.Window)
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.OpenFile(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSave() {
	if mw.currentPath == "" {
		mw.onSaveAs()
		return
	}
	if err := mw.editor.Save(mw.currentPath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Saved " + mw.currentPath)
}

func (mw *MainWindow) onSaveAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		if err := mw.editor.Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.currentPath = path
		mw.saveLastDir(path)
		mw.updateTitle()
		mw.updateStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName("untitled.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	mw.editor.Undo()
	mw.updateStatus("Undo")
}

func (mw *MainWindow) onRedo() {
	mw.editor.Redo()
	mw.updateStatus("Redo")
}

func (mw *MainWindow) onPaste() {
	mw.editor.Paste(nil)
}

func (mw *MainWindow) onResizeCanvas() {
	buf := mw.editor.Buffer()
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(buf.Width()))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(buf.Height()))

	form := []*widget.FormItem{
		widget.NewFormItem("Width", widthEntry),
		widget.NewFormItem("Height", heightEntry),
	}
	dialog.ShowForm("Resize Canvas", "Resize", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		w, errW := strconv.Atoi(widthEntry.Text)
		h, errH := strconv.Atoi(heightEntry.Text)
		if errW != nil || errH != nil || w < 1 || h < 1 {
			dialog.ShowError(fmt.Errorf("invalid canvas size %q x %q", widthEntry.Text, heightEntry.Text), mw.Window)
			return
		}
		mw.editor.ResizeCanvas(w, h)
	}, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About GoPaint",
		fmt.Sprintf("GoPaint v%s\n\n"+
			"A simple raster paint program.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
