// Package ui is the fyne desktop front end for the evaluation form.
//
// All widget callbacks run on the fyne event loop and call the
// controller synchronously, so the window is unresponsive while a
// save, delete or chart render is in progress.
package ui

import (
	"bytes"
	"errors"
	"image/png"

	"studenteval/evaluation"
	"studenteval/form"
	"studenteval/visualize"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const windowTitle = "Student Evaluation System"

type Options struct {
	Width       float32
	Height      float32
	ChartWidth  float32
	ChartHeight float32
}

// Window is the main form window. It implements form.Presenter.
type Window struct {
	app        fyne.App
	window     fyne.Window
	controller *form.Controller
	logger     *zap.Logger
	opts       Options

	entries map[form.Field]*widget.Entry
	table   *widget.Table
	rows    []evaluation.Record

	saveButton      *widget.Button
	visualizeButton *widget.Button
	deleteButton    *widget.Button
}

var fieldLabels = []struct {
	field form.Field
	label string
}{
	{form.FieldName, "Student Name"},
	{form.FieldAttendance, "Attendance (0-100)"},
	{form.FieldClasswork, "Classwork (0-100)"},
	{form.FieldSocialization, "Socialization (0-100)"},
	{form.FieldNeatness, "Neatness (0-100)"},
}

// New builds the window, attaches it to controller and loads the table.
func New(a fyne.App, controller *form.Controller, opts Options, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 800, 600
	}
	if opts.ChartWidth <= 0 || opts.ChartHeight <= 0 {
		opts.ChartWidth, opts.ChartHeight = 640, 480
	}
	w := &Window{
		app:        a,
		window:     a.NewWindow(windowTitle),
		controller: controller,
		logger:     logger,
		opts:       opts,
		entries:    make(map[form.Field]*widget.Entry),
	}
	w.window.SetContent(w.build())
	w.window.Resize(fyne.NewSize(opts.Width, opts.Height))

	controller.Attach(w)
	if err := controller.Refresh(); err != nil {
		logger.Warn("initial table load failed", zap.Error(err))
	}
	return w
}

func (w *Window) build() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(windowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	state := w.controller.State()
	formItems := make([]fyne.CanvasObject, 0, len(fieldLabels)*2)
	for _, fl := range fieldLabels {
		field := fl.field
		entry := widget.NewEntry()
		entry.SetText(state.Get(field))
		entry.OnChanged = func(s string) { state.Set(field, s) }
		w.entries[field] = entry
		formItems = append(formItems, widget.NewLabel(fl.label), entry)
	}
	fields := container.New(layout.NewFormLayout(), formItems...)

	w.saveButton = widget.NewButton("Evaluate & Save", func() { w.controller.Save() })
	w.saveButton.Importance = widget.HighImportance
	w.visualizeButton = widget.NewButton("Visualize Data", func() { w.controller.Visualize() })
	w.deleteButton = widget.NewButton("Delete Record", func() { w.controller.Delete() })
	w.deleteButton.Importance = widget.DangerImportance
	buttons := container.NewVBox(w.saveButton, w.visualizeButton, w.deleteButton)

	w.table = widget.NewTable(
		func() (int, int) { return len(w.rows) + 1, len(columns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			lbl.TextStyle = fyne.TextStyle{Bold: id.Row == 0}
			lbl.SetText(cellText(w.rows, id.Row, id.Col))
		},
	)
	for i := range columns {
		w.table.SetColumnWidth(i, 100)
	}
	w.table.OnSelected = w.onSelected

	top := container.NewVBox(title, fields, buttons)
	return container.NewBorder(top, nil, nil, nil, w.table)
}

func (w *Window) onSelected(id widget.TableCellID) {
	if id.Row == 0 {
		w.table.Unselect(id)
		w.controller.State().ClearSelection()
		return
	}
	idx := id.Row - 1
	if idx < 0 || idx >= len(w.rows) {
		return
	}
	w.controller.State().Select(w.rows[idx].ID)
}

func (w *Window) ShowAndRun() {
	w.window.ShowAndRun()
}

func (w *Window) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, w.window)
}

func (w *Window) ShowError(title, message string) {
	content := container.NewHBox(widget.NewIcon(theme.ErrorIcon()), widget.NewLabel(message))
	dialog.ShowCustom(title, "OK", content, w.window)
}

func (w *Window) ShowRecords(records []evaluation.Record) {
	w.rows = records
	w.table.UnselectAll()
	w.table.Refresh()
}

func (w *Window) ClearForm() {
	for _, entry := range w.entries {
		entry.SetText("")
	}
}

// ShowChart opens the rendered chart in its own window.
func (w *Window) ShowChart(payload []byte) {
	img, err := decodePNG(payload)
	if err != nil {
		w.logger.Error("chart decode failed", zap.Error(err))
		dialog.ShowError(err, w.window)
		return
	}
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(w.opts.ChartWidth/2, w.opts.ChartHeight/2))

	cw := w.app.NewWindow(visualize.Title)
	cw.SetContent(img)
	cw.Resize(fyne.NewSize(w.opts.ChartWidth, w.opts.ChartHeight))
	cw.Show()
}

func decodePNG(payload []byte) (*canvas.Image, error) {
	if len(payload) == 0 {
		return nil, errors.New("empty chart")
	}
	src, err := png.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return canvas.NewImageFromImage(src), nil
}
