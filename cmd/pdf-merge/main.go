// Package main provides a small companion tool that merges two PDF files
// into one. It asks for the two inputs and the output location through
// file dialogs, in that order.
package main

import (
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/jkjkil4/pdf-clip/internal/doc"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	fyneApp := fyneapp.NewWithID("com.jkjkil4.pdf-clip.merge")
	win := fyneApp.NewWindow("PDF Merge")
	win.Resize(fyne.NewSize(500, 200))

	status := widget.NewLabel("Pick the first document to merge")
	win.SetContent(container.NewCenter(status))

	pickFirst(win, status)
	win.ShowAndRun()
}

// pickFirst asks for the document whose pages come first.
func pickFirst(win fyne.Window, status *widget.Label) {
	openPDF(win, "first", func(first string) {
		status.SetText("Pick the second document to merge")
		pickSecond(win, status, first)
	})
}

// pickSecond asks for the document appended after the first.
func pickSecond(win fyne.Window, status *widget.Label, first string) {
	openPDF(win, "second", func(second string) {
		status.SetText("Pick where to save the merged document")
		pickOutput(win, status, first, second)
	})
}

// pickOutput asks for the output location and runs the merge.
func pickOutput(win fyne.Window, status *widget.Label, first, second string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		out := writer.URI().Path()
		if filepath.Ext(out) != ".pdf" {
			out += ".pdf"
		}

		if err := doc.Merge([]string{first, second}, out); err != nil {
			dialog.ShowError(err, win)
			status.SetText("Merge failed")
			return
		}
		status.SetText("Merged into " + filepath.Base(out))
	}, win)
	fd.SetFileName("merged.pdf")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.Show()
}

// openPDF shows an open dialog filtered to PDF files.
func openPDF(win fyne.Window, which string, onPicked func(path string)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		log.Printf("Merge: %s document %s", which, reader.URI().Path())
		onPicked(reader.URI().Path())
	}, win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.Show()
}
