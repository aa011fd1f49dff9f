package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	apperrors "github.com/shhac/coordinator/internal/errors"
)

var dialogSize = fyne.NewSize(460, 320)

// ShowStorageError displays a rich error dialog for a failed save or restore,
// with recovery suggestions and technical details. The onRetry function is
// called when the user clicks the Retry button (if present).
func ShowStorageError(err error, window fyne.Window, onRetry func()) {
	if err == nil {
		return
	}

	// Classify the error to get UI-friendly metadata
	uiErr := apperrors.ClassifyError(err)
	if uiErr == nil {
		// Fall back to simple error dialog
		dialog.ShowError(err, window)
		return
	}

	// Build dialog content with word-wrapping labels to prevent horizontal expansion
	msgLabel := widget.NewLabel(uiErr.Message)
	msgLabel.Wrapping = fyne.TextWrapWord
	content := container.NewVBox(msgLabel)

	// Add recovery suggestions if available
	if len(uiErr.Recovery) > 0 {
		content.Add(widget.NewSeparator())
		content.Add(widget.NewLabel("You can:"))
		for _, suggestion := range uiErr.Recovery {
			lbl := widget.NewLabel("• " + suggestion)
			lbl.Wrapping = fyne.TextWrapWord
			content.Add(lbl)
		}
	}

	// Add expandable technical details if available
	if uiErr.Details != "" {
		detailsLabel := widget.NewLabel(uiErr.Details)
		detailsLabel.Wrapping = fyne.TextWrapWord
		accordion := widget.NewAccordion(
			widget.NewAccordionItem("Technical Details", detailsLabel),
		)
		content.Add(accordion)
	}

	// Check if there's a retry action and a handler
	hasRetry := false
	for _, action := range uiErr.Actions {
		if action.Label == "Retry" && onRetry != nil {
			hasRetry = true
			break
		}
	}

	// Create appropriate dialog type with explicit size to prevent window resizing
	if hasRetry {
		// Create dialog with retry button
		d := dialog.NewCustomConfirm(
			uiErr.Title,
			"Retry",
			"Close",
			content,
			func(retry bool) {
				if retry && onRetry != nil {
					onRetry()
				}
			},
			window,
		)
		d.Resize(dialogSize)
		d.Show()
	} else {
		// Create simple custom dialog
		d := dialog.NewCustom(uiErr.Title, "Close", content, window)
		d.Resize(dialogSize)
		d.Show()
	}
}
