package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/coordinator/internal/coordinator"
	"github.com/shhac/coordinator/internal/model"
)

// StatusBar shows the persistence status with a shape-changing icon and a
// readout of the header state.
// Each storage state uses a distinct icon shape for accessibility (not color-only):
//   - Idle: empty radio button (circle outline)
//   - Restored: history icon
//   - Saved: confirm icon (checkmark)
//   - Error: error icon (X shape)
type StatusBar struct {
	widget.BaseWidget

	storage     *model.StorageUIState
	header      *model.HeaderState
	statusLabel *widget.Label
	indicator   *widget.Icon
	headerLabel *widget.Label
}

// NewStatusBar creates a new status bar bound to the given states.
func NewStatusBar(storage *model.StorageUIState, header *model.HeaderState) *StatusBar {
	label := widget.NewLabel("Idle")
	label.Truncation = fyne.TextTruncateEllipsis

	s := &StatusBar{
		storage:     storage,
		header:      header,
		statusLabel: label,
		indicator:   widget.NewIcon(theme.RadioButtonIcon()),
		headerLabel: widget.NewLabel(""),
	}
	s.headerLabel.Importance = widget.LowImportance
	s.ExtendBaseWidget(s)

	storage.State.AddListener(binding.NewDataListener(s.updateStatus))
	storage.Message.AddListener(binding.NewDataListener(s.updateStatus))

	headerListener := binding.NewDataListener(s.updateHeader)
	header.CollapsedHeight.AddListener(headerListener)
	header.MaxCollapsableHeight.AddListener(headerListener)
	header.FullyCollapsed.AddListener(headerListener)
	header.Animating.AddListener(headerListener)

	s.updateStatus()
	s.updateHeader()

	return s
}

// updateStatus refreshes the storage indicator based on current state.
func (s *StatusBar) updateStatus() {
	stateStr, _ := s.storage.State.Get()
	message, _ := s.storage.Message.Get()

	var fallback string
	switch stateStr {
	case "idle":
		s.indicator.SetResource(theme.RadioButtonIcon())
		fallback = "Idle"
	case "restored":
		s.indicator.SetResource(theme.HistoryIcon())
		fallback = "Restored"
	case "saved":
		s.indicator.SetResource(theme.ConfirmIcon())
		fallback = "Saved"
	case "error":
		s.indicator.SetResource(theme.ErrorIcon())
		fallback = "Storage Error"
	default:
		s.indicator.SetResource(theme.RadioButtonIcon())
		s.statusLabel.SetText("Unknown state")
		return
	}

	if message == "" {
		message = fallback
	}
	s.statusLabel.SetText(message)
}

func (s *StatusBar) updateHeader() {
	s.headerLabel.SetText(HeaderSummary(s.header))
}

// HeaderSummary formats the header state as a one-line readout. A max of
// coordinator.Unbounded reads as unmeasured.
func HeaderSummary(h *model.HeaderState) string {
	collapsed, _ := h.CollapsedHeight.Get()
	maxHeight, _ := h.MaxCollapsableHeight.Get()
	fully, _ := h.FullyCollapsed.Get()
	animating, _ := h.Animating.Get()

	var text string
	if maxHeight >= float64(coordinator.Unbounded) {
		text = fmt.Sprintf("collapsed %.0f / unmeasured", collapsed)
	} else {
		text = fmt.Sprintf("collapsed %.0f / %.0f", collapsed, maxHeight)
	}
	if fully {
		text += " (fully collapsed)"
	}
	if animating {
		text += " animating"
	}
	return text
}

// CreateRenderer implements fyne.Widget.
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(
		s.indicator,
		s.statusLabel,
		layout.NewSpacer(),
		s.headerLabel,
	))
}

// SetState is a convenience method to update the storage state.
// State should be one of: "idle", "restored", "saved", "error"
func (s *StatusBar) SetState(state string, message string) {
	_ = s.storage.State.Set(state)
	_ = s.storage.Message.Set(message)
}
