package components

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/coordinator/internal/coordinator"
)

// Compile-time interface checks.
var (
	_ fyne.Scrollable = (*CoordinatorLayout)(nil)
	_ fyne.Draggable  = (*CoordinatorLayout)(nil)
)

// CoordinatorLayout stacks a collapsing header above scrollable content.
// Wheel and drag deltas run through the nested scroll protocol: the header
// collapses before the content scrolls, and expands only after the content
// is back at its start.
//
// Being fyne.Scrollable, the widget is clipped to its bounds by the driver,
// so the collapsed part of the header and the scrolled-away content are
// hidden.
type CoordinatorLayout struct {
	widget.BaseWidget

	state   *coordinator.State
	header  fyne.CanvasObject
	content fyne.CanvasObject
	inner   coordinator.ScrollPosition
	pinned  float32
	logger  *slog.Logger
}

// NewCoordinatorLayout creates a layout driving state from header and content.
// The header's minimum height is its expanded height.
func NewCoordinatorLayout(state *coordinator.State, header, content fyne.CanvasObject, logger *slog.Logger) *CoordinatorLayout {
	c := &CoordinatorLayout{
		state:   state,
		header:  header,
		content: content,
		logger:  logger,
	}
	c.ExtendBaseWidget(c)
	return c
}

// SetPinnedHeight sets how much of the bottom of the header stays visible
// when fully collapsed.
func (c *CoordinatorLayout) SetPinnedHeight(height float32) {
	if height < 0 {
		height = 0
	}
	c.pinned = height
	c.Refresh()
}

// InnerOffset returns how far the content is scrolled past its start.
func (c *CoordinatorLayout) InnerOffset() float32 {
	return c.inner.Offset()
}

// Scrolled implements fyne.Scrollable.
func (c *CoordinatorLayout) Scrolled(ev *fyne.ScrollEvent) {
	c.dispatch(ev.Scrolled, coordinator.SourceWheel)
}

// Dragged implements fyne.Draggable.
func (c *CoordinatorLayout) Dragged(ev *fyne.DragEvent) {
	c.dispatch(ev.Dragged, coordinator.SourceDrag)
}

// DragEnd implements fyne.Draggable. Flings are not simulated.
func (c *CoordinatorLayout) DragEnd() {}

func (c *CoordinatorLayout) dispatch(d fyne.Delta, source coordinator.Source) {
	if d.DY == 0 {
		return
	}
	before := c.inner.Offset()
	consumed := coordinator.DispatchScroll(c.state, &c.inner, fyne.NewDelta(0, d.DY), source)

	c.logger.Debug("scroll dispatched",
		slog.String("source", source.String()),
		slog.Float64("delta", float64(d.DY)),
		slog.Float64("consumed", float64(consumed.DY)),
		slog.Float64("collapsed_height", float64(c.state.CollapsedHeight())),
		slog.Float64("inner_offset", float64(c.inner.Offset())))

	// Header changes refresh through the state listener.
	if c.inner.Offset() != before {
		c.Refresh()
	}
}

// CreateRenderer implements fyne.Widget.
func (c *CoordinatorLayout) CreateRenderer() fyne.WidgetRenderer {
	r := &coordinatorRenderer{
		c:       c,
		objects: []fyne.CanvasObject{c.content, c.header},
	}
	r.removeListener = c.state.AddListener(c.Refresh)
	return r
}

type coordinatorRenderer struct {
	c              *CoordinatorLayout
	objects        []fyne.CanvasObject
	removeListener func()
}

// Layout measures the header, publishes the collapsible range to the state,
// then positions the header and content for the current collapsed height.
func (r *coordinatorRenderer) Layout(size fyne.Size) {
	c := r.c

	headerH := c.header.MinSize().Height
	c.state.SetMaxCollapsableHeight(headerH - c.pinned)
	collapsed := c.state.CollapsedHeight()

	c.header.Resize(fyne.NewSize(size.Width, headerH))
	c.header.Move(fyne.NewPos(0, -collapsed))

	bodyTop := headerH - collapsed
	bodyH := size.Height - bodyTop
	if bodyH < 0 {
		bodyH = 0
	}
	contentH := c.content.MinSize().Height
	if contentH < bodyH {
		contentH = bodyH
	}
	c.inner.SetMax(contentH - bodyH)

	c.content.Resize(fyne.NewSize(size.Width, contentH))
	c.content.Move(fyne.NewPos(0, bodyTop-c.inner.Offset()))
}

func (r *coordinatorRenderer) MinSize() fyne.Size {
	w := fyne.Max(r.c.header.MinSize().Width, r.c.content.MinSize().Width)
	return fyne.NewSize(w, r.c.pinned)
}

func (r *coordinatorRenderer) Refresh() {
	r.Layout(r.c.Size())
	canvas.Refresh(r.c)
}

func (r *coordinatorRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *coordinatorRenderer) Destroy() {
	if r.removeListener != nil {
		r.removeListener()
		r.removeListener = nil
	}
}
