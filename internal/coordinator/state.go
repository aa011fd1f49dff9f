package coordinator

import (
	"log/slog"
	"math"

	"github.com/shhac/coordinator/internal/model"
)

// Unbounded is the max collapsible height before layout has measured the
// header. It is finite so it survives JSON and protobuf encoding.
const Unbounded float32 = math.MaxFloat32

// State holds the collapsed height of a header and coordinates it with an
// inner scrollable region. All methods must be called on the UI goroutine,
// except the blocking AnimateTo family (see animation.go).
type State struct {
	collapsedHeight      float32
	maxCollapsableHeight float32
	fullyCollapsed       bool

	listeners []listener
	nextID    int
	bindings  *model.HeaderState

	frames FrameSource
	active *Animation
	logger *slog.Logger
}

type listener struct {
	id int
	fn func()
}

// NewState creates a fully expanded state with an unbounded max height.
// Animations are scheduled on frames.
func NewState(frames FrameSource, logger *slog.Logger) *State {
	return &State{
		maxCollapsableHeight: Unbounded,
		frames:               frames,
		logger:               logger,
	}
}

// CollapsedHeight returns the height currently consumed by collapsing.
func (s *State) CollapsedHeight() float32 {
	return s.collapsedHeight
}

// MaxCollapsableHeight returns the upper bound of CollapsedHeight.
func (s *State) MaxCollapsableHeight() float32 {
	return s.maxCollapsableHeight
}

// IsFullyCollapsed reports whether the collapsed height equals the max.
func (s *State) IsFullyCollapsed() bool {
	return s.fullyCollapsed
}

// SetMaxCollapsableHeight is called by layout on every measurement pass.
// Non-finite values are ignored and negative ones read as 0. While fully collapsed the collapsed height
// follows the new max, so the header does not pop open during layout churn.
//
// The adjustment is published to bindings but does not notify listeners:
// the layout pass that supplied value is already reading the new height.
func (s *State) SetMaxCollapsableHeight(value float32) {
	v := float64(value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.logger.Debug("ignoring non-finite max collapsable height", slog.Float64("value", v))
		return
	}
	if value < 0 {
		value = 0
	}
	if value == s.maxCollapsableHeight {
		return
	}

	s.maxCollapsableHeight = value
	switch {
	case s.collapsedHeight >= value:
		s.collapsedHeight = value
		s.fullyCollapsed = true
	case s.fullyCollapsed:
		s.collapsedHeight = value
	}
	s.commit(false)
}

// ApplyDelta is the single mutation entry point for the collapsed height.
// A negative delta (content moving up) collapses, a positive one expands.
// The result is clamped to [0, max]; the consumed part of delta is returned.
func (s *State) ApplyDelta(delta float32) float32 {
	if math.IsNaN(float64(delta)) {
		return 0
	}
	newHeight := clamp(s.collapsedHeight-delta, 0, s.maxCollapsableHeight)
	consumed := s.collapsedHeight - newHeight
	s.collapsedHeight = newHeight
	s.fullyCollapsed = newHeight == s.maxCollapsableHeight
	s.commit(true)
	return consumed
}

// DispatchRawDelta applies delta directly, outside the nested scroll
// protocol. Like any gesture input it cancels a running animation.
func (s *State) DispatchRawDelta(delta float32) float32 {
	s.CancelAnimation()
	return s.ApplyDelta(delta)
}

// AddListener registers fn to run synchronously after every tracked change.
// The returned func removes it.
func (s *State) AddListener(fn func()) (remove func()) {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Bind mirrors every change into the given bindings. Binding updates are
// delivered through the running Fyne app, so one must be started first.
func (s *State) Bind(bindings *model.HeaderState) {
	s.bindings = bindings
	s.publish()
}

func (s *State) commit(tracked bool) {
	s.publish()
	if !tracked {
		return
	}
	for _, l := range append([]listener(nil), s.listeners...) {
		l.fn()
	}
}

func (s *State) publish() {
	if s.bindings == nil {
		return
	}
	_ = s.bindings.CollapsedHeight.Set(float64(s.collapsedHeight))
	_ = s.bindings.MaxCollapsableHeight.Set(float64(s.maxCollapsableHeight))
	_ = s.bindings.FullyCollapsed.Set(s.fullyCollapsed)
	_ = s.bindings.Animating.Set(s.IsAnimating())
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
