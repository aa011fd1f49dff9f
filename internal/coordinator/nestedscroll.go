package coordinator

import "fyne.io/fyne/v2"

// Source identifies where a scroll delta came from.
type Source int

const (
	SourceDrag Source = iota
	SourceWheel
	SourceProgrammatic
)

func (s Source) String() string {
	switch s {
	case SourceDrag:
		return "drag"
	case SourceWheel:
		return "wheel"
	case SourceProgrammatic:
		return "programmatic"
	default:
		return "unknown"
	}
}

// Connection is the parent side of the two-phase nested scroll protocol.
type Connection interface {
	// PreScroll offers the parent first claim on available before the
	// child scrolls. It returns the part it consumed.
	PreScroll(available fyne.Delta, source Source) fyne.Delta
	// PostScroll offers the parent what the child left over.
	PostScroll(consumed, available fyne.Delta, source Source) fyne.Delta
}

// Scrollable is the child side: it consumes a vertical delta and returns
// the consumed part, using the same sign convention as State.ApplyDelta.
type Scrollable interface {
	ScrollBy(delta float32) float32
}

// Compile-time interface checks.
var (
	_ Connection = (*State)(nil)
	_ Scrollable = (*ScrollPosition)(nil)
)

// PreScroll lets the header collapse before the inner content scrolls.
// Horizontal deltas and expanding (non-negative) deltas are declined.
func (s *State) PreScroll(available fyne.Delta, _ Source) fyne.Delta {
	if available.DX != 0 {
		return fyne.Delta{}
	}
	if available.DY < 0 && s.collapsedHeight < s.maxCollapsableHeight {
		return s.consumeGesture(available)
	}
	return fyne.Delta{}
}

// PostScroll lets the header expand only once the inner content has
// scrolled back to its start and left a positive delta over.
func (s *State) PostScroll(_, available fyne.Delta, _ Source) fyne.Delta {
	if available.DX != 0 {
		return fyne.Delta{}
	}
	if available.DY > 0 {
		return s.consumeGesture(available)
	}
	return fyne.Delta{}
}

func (s *State) consumeGesture(available fyne.Delta) fyne.Delta {
	s.CancelAnimation()
	return fyne.NewDelta(0, s.ApplyDelta(available.DY))
}

// DispatchScroll runs delta through the pre phase of parent, then child,
// then the post phase of parent, and returns the total consumed.
func DispatchScroll(parent Connection, child Scrollable, delta fyne.Delta, source Source) fyne.Delta {
	pre := parent.PreScroll(delta, source)
	left := subtract(delta, pre)

	childConsumed := fyne.NewDelta(0, child.ScrollBy(left.DY))
	left = subtract(left, childConsumed)

	post := parent.PostScroll(childConsumed, left, source)
	return fyne.NewDelta(pre.DX+childConsumed.DX+post.DX, pre.DY+childConsumed.DY+post.DY)
}

func subtract(a, b fyne.Delta) fyne.Delta {
	return fyne.NewDelta(a.DX-b.DX, a.DY-b.DY)
}

// ScrollPosition is a clamped vertical offset for inner content.
// Offset 0 is the start of the content.
type ScrollPosition struct {
	offset float32
	max    float32
}

// Offset returns the current offset.
func (p *ScrollPosition) Offset() float32 {
	return p.offset
}

// Max returns the largest reachable offset.
func (p *ScrollPosition) Max() float32 {
	return p.max
}

// SetMax updates the scroll range, clamping the offset into it.
func (p *ScrollPosition) SetMax(max float32) {
	if max < 0 {
		max = 0
	}
	p.max = max
	p.offset = clamp(p.offset, 0, max)
}

// ScrollBy moves the content. A negative delta scrolls further into the
// content, a positive one back toward its start.
func (p *ScrollPosition) ScrollBy(delta float32) float32 {
	newOffset := clamp(p.offset-delta, 0, p.max)
	consumed := p.offset - newOffset
	p.offset = newOffset
	return consumed
}
