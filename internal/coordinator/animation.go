package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
)

const defaultAnimationDuration = 100 * time.Millisecond

// settleTolerance bounds the float drift absorbed on the last frame.
const settleTolerance = 0.5

// AnimationSpec describes how a programmatic transition is sampled.
type AnimationSpec struct {
	Duration time.Duration
	Curve    fyne.AnimationCurve // nil means fyne.AnimationLinear
}

// DefaultAnimationSpec returns a 100ms linear tween.
func DefaultAnimationSpec() AnimationSpec {
	return AnimationSpec{Duration: defaultAnimationDuration, Curve: fyne.AnimationLinear}
}

// Tween returns a spec with the given duration and easing curve.
func Tween(d time.Duration, curve fyne.AnimationCurve) AnimationSpec {
	return AnimationSpec{Duration: d, Curve: curve}
}

// Animation is a cancellable transition driving a State through the delta
// consumer, one sampled delta per frame. Completion and cancellation both
// end the task; Completed tells them apart.
type Animation struct {
	state   *State
	offset  float32
	curve   fyne.AnimationCurve
	applied float32

	// settle returns the delta still needed to land exactly on an absolute
	// target; nil for relative transitions.
	settle func() float32

	cancelled atomic.Bool
	completed atomic.Bool
	done      chan struct{}
	endOnce   sync.Once
	stop      func()
}

// Done is closed when the animation completes or is cancelled.
func (a *Animation) Done() <-chan struct{} {
	return a.done
}

// Completed reports whether every frame was delivered.
func (a *Animation) Completed() bool {
	return a.completed.Load()
}

// Cancel stops the animation before its next frame. The collapsed height
// keeps whatever value was last committed. Safe from any goroutine.
func (a *Animation) Cancel() {
	if !a.cancelled.CompareAndSwap(false, true) {
		return
	}
	if a.stop != nil {
		a.stop()
	}
	a.end(false)
}

// Wait blocks until the animation ends or ctx is done, in which case the
// animation is cancelled. It returns true only if the animation completed.
// Wait must not be called on the frame goroutine.
func (a *Animation) Wait(ctx context.Context) bool {
	select {
	case <-a.done:
	case <-ctx.Done():
		a.state.frames.Do(func() {
			a.Cancel()
			a.state.release(a)
		})
	}
	return a.Completed()
}

func (a *Animation) frame(fraction float32) {
	if a.cancelled.Load() || a.completed.Load() {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	target := a.offset * a.curve(fraction)
	a.state.ApplyDelta(target - a.applied)
	a.applied = target
	if fraction >= 1 {
		if a.settle != nil {
			if rest := a.settle(); rest != 0 && abs(rest) < settleTolerance {
				a.state.ApplyDelta(rest)
			}
		}
		a.end(true)
		a.state.release(a)
	}
}

func (a *Animation) end(completed bool) {
	a.endOnce.Do(func() {
		if completed {
			a.completed.Store(true)
		}
		close(a.done)
	})
}

// IsAnimating reports whether a programmatic transition is in flight.
func (s *State) IsAnimating() bool {
	if s.active == nil {
		return false
	}
	select {
	case <-s.active.done:
		return false
	default:
		return true
	}
}

// CancelAnimation cancels the in-flight animation, if any.
func (s *State) CancelAnimation() {
	if s.active == nil {
		return
	}
	a := s.active
	s.active = nil
	if !a.Completed() {
		a.Cancel()
		s.logger.Debug("animation cancelled", slog.Float64("collapsed_height", float64(s.collapsedHeight)))
	}
	s.publish()
}

// release forgets a once it has ended.
func (s *State) release(a *Animation) {
	if s.active == a {
		s.active = nil
	}
	s.publish()
}

// StartAnimateTo starts a transition for value. The scroll offset is
// (value - max) clamped to [0, max], so value is read relative to the max
// bound rather than as an absolute height.
func (s *State) StartAnimateTo(value float32, spec AnimationSpec) *Animation {
	return s.startScrollBy(clamp(value-s.maxCollapsableHeight, 0, s.maxCollapsableHeight), spec, nil)
}

// StartAnimateToCollapsed starts a transition to the fully collapsed state.
func (s *State) StartAnimateToCollapsed(spec AnimationSpec) *Animation {
	return s.startScrollBy(s.collapsedHeight-s.maxCollapsableHeight, spec, func() float32 {
		return s.collapsedHeight - s.maxCollapsableHeight
	})
}

// StartAnimateToExpanded starts a transition to the fully expanded state.
func (s *State) StartAnimateToExpanded(spec AnimationSpec) *Animation {
	return s.startScrollBy(s.collapsedHeight, spec, func() float32 {
		return s.collapsedHeight
	})
}

// AnimateTo runs StartAnimateTo and waits for it. It must not be called on
// the frame goroutine. It returns false if the animation was cancelled.
func (s *State) AnimateTo(ctx context.Context, value float32, spec AnimationSpec) bool {
	var a *Animation
	s.frames.Do(func() { a = s.StartAnimateTo(value, spec) })
	return a.Wait(ctx)
}

// AnimateToCollapsed animates to the max collapsable height and waits.
func (s *State) AnimateToCollapsed(ctx context.Context, spec AnimationSpec) bool {
	var a *Animation
	s.frames.Do(func() { a = s.StartAnimateToCollapsed(spec) })
	return a.Wait(ctx)
}

// AnimateToExpanded animates to a collapsed height of 0 and waits.
func (s *State) AnimateToExpanded(ctx context.Context, spec AnimationSpec) bool {
	var a *Animation
	s.frames.Do(func() { a = s.StartAnimateToExpanded(spec) })
	return a.Wait(ctx)
}

// startScrollBy scrolls by offset over spec, using the scroll convention
// of ApplyDelta: a positive offset expands.
func (s *State) startScrollBy(offset float32, spec AnimationSpec, settle func() float32) *Animation {
	s.CancelAnimation()

	curve := spec.Curve
	if curve == nil {
		curve = fyne.AnimationLinear
	}
	a := &Animation{
		state:  s,
		offset: offset,
		curve:  curve,
		settle: settle,
		done:   make(chan struct{}),
	}

	s.logger.Debug("animation started",
		slog.Float64("offset", float64(offset)),
		slog.Duration("duration", spec.Duration))

	if spec.Duration <= 0 || offset == 0 {
		a.frame(1)
		return a
	}

	s.active = a
	s.publish()
	a.stop = s.frames.Start(spec.Duration, a.frame)
	return a
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
