package coordinator_test

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/coordinator/internal/coordinator"
	"github.com/shhac/coordinator/internal/coordinator/coordtest"
	"github.com/shhac/coordinator/internal/logging"
)

const frame = 16 * time.Millisecond

func newAnimatedState(t *testing.T, max, collapsed float32) (*coordinator.State, *coordtest.ManualFrames) {
	t.Helper()
	frames := coordtest.NewManualFrames()
	s := coordinator.NewState(frames, logging.NewNopLogger())
	s.SetMaxCollapsableHeight(max)
	s.ApplyDelta(-collapsed)
	require.Equal(t, collapsed, s.CollapsedHeight())
	return s, frames
}

func TestStartAnimateToCollapsed_RunsToCompletion(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 20)

	a := s.StartAnimateToCollapsed(coordinator.Tween(160*time.Millisecond, fyne.AnimationLinear))
	assert.True(t, s.IsAnimating())
	assert.Equal(t, 1, frames.Active())

	var heights []float32
	for frames.Active() > 0 {
		frames.Advance(frame)
		heights = append(heights, s.CollapsedHeight())
	}

	assert.Len(t, heights, 10)
	assert.InDelta(t, 28, heights[0], 0.001)
	for i := 1; i < len(heights); i++ {
		assert.GreaterOrEqual(t, heights[i], heights[i-1], "collapse must be monotonic")
	}
	assert.Equal(t, s.MaxCollapsableHeight(), s.CollapsedHeight())
	assert.True(t, s.IsFullyCollapsed())
	assert.True(t, a.Completed())
	assert.False(t, s.IsAnimating())

	select {
	case <-a.Done():
	default:
		t.Fatal("Done should be closed after completion")
	}
}

func TestStartAnimateToExpanded(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 100)

	a := s.StartAnimateToExpanded(coordinator.Tween(100*time.Millisecond, fyne.AnimationEaseInOut))
	frames.Frames(20, frame)

	assert.True(t, a.Completed())
	assert.InDelta(t, 0, s.CollapsedHeight(), 0.001)
	assert.False(t, s.IsFullyCollapsed())
}

func TestStartAnimateTo_OffsetRelativeToMax(t *testing.T) {
	tests := []struct {
		name          string
		collapsed     float32
		value         float32
		wantCollapsed float32
	}{
		{"value below max does nothing", 80, 60, 80},
		{"value equal to max does nothing", 80, 100, 80},
		{"value above max expands by the excess", 80, 130, 50},
		{"excess clamped to max", 100, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, frames := newAnimatedState(t, 100, tt.collapsed)

			a := s.StartAnimateTo(tt.value, coordinator.Tween(48*time.Millisecond, nil))
			frames.Frames(5, frame)

			assert.True(t, a.Completed())
			assert.InDelta(t, tt.wantCollapsed, s.CollapsedHeight(), 0.001)
		})
	}
}

func TestAnimation_CancelHoldsLastCommittedHeight(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 0)

	a := s.StartAnimateToCollapsed(coordinator.Tween(100*time.Millisecond, fyne.AnimationLinear))
	frames.Frames(3, 10*time.Millisecond)
	assert.InDelta(t, 30, s.CollapsedHeight(), 0.001)

	a.Cancel()
	frames.Frames(10, 10*time.Millisecond)

	assert.InDelta(t, 30, s.CollapsedHeight(), 0.001)
	assert.False(t, a.Completed())
	assert.False(t, s.IsAnimating())
	assert.Equal(t, 0, frames.Active())
	assertInvariants(t, s)
}

func TestAnimation_GestureCancels(t *testing.T) {
	tests := []struct {
		name    string
		gesture func(s *coordinator.State)
	}{
		{"raw delta", func(s *coordinator.State) { s.DispatchRawDelta(5) }},
		{"pre scroll", func(s *coordinator.State) { s.PreScroll(fyne.NewDelta(0, -5), coordinator.SourceDrag) }},
		{"post scroll", func(s *coordinator.State) {
			s.PostScroll(fyne.Delta{}, fyne.NewDelta(0, 5), coordinator.SourceDrag)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, frames := newAnimatedState(t, 100, 0)
			a := s.StartAnimateToCollapsed(coordinator.Tween(100*time.Millisecond, nil))
			frames.Frames(5, 10*time.Millisecond)

			tt.gesture(s)
			afterGesture := s.CollapsedHeight()
			frames.Frames(10, 10*time.Millisecond)

			assert.False(t, a.Completed())
			assert.Equal(t, afterGesture, s.CollapsedHeight())
		})
	}
}

func TestAnimation_NewAnimationCancelsPrevious(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 50)

	first := s.StartAnimateToCollapsed(coordinator.Tween(100*time.Millisecond, nil))
	frames.Advance(20 * time.Millisecond)
	second := s.StartAnimateToExpanded(coordinator.Tween(100*time.Millisecond, nil))
	frames.Frames(10, 10*time.Millisecond)

	assert.False(t, first.Completed())
	assert.True(t, second.Completed())
	assert.InDelta(t, 0, s.CollapsedHeight(), 0.001)
}

func TestAnimation_ZeroDurationCompletesImmediately(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 10)

	a := s.StartAnimateToCollapsed(coordinator.AnimationSpec{})

	assert.True(t, a.Completed())
	assert.Equal(t, float32(100), s.CollapsedHeight())
	assert.Equal(t, 0, frames.Active())
}

func TestAnimation_LayoutChangeMidFlight(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 0)

	s.StartAnimateToCollapsed(coordinator.Tween(100*time.Millisecond, nil))
	frames.Frames(5, 10*time.Millisecond)
	s.SetMaxCollapsableHeight(40)
	assertInvariants(t, s)
	frames.Frames(10, 10*time.Millisecond)

	assertInvariants(t, s)
	assert.True(t, s.IsFullyCollapsed())
}

func TestAnimateToCollapsed_Blocks(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 0)

	result := make(chan bool, 1)
	go func() {
		result <- s.AnimateToCollapsed(context.Background(), coordinator.DefaultAnimationSpec())
	}()

	require.Eventually(t, func() bool { return frames.Active() == 1 }, time.Second, time.Millisecond)
	frames.Frames(10, frame)

	select {
	case completed := <-result:
		assert.True(t, completed)
	case <-time.After(time.Second):
		t.Fatal("AnimateToCollapsed did not return")
	}
	assert.Equal(t, float32(100), s.CollapsedHeight())
}

func TestAnimateToExpanded_ContextCancel(t *testing.T) {
	s, frames := newAnimatedState(t, 100, 100)
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan bool, 1)
	go func() {
		result <- s.AnimateToExpanded(ctx, coordinator.Tween(100*time.Millisecond, nil))
	}()

	require.Eventually(t, func() bool { return frames.Active() == 1 }, time.Second, time.Millisecond)
	frames.Frames(4, 10*time.Millisecond)
	cancel()

	select {
	case completed := <-result:
		assert.False(t, completed)
	case <-time.After(time.Second):
		t.Fatal("AnimateToExpanded did not return after cancel")
	}

	held := s.CollapsedHeight()
	assert.InDelta(t, 60, held, 0.001)
	frames.Frames(10, 10*time.Millisecond)
	assert.Equal(t, held, s.CollapsedHeight())
}

func TestAnimateTo_NoOffsetReturnsImmediately(t *testing.T) {
	s, _ := newAnimatedState(t, 100, 30)

	completed := s.AnimateTo(context.Background(), 50, coordinator.DefaultAnimationSpec())

	assert.True(t, completed)
	assert.Equal(t, float32(30), s.CollapsedHeight())
}

func TestCancelAnimation_NoActive(t *testing.T) {
	s, _ := newAnimatedState(t, 100, 30)
	assert.NotPanics(t, s.CancelAnimation)
}
