package coordinator

import (
	"log/slog"
	"math"

	"github.com/shhac/coordinator/internal/domain"
)

// Save captures the two persisted fields of s.
func Save(s *State) domain.Snapshot {
	return domain.Snapshot{
		CollapsedHeight:      s.collapsedHeight,
		MaxCollapsableHeight: s.maxCollapsableHeight,
	}
}

// Restore rebuilds a State from a snapshot. The max goes through
// SetMaxCollapsableHeight, so a non-finite value leaves it Unbounded, and
// the fully collapsed flag is recomputed rather than stored.
func Restore(snap domain.Snapshot, frames FrameSource, logger *slog.Logger) *State {
	s := NewState(frames, logger)
	s.load(snap)
	return s
}

// RestoreFrom replaces the state of a live s with snap, cancelling any
// running animation. Unlike Restore it notifies listeners, so a layout
// showing s picks up the new height.
func (s *State) RestoreFrom(snap domain.Snapshot) {
	s.CancelAnimation()
	s.maxCollapsableHeight = Unbounded
	s.fullyCollapsed = false
	s.load(snap)
	s.commit(true)
}

func (s *State) load(snap domain.Snapshot) {
	collapsed := snap.CollapsedHeight
	if math.IsNaN(float64(collapsed)) || collapsed < 0 {
		collapsed = 0
	}
	s.collapsedHeight = collapsed
	s.SetMaxCollapsableHeight(snap.MaxCollapsableHeight)
	if s.collapsedHeight > s.maxCollapsableHeight {
		s.collapsedHeight = s.maxCollapsableHeight
	}
	s.fullyCollapsed = s.collapsedHeight >= s.maxCollapsableHeight

	s.logger.Debug("restored collapse state",
		slog.Float64("collapsed_height", float64(s.collapsedHeight)),
		slog.Float64("max_collapsable_height", float64(s.maxCollapsableHeight)),
		slog.Bool("fully_collapsed", s.fullyCollapsed))
}
