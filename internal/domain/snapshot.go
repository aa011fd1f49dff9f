package domain

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/shhac/coordinator/internal/errors"
)

// Snapshot is the persisted form of a header's collapse state. It encodes
// as the ordered pair [collapsedHeight, maxCollapsableHeight]; whether the
// header is fully collapsed is always recomputed on restore.
type Snapshot struct {
	CollapsedHeight      float32
	MaxCollapsableHeight float32
}

// Pair returns the snapshot as its two ordered fields.
func (s Snapshot) Pair() [2]float32 {
	return [2]float32{s.CollapsedHeight, s.MaxCollapsableHeight}
}

// SnapshotFromPair builds a Snapshot from an ordered pair.
func SnapshotFromPair(pair [2]float32) Snapshot {
	return Snapshot{CollapsedHeight: pair[0], MaxCollapsableHeight: pair[1]}
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Pair())
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than an array
// of exactly two numbers is rejected.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var values []float32
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidSnapshot, err)
	}
	if len(values) != 2 {
		return fmt.Errorf("%w: want 2 values, got %d", apperrors.ErrInvalidSnapshot, len(values))
	}
	*s = SnapshotFromPair([2]float32{values[0], values[1]})
	return nil
}
