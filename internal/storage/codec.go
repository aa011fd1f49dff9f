package storage

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/shhac/coordinator/internal/domain"
	apperrors "github.com/shhac/coordinator/internal/errors"
)

// Codec converts snapshots to and from bytes.
type Codec interface {
	Encode(snap domain.Snapshot) ([]byte, error)
	Decode(data []byte) (domain.Snapshot, error)
}

// JSONCodec encodes a snapshot as the JSON array
// [collapsedHeight, maxCollapsableHeight].
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(snap domain.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// Decode implements Codec.
func (JSONCodec) Decode(data []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidSnapshot, err)
	}
	return snap, nil
}

// ProtoCodec encodes a snapshot as a protobuf google.protobuf.ListValue
// holding the same two numbers as the JSON form.
type ProtoCodec struct{}

// Encode implements Codec.
func (ProtoCodec) Encode(snap domain.Snapshot) ([]byte, error) {
	list, err := structpb.NewList([]any{
		float64(snap.CollapsedHeight),
		float64(snap.MaxCollapsableHeight),
	})
	if err != nil {
		return nil, fmt.Errorf("build list value: %w", err)
	}
	data, err := proto.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal list value: %w", err)
	}
	return data, nil
}

// Decode implements Codec.
func (ProtoCodec) Decode(data []byte) (domain.Snapshot, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(data, &list); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidSnapshot, err)
	}

	values := list.GetValues()
	if len(values) != 2 {
		return domain.Snapshot{}, fmt.Errorf("%w: want 2 values, got %d", apperrors.ErrInvalidSnapshot, len(values))
	}
	var pair [2]float32
	for i, v := range values {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return domain.Snapshot{}, fmt.Errorf("%w: value %d is not a number", apperrors.ErrInvalidSnapshot, i)
		}
		pair[i] = float32(n.NumberValue)
	}
	return domain.SnapshotFromPair(pair), nil
}
