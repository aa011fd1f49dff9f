package model

import "fyne.io/fyne/v2/data/binding"

// HeaderState mirrors a collapsing header's state into Fyne data bindings.
// Display widgets bind to these values; writes go through the coordinator,
// never through these bindings.
type HeaderState struct {
	CollapsedHeight      binding.Float
	MaxCollapsableHeight binding.Float
	FullyCollapsed       binding.Bool
	Animating            binding.Bool
}

// NewHeaderState creates a new HeaderState with initialized bindings.
func NewHeaderState() *HeaderState {
	return &HeaderState{
		CollapsedHeight:      binding.NewFloat(),
		MaxCollapsableHeight: binding.NewFloat(),
		FullyCollapsed:       binding.NewBool(),
		Animating:            binding.NewBool(),
	}
}

// StorageUIState represents the UI state for persistence status display.
// States: "idle", "restored", "saved", "error"
type StorageUIState struct {
	State   binding.String
	Message binding.String
}

// NewStorageUIState creates a new StorageUIState with initialized bindings.
func NewStorageUIState() *StorageUIState {
	state := binding.NewString()
	_ = state.Set("idle")

	return &StorageUIState{
		State:   state,
		Message: binding.NewString(),
	}
}
