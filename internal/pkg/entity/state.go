package entity

import "github.com/go-gl/mathgl/mgl32"

// EntityState is the authoritative state of one entity as seen by the server.
type EntityState struct {
	EntityID           int32
	Position           mgl32.Vec2
	LastProcessedInput int32
}

// Slot is one fixed position of a WorldState. Absent slots carry no state.
type Slot struct {
	Present bool
	State   EntityState
}

// WorldState is a full snapshot of every entity slot.
type WorldState struct {
	Slots []Slot
}

// NewWorldState returns a WorldState with n absent slots.
func NewWorldState(n int) WorldState {
	return WorldState{Slots: make([]Slot, n)}
}

// Set marks slot i present with the given state.
func (w WorldState) Set(i int, state EntityState) {
	w.Slots[i] = Slot{Present: true, State: state}
}

// States returns the states of all present slots in slot order.
func (w WorldState) States() []EntityState {
	out := make([]EntityState, 0, len(w.Slots))
	for _, s := range w.Slots {
		if s.Present {
			out = append(out, s.State)
		}
	}
	return out
}
