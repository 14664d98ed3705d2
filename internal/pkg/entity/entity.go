// Package entity defines the simulated entities and the deterministic
// input application shared by client prediction, reconciliation replay and
// authoritative server simulation.
package entity

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSpeed is the entity speed in units per second.
const DefaultSpeed float32 = 10

// Input is a single movement command issued by the client owning EntityID.
// Move is already scaled by the elapsed time of the client frame.
type Input struct {
	Sequence int32
	EntityID int32
	Move     mgl32.Vec2
}

// Entity is a player controlled object.
type Entity struct {
	ID       int
	Position mgl32.Vec2
	Speed    float32

	// Buffer holds authoritative positions of a remote entity awaiting interpolation.
	Buffer []TimedPosition
}

// TimedPosition is an authoritative position stamped with its local arrival time.
type TimedPosition struct {
	TimestampMS int64
	Position    mgl32.Vec2
}

// New creates an entity at the given position moving at DefaultSpeed.
func New(id int, position mgl32.Vec2) *Entity {
	return &Entity{
		ID:       id,
		Position: position,
		Speed:    DefaultSpeed,
	}
}

// ApplyInput moves the entity by the input's move vector scaled by its speed.
func (e *Entity) ApplyInput(in Input) {
	e.Position = e.Position.Add(in.Move.Mul(e.Speed))
}
