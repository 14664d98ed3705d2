package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestApplyInput(t *testing.T) {
	e := New(0, mgl32.Vec2{-3, -3})
	e.ApplyInput(Input{Sequence: 1, Move: mgl32.Vec2{0.1, 0}})
	require.InDelta(t, -2, e.Position.X(), 1e-6)
	require.InDelta(t, -3, e.Position.Y(), 1e-6)
}

func TestApplyInputDeterministic(t *testing.T) {
	inputs := []Input{
		{Sequence: 1, Move: mgl32.Vec2{0.02, 0}},
		{Sequence: 2, Move: mgl32.Vec2{0.0141, 0.0141}},
		{Sequence: 3, Move: mgl32.Vec2{-0.017, 0.003}},
	}
	a := New(1, mgl32.Vec2{3, 3})
	b := New(1, mgl32.Vec2{3, 3})
	for _, in := range inputs {
		a.ApplyInput(in)
	}
	for _, in := range inputs {
		b.ApplyInput(in)
	}
	// bit-identical, not merely close
	require.Equal(t, a.Position, b.Position)
}

func TestApplyInputInOrder(t *testing.T) {
	i1 := Input{Sequence: 1, Move: mgl32.Vec2{0.5, 0}}
	i2 := Input{Sequence: 2, Move: mgl32.Vec2{0, 0.25}}

	seq := New(0, mgl32.Vec2{})
	seq.ApplyInput(i1)
	seq.ApplyInput(i2)

	step := New(0, mgl32.Vec2{})
	step.ApplyInput(i1)
	mid := step.Position
	step.ApplyInput(i2)

	require.Equal(t, mgl32.Vec2{5, 0}, mid)
	require.Equal(t, seq.Position, step.Position)
	require.Equal(t, mgl32.Vec2{5, 2.5}, step.Position)
}

func TestWorldStateStates(t *testing.T) {
	ws := NewWorldState(3)
	ws.Set(2, EntityState{EntityID: 2, Position: mgl32.Vec2{1, 1}, LastProcessedInput: 4})
	ws.Set(0, EntityState{EntityID: 0})
	states := ws.States()
	require.Len(t, states, 2)
	require.Equal(t, int32(0), states[0].EntityID)
	require.Equal(t, int32(2), states[1].EntityID)
	require.False(t, ws.Slots[1].Present)
}
