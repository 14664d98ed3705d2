package checksum

import (
	"testing"

	"netdemo/internal/pkg/entity"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

var states = []entity.EntityState{
	{EntityID: 0, Position: mgl32.Vec2{-3, -3}, LastProcessedInput: 12},
	{EntityID: 1, Position: mgl32.Vec2{3, 3.5}, LastProcessedInput: 0},
}

func TestSumDeterministic(t *testing.T) {
	a, err := Sum(states...)
	require.NoError(t, err)
	b, err := Sum(states...)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NoError(t, Verify(a, states...))
}

func TestSumSensitiveToOrderAndValue(t *testing.T) {
	a, err := Sum(states...)
	require.NoError(t, err)

	b, err := Sum(states[1], states[0])
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	changed := append([]entity.EntityState(nil), states...)
	changed[1].Position[0] += 0.001
	require.ErrorIs(t, Verify(a, changed...), ErrChecksumMismatch)
}

func TestSumTooMany(t *testing.T) {
	_, err := Sum(make([]entity.EntityState, 1<<16)...)
	require.ErrorIs(t, err, ErrTooManyStates)
}
