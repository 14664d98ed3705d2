package apps

import (
	"testing"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/wire"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// applyLongInput joins one session and submits an input covering two seconds
// of movement, returning the entity's resulting x coordinate.
func applyLongInput(t *testing.T, maxInputSeconds int) float32 {
	t.Helper()
	app, err := NewServerApp()
	require.NoError(t, err)
	app.MaxInputSeconds = maxInputSeconds
	s, err := app.newServer()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.TearDown() })

	id, err := s.Admit("test", app.Secret)
	require.NoError(t, err)
	reply := s.RequestJoin(id)
	require.NoError(t, s.Update())
	res := <-reply
	require.NoError(t, res.Err)

	require.NoError(t, s.TrySubmit(id, wire.EncodeInput(entity.Input{
		Sequence: 1,
		EntityID: int32(res.EntityID),
		Move:     mgl32.Vec2{2, 0},
	})))
	require.NoError(t, s.Update())
	e, ok := s.Entity(res.EntityID)
	require.True(t, ok)
	return e.Position.X()
}

func TestServerAppAcceptsAllInputsByDefault(t *testing.T) {
	require.InDelta(t, 17, applyLongInput(t, 0), 1e-5)
}

func TestServerAppMaxInputSeconds(t *testing.T) {
	require.InDelta(t, -3, applyLongInput(t, 1), 1e-5)
}
