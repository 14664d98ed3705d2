package log

import (
	"testing"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/session"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	SetLogger("DEBUG")
	require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	SetLogger("bogus")
	require.Equal(t, logrus.ErrorLevel, logrus.GetLevel())
}

func TestFields(t *testing.T) {
	in := InputToFields(entity.Input{Sequence: 4, EntityID: 1, Move: mgl32.Vec2{0.5, -0.5}})
	require.Equal(t, int32(4), in["seq"])
	require.Equal(t, float32(-0.5), in["move_y"])

	st := EntityStateToFields(entity.EntityState{EntityID: 2, Position: mgl32.Vec2{1, 2}, LastProcessedInput: 9})
	require.Equal(t, int32(9), st["last_processed"])
	require.Equal(t, float32(2), st["y"])

	id := uuid.New()
	sess := SessionToFields(session.Session{ID: id, Remote: "r", State: session.Active, EntityID: 3})
	require.Equal(t, id.String(), sess["session"])
	require.Equal(t, session.Active.String(), sess["state"])
	require.Equal(t, 3, sess["entity"])
}
