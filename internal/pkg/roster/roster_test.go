package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())
	require.Equal(t, mgl32.Vec2{-3, -3}, r.Spawn(0))
	require.Equal(t, mgl32.Vec2{3, 3}, r.Spawn(1))
	require.Equal(t, mgl32.Vec2{}, r.Spawn(2))
}

func TestLoad(t *testing.T) {
	path := writeRoster(t, `
max_players: 3
speed: 4.5
spawn_points:
  - [0, 0]
  - [5, -5]
  - [-5, 5]
`)
	r, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, r.MaxPlayers)
	require.Equal(t, float32(4.5), r.Speed)
	require.Equal(t, mgl32.Vec2{-5, 5}, r.Spawn(2))

	e := r.NewEntity(1)
	require.Equal(t, 1, e.ID)
	require.Equal(t, mgl32.Vec2{5, -5}, e.Position)
	require.Equal(t, float32(4.5), e.Speed)
}

func TestLoadKeepsDefaults(t *testing.T) {
	r, err := Load(writeRoster(t, "speed: 2\n"))
	require.NoError(t, err)
	require.Equal(t, 2, r.MaxPlayers)
	require.Len(t, r.SpawnPoints, 2)
}

func TestLoadMissingSpawnPoints(t *testing.T) {
	_, err := Load(writeRoster(t, "max_players: 4\n"))
	require.True(t, errors.Is(err, ErrMissingSpawnPoints))
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeRoster(t, "max_players: 0\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
