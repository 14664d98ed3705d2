// Package roster describes the fixed set of player slots a server offers:
// how many players may join, how fast they move and where each slot spawns.
package roster

import (
	"os"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/validate"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrMissingSpawnPoints is returned when there are fewer spawn points than player slots.
var ErrMissingSpawnPoints = errors.New("fewer spawn points than max players")

// Point is a spawn position.
type Point [2]float32

// Vec returns the point as a vector.
func (p Point) Vec() mgl32.Vec2 {
	return mgl32.Vec2{p[0], p[1]}
}

// Roster is the slot configuration of a server.
type Roster struct {
	MaxPlayers  int     `yaml:"max_players" validate:"min=1,max=255"`
	Speed       float32 `yaml:"speed" validate:"gt=0"`
	SpawnPoints []Point `yaml:"spawn_points"`
}

// Default returns the two player roster.
func Default() Roster {
	return Roster{
		MaxPlayers: 2,
		Speed:      entity.DefaultSpeed,
		SpawnPoints: []Point{
			{-3, -3},
			{3, 3},
		},
	}
}

// Load reads a roster from a YAML file. Fields missing from the file keep
// their default values.
func Load(path string) (Roster, error) {
	r := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return r, errors.Wrap(err, "read roster failed")
	}
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return r, errors.Wrapf(err, "parse roster %s failed", path)
	}
	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

// Validate checks every slot has a spawn point.
func (r Roster) Validate() error {
	if err := validate.Validate().Struct(r); err != nil {
		return errors.Wrap(err, "validate roster failed")
	}
	if len(r.SpawnPoints) < r.MaxPlayers {
		return ErrMissingSpawnPoints
	}
	return nil
}

// Spawn returns the spawn position of slot id.
func (r Roster) Spawn(id int) mgl32.Vec2 {
	if id < 0 || id >= len(r.SpawnPoints) {
		return mgl32.Vec2{}
	}
	return r.SpawnPoints[id].Vec()
}

// NewEntity creates the entity occupying slot id.
func (r Roster) NewEntity(id int) *entity.Entity {
	e := entity.New(id, r.Spawn(id))
	e.Speed = r.Speed
	return e
}
