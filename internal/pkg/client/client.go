package client

import (
	"sort"
	"time"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/input"
	"netdemo/internal/pkg/interpolation"
	"netdemo/internal/pkg/log"
	"netdemo/internal/pkg/tick"
	"netdemo/internal/pkg/wire"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultTickRate is the default number of client updates per second.
const DefaultTickRate = 50

// DefaultServerTickRate is the server update rate assumed for interpolation.
const DefaultServerTickRate = 10

// Driver is the client end of a transport.
type Driver interface {
	// Send transmits an input to the server, preserving input order.
	Send(entity.Input) error
	// Poll returns every message received since the last call without blocking.
	Poll() ([]wire.Message, error)
	// RTT returns the last measured round trip time, or zero if unknown.
	RTT() time.Duration
	Close() error
}

// Renderer presents the entities after every update.
type Renderer interface {
	Render([]*entity.Entity)
}

// Identity is either Disconnected or Connected.
type Identity interface {
	identity()
}

// Disconnected is the identity of a client that has not been assigned an entity.
type Disconnected struct{}

// Connected is the identity of a client controlling EntityID.
type Connected struct {
	EntityID int
}

func (Disconnected) identity() {}
func (Connected) identity()    {}

// Synchronizer keeps the client view of the world in step with the server.
type Synchronizer struct {
	driver         Driver
	renderer       Renderer
	source         input.Source
	clock          tick.Clock
	throttle       *tick.Throttle
	serverTickRate int
	speed          float32

	prediction     bool
	reconciliation bool
	interpolation  bool

	identity Identity
	entities map[int]*entity.Entity
	pending  []entity.Input
	sequence int32
	lastMS   int64
	sampled  bool
	tornDown bool
}

// Cfg configures a Synchronizer.
type Cfg func(*Synchronizer) error

// WithDriver sets the transport driver.
func WithDriver(d Driver) Cfg {
	return func(s *Synchronizer) error {
		s.driver = d
		return nil
	}
}

// WithRenderer sets the renderer.
func WithRenderer(r Renderer) Cfg {
	return func(s *Synchronizer) error {
		s.renderer = r
		return nil
	}
}

// WithInputSource sets where the movement intent is read from.
func WithInputSource(src input.Source) Cfg {
	return func(s *Synchronizer) error {
		s.source = src
		return nil
	}
}

// WithClock sets the clock used for throttling, input deltas and interpolation.
func WithClock(c tick.Clock) Cfg {
	return func(s *Synchronizer) error {
		s.clock = c
		return nil
	}
}

// WithTickRate sets the number of client updates per second.
func WithTickRate(hz int) Cfg {
	return func(s *Synchronizer) error {
		if hz <= 0 {
			return errors.Errorf("tick rate must be positive, got %d", hz)
		}
		s.throttle = tick.NewThrottle(hz)
		return nil
	}
}

// WithServerTickRate sets the server update rate the interpolation delay is derived from.
func WithServerTickRate(hz int) Cfg {
	return func(s *Synchronizer) error {
		if hz <= 0 {
			return errors.Errorf("server tick rate must be positive, got %d", hz)
		}
		s.serverTickRate = hz
		return nil
	}
}

// WithSpeed sets the speed of the local mirrors. It must match the server roster.
func WithSpeed(speed float32) Cfg {
	return func(s *Synchronizer) error {
		if speed <= 0 {
			return errors.Errorf("speed must be positive, got %v", speed)
		}
		s.speed = speed
		return nil
	}
}

// WithPrediction toggles client-side prediction.
func WithPrediction(on bool) Cfg {
	return func(s *Synchronizer) error {
		s.prediction = on
		return nil
	}
}

// WithReconciliation toggles server reconciliation.
func WithReconciliation(on bool) Cfg {
	return func(s *Synchronizer) error {
		s.reconciliation = on
		return nil
	}
}

// WithInterpolation toggles entity interpolation.
func WithInterpolation(on bool) Cfg {
	return func(s *Synchronizer) error {
		s.interpolation = on
		return nil
	}
}

// NewSynchronizer creates a new Synchronizer with the given configuration.
func NewSynchronizer(cfgs ...Cfg) (*Synchronizer, error) {
	s := &Synchronizer{
		source:         input.Idle{},
		throttle:       tick.NewThrottle(DefaultTickRate),
		serverTickRate: DefaultServerTickRate,
		speed:          entity.DefaultSpeed,
		identity:       Disconnected{},
		entities:       make(map[int]*entity.Entity),
	}
	for _, cfg := range cfgs {
		if err := cfg(s); err != nil {
			return nil, errors.Wrap(err, "apply Synchronizer cfg failed")
		}
	}
	if s.driver == nil {
		return nil, ErrMissingDriver
	}
	if s.clock == nil {
		s.clock = tick.NewSystemClock()
	}
	return s, nil
}

// SetTickRate changes the number of client updates per second.
func (s *Synchronizer) SetTickRate(hz int) {
	s.throttle.SetRate(hz)
}

// SetIntent holds the given intent until it is changed.
func (s *Synchronizer) SetIntent(i input.Intent) {
	s.source = input.Held(i)
}

// Identity returns the current identity.
func (s *Synchronizer) Identity() Identity {
	return s.identity
}

// Entity returns the local mirror of entity id.
func (s *Synchronizer) Entity(id int) (*entity.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns the local mirrors in id order.
func (s *Synchronizer) Entities() []*entity.Entity {
	ids := make([]int, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*entity.Entity, len(ids))
	for i, id := range ids {
		out[i] = s.entities[id]
	}
	return out
}

// Pending returns a copy of the inputs not yet acknowledged by the server.
func (s *Synchronizer) Pending() []entity.Input {
	return append([]entity.Input(nil), s.pending...)
}

// RTT returns the round trip time reported by the driver.
func (s *Synchronizer) RTT() time.Duration {
	return s.driver.RTT()
}

// Tick runs one update if the update period has elapsed.
func (s *Synchronizer) Tick() error {
	if s.tornDown {
		return ErrTornDown
	}
	if !s.throttle.Ready(s.clock.NowMS()) {
		return nil
	}
	return s.Update()
}

// Update runs one client update regardless of the throttle.
func (s *Synchronizer) Update() error {
	if s.tornDown {
		return ErrTornDown
	}
	nowMS := s.clock.NowMS()

	msgs, err := s.driver.Poll()
	for _, msg := range msgs {
		s.handleMessage(nowMS, msg)
	}
	if err != nil {
		return errors.Wrap(err, "poll server messages failed")
	}

	self, ok := s.identity.(Connected)
	if !ok {
		return nil
	}
	if err := s.processInput(nowMS, self.EntityID); err != nil {
		return errors.Wrap(err, "process input failed")
	}
	if s.interpolation {
		s.interpolate(nowMS, self.EntityID)
	}
	if s.renderer != nil {
		s.renderer.Render(s.Entities())
	}
	return nil
}

func (s *Synchronizer) handleMessage(nowMS int64, msg wire.Message) {
	switch m := msg.(type) {
	case wire.Connected:
		id := int(m.EntityID)
		s.identity = Connected{EntityID: id}
		if _, ok := s.entities[id]; !ok {
			s.entities[id] = s.newMirror(id, mgl32.Vec2{})
		}
		logger.WithField("entity", id).Info("connected")
	case wire.WorldState:
		s.applyWorldState(nowMS, m.WorldState)
	default:
		logger.WithField("type", msg.Type().String()).Debug("ignoring unexpected message")
	}
}

func (s *Synchronizer) applyWorldState(nowMS int64, ws entity.WorldState) {
	self, connected := s.identity.(Connected)
	for _, slot := range ws.Slots {
		if !slot.Present {
			continue
		}
		state := slot.State
		id := int(state.EntityID)
		e, ok := s.entities[id]
		if !ok {
			e = s.newMirror(id, state.Position)
			s.entities[id] = e
		}

		if connected && id == self.EntityID {
			s.reconcile(e, state)
			continue
		}
		if s.interpolation {
			interpolation.Push(e, nowMS, state.Position)
		} else {
			e.Position = state.Position
		}
	}
}

func (s *Synchronizer) newMirror(id int, pos mgl32.Vec2) *entity.Entity {
	e := entity.New(id, pos)
	e.Speed = s.speed
	return e
}

// reconcile moves the own entity to its authoritative state and replays the
// inputs the server has not processed yet.
func (s *Synchronizer) reconcile(e *entity.Entity, state entity.EntityState) {
	e.Position = state.Position
	if !s.reconciliation {
		s.pending = s.pending[:0]
		return
	}
	kept := s.pending[:0]
	for _, in := range s.pending {
		if in.Sequence <= state.LastProcessedInput {
			continue
		}
		e.ApplyInput(in)
		kept = append(kept, in)
	}
	s.pending = kept
	logger.WithFields(log.EntityStateToFields(state)).WithField("pending", len(s.pending)).Trace("reconciled")
}

func (s *Synchronizer) processInput(nowMS int64, entityID int) error {
	last := nowMS
	if s.sampled {
		last = s.lastMS
	}
	s.lastMS, s.sampled = nowMS, true
	dt := float32(nowMS-last) / 1000

	move := s.source.Intent(nowMS).Direction().Mul(dt)
	if move == (mgl32.Vec2{}) {
		return nil
	}
	s.sequence++
	in := entity.Input{Sequence: s.sequence, EntityID: int32(entityID), Move: move}
	err := s.driver.Send(in)
	s.pending = append(s.pending, in)
	if s.prediction {
		if e, ok := s.entities[entityID]; ok {
			e.ApplyInput(in)
		}
	}
	if err != nil {
		return errors.Wrapf(err, "send input %d failed", in.Sequence)
	}
	logger.WithFields(log.InputToFields(in)).Trace("sent input")
	return nil
}

func (s *Synchronizer) interpolate(nowMS int64, self int) {
	renderMS := interpolation.RenderTimestamp(nowMS, s.serverTickRate)
	for id, e := range s.entities {
		if id == self {
			continue
		}
		interpolation.Sample(e, renderMS)
	}
}

// TearDown clears the identity and closes the driver. Later ticks fail with ErrTornDown.
func (s *Synchronizer) TearDown() error {
	if s.tornDown {
		return nil
	}
	s.tornDown = true
	s.identity = Disconnected{}
	return errors.Wrap(s.driver.Close(), "close driver failed")
}
