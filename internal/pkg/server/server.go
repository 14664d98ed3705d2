package server

import (
	"context"
	"crypto/subtle"
	"sync"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/log"
	"netdemo/internal/pkg/record"
	"netdemo/internal/pkg/roster"
	"netdemo/internal/pkg/session"
	"netdemo/internal/pkg/tick"
	"netdemo/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultTickRate is the default number of server updates per second.
const DefaultTickRate = 10

// DefaultInboxSize is the default number of queued events the server buffers between ticks.
const DefaultInboxSize = 1024

// Recorder journals authoritative snapshots.
type Recorder interface {
	Write(record.Entry) error
	Close() error
}

// JoinResult is the outcome of a join request.
type JoinResult struct {
	EntityID int
	// Frames receives the encoded snapshots for the session, in order.
	// It is closed when the session is dropped or the server is torn down.
	Frames <-chan []byte
	Err    error
}

type joinEvent struct {
	session uuid.UUID
	reply   chan JoinResult
}

type leaveEvent struct {
	session uuid.UUID
}

type inputEvent struct {
	session uuid.UUID
	input   entity.Input
}

// Server is the authoritative simulation.
type Server struct {
	roster    roster.Roster
	secret    string
	tickRate  int
	clock     tick.Clock
	throttle  *tick.Throttle
	store     session.Store
	hub       *Hub
	validator Validator
	recorder  Recorder
	inboxSize int
	queueSize int

	inbox    chan interface{}
	done     chan struct{}
	tearDown sync.Once

	entities      []*entity.Entity
	lastProcessed []int32
	ticks         uint64
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithRoster sets the player slots.
func WithRoster(r roster.Roster) Cfg {
	return func(s *Server) error {
		if err := r.Validate(); err != nil {
			return errors.Wrap(err, "invalid roster")
		}
		s.roster = r
		return nil
	}
}

// WithSecret sets the handshake secret.
func WithSecret(secret string) Cfg {
	return func(s *Server) error {
		if secret == "" {
			return errors.New("secret must not be empty")
		}
		s.secret = secret
		return nil
	}
}

// WithTickRate sets the number of server updates per second.
func WithTickRate(hz int) Cfg {
	return func(s *Server) error {
		if hz <= 0 {
			return errors.Errorf("tick rate must be positive, got %d", hz)
		}
		s.tickRate = hz
		return nil
	}
}

// WithClock sets the clock used to throttle updates.
func WithClock(c tick.Clock) Cfg {
	return func(s *Server) error {
		s.clock = c
		return nil
	}
}

// WithSessionStore sets the session store for the server.
func WithSessionStore(store session.Store) Cfg {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithValidator sets the input validation hook.
func WithValidator(v Validator) Cfg {
	return func(s *Server) error {
		s.validator = v
		return nil
	}
}

// WithRecorder journals every snapshot.
func WithRecorder(r Recorder) Cfg {
	return func(s *Server) error {
		s.recorder = r
		return nil
	}
}

// WithInboxSize sets how many events may be queued between ticks.
func WithInboxSize(n int) Cfg {
	return func(s *Server) error {
		s.inboxSize = n
		return nil
	}
}

// WithQueueSize sets how many snapshots are buffered per session.
func WithQueueSize(n int) Cfg {
	return func(s *Server) error {
		s.queueSize = n
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	s := &Server{
		roster:    roster.Default(),
		tickRate:  DefaultTickRate,
		validator: AcceptAll(),
		inboxSize: DefaultInboxSize,
		queueSize: DefaultQueueSize,
	}
	for _, cfg := range cfgs {
		if err := cfg(s); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	if s.secret == "" {
		return nil, errors.New("server requires a secret")
	}
	if s.clock == nil {
		s.clock = tick.NewSystemClock()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	s.throttle = tick.NewThrottle(s.tickRate)
	s.hub = NewHub(s.queueSize)
	s.inbox = make(chan interface{}, s.inboxSize)
	s.done = make(chan struct{})
	s.entities = make([]*entity.Entity, s.roster.MaxPlayers)
	s.lastProcessed = make([]int32, s.roster.MaxPlayers)
	return s, nil
}

// TickRate returns the number of server updates per second.
func (s *Server) TickRate() int {
	return s.tickRate
}

// Sessions returns the session store.
func (s *Server) Sessions() session.Store {
	return s.store
}

// Approve reports whether secret matches the shared secret.
func (s *Server) Approve(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		return ErrHandshakeDenied
	}
	return nil
}

// Admit opens a session for a connection presenting secret. A denied
// session is dropped from the store.
func (s *Server) Admit(remote, secret string) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.store.New(id, remote); err != nil {
		return uuid.Nil, errors.Wrap(err, "new session failed")
	}
	if err := s.Approve(secret); err != nil {
		_ = s.store.Clear(id)
		logger.WithFields(logrus.Fields{"session": id.String(), "remote": remote}).Info("connection denied")
		return uuid.Nil, err
	}
	if err := s.store.Approve(id); err != nil {
		return uuid.Nil, errors.Wrap(err, "approve session failed")
	}
	logger.WithFields(logrus.Fields{"session": id.String(), "remote": remote}).Info("connection approved")
	return id, nil
}

// RequestJoin queues a join request without blocking. The result is
// delivered on the returned channel by a later Tick.
func (s *Server) RequestJoin(id uuid.UUID) <-chan JoinResult {
	reply := make(chan JoinResult, 1)
	select {
	case s.inbox <- joinEvent{session: id, reply: reply}:
	case <-s.done:
		reply <- JoinResult{Err: ErrTornDown}
	default:
		reply <- JoinResult{Err: ErrInboxFull}
	}
	return reply
}

// Join queues a join request and waits for a Tick to serve it.
func (s *Server) Join(ctx context.Context, id uuid.UUID) (JoinResult, error) {
	reply := make(chan JoinResult, 1)
	if err := s.post(ctx, joinEvent{session: id, reply: reply}); err != nil {
		return JoinResult{}, err
	}
	select {
	case <-ctx.Done():
		return JoinResult{}, ctx.Err()
	case <-s.done:
		return JoinResult{}, ErrTornDown
	case res := <-reply:
		return res, res.Err
	}
}

// Submit decodes a client frame and queues it, waiting for inbox space.
func (s *Server) Submit(ctx context.Context, id uuid.UUID, frame []byte) error {
	ev, err := s.decode(id, frame)
	if err != nil || ev == nil {
		return err
	}
	return s.post(ctx, ev)
}

// TrySubmit is Submit without waiting; it fails with ErrInboxFull instead.
func (s *Server) TrySubmit(id uuid.UUID, frame []byte) error {
	ev, err := s.decode(id, frame)
	if err != nil || ev == nil {
		return err
	}
	select {
	case s.inbox <- ev:
		return nil
	case <-s.done:
		return ErrTornDown
	default:
		return ErrInboxFull
	}
}

// Leave queues the end of a session.
func (s *Server) Leave(id uuid.UUID) {
	select {
	case s.inbox <- leaveEvent{session: id}:
	case <-s.done:
	}
}

func (s *Server) decode(id uuid.UUID, frame []byte) (interface{}, error) {
	msg, err := wire.DecodeClientMessage(frame)
	if err != nil {
		return nil, errors.Wrap(err, "decode client frame failed")
	}
	switch m := msg.(type) {
	case wire.Input:
		return inputEvent{session: id, input: m.Input}, nil
	case wire.Join:
		// joins are requested explicitly by the transport
		logger.WithField("session", id.String()).Debug("ignoring repeated join")
	}
	return nil, nil
}

func (s *Server) post(ctx context.Context, ev interface{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrTornDown
	case s.inbox <- ev:
		return nil
	}
}

// GetFreeEntityID returns the smallest unused entity slot.
func (s *Server) GetFreeEntityID() (int, error) {
	for i, e := range s.entities {
		if e == nil {
			return i, nil
		}
	}
	return 0, ErrCapacityExhausted
}

// CreateEntity places a new entity in slot id at its spawn point.
func (s *Server) CreateEntity(id int) *entity.Entity {
	e := s.roster.NewEntity(id)
	s.entities[id] = e
	return e
}

// Entity returns the entity in slot id.
func (s *Server) Entity(id int) (*entity.Entity, bool) {
	if id < 0 || id >= len(s.entities) || s.entities[id] == nil {
		return nil, false
	}
	return s.entities[id], true
}

// LastProcessedInput returns the highest input sequence applied to entity id.
func (s *Server) LastProcessedInput(id int) int32 {
	if id < 0 || id >= len(s.lastProcessed) {
		return 0
	}
	return s.lastProcessed[id]
}

// Tick runs one update if the update period has elapsed.
func (s *Server) Tick() error {
	select {
	case <-s.done:
		return ErrTornDown
	default:
	}
	if !s.throttle.Ready(s.clock.NowMS()) {
		return nil
	}
	return s.Update()
}

// Update drains the inbox, applies inputs and broadcasts a snapshot.
func (s *Server) Update() error {
	select {
	case <-s.done:
		return ErrTornDown
	default:
	}
	s.processInbox()
	s.ticks++

	ws := s.WorldState()
	for _, id := range s.hub.Broadcast(wire.EncodeWorldState(ws)) {
		logger.WithField("session", id.String()).Warn("dropping session with full outbound queue")
	}
	if s.recorder != nil {
		entry, err := record.NewEntry(s.ticks, s.clock.NowMS(), ws.States())
		if err != nil {
			return errors.Wrap(err, "build journal entry failed")
		}
		if err := s.recorder.Write(entry); err != nil {
			logger.WithError(err).Warn("journal write failed")
		}
	}
	return nil
}

// processInbox drains the events queued before the call, never waiting for new ones.
func (s *Server) processInbox() {
	n := len(s.inbox)
	for i := 0; i < n; i++ {
		switch ev := (<-s.inbox).(type) {
		case joinEvent:
			ev.reply <- s.handleJoin(ev.session)
		case leaveEvent:
			s.handleLeave(ev.session)
		case inputEvent:
			s.handleInput(ev.session, ev.input)
		}
	}
}

func (s *Server) handleJoin(id uuid.UUID) JoinResult {
	sess, err := s.store.Get(id)
	if err != nil {
		return JoinResult{Err: errors.Wrap(err, "get session failed")}
	}
	if sess.State != session.Approved {
		return JoinResult{Err: errors.Wrapf(ErrNotApproved, "session is %s", sess.State)}
	}
	entityID, err := s.GetFreeEntityID()
	if err != nil {
		_ = s.store.Disconnect(id)
		logger.WithFields(log.SessionToFields(sess)).Warn("no free entity slot")
		return JoinResult{Err: err}
	}
	s.CreateEntity(entityID)
	if err := s.store.Activate(id, entityID); err != nil {
		return JoinResult{Err: errors.Wrap(err, "activate session failed")}
	}
	sess.State, sess.EntityID = session.Active, entityID
	logger.WithFields(log.SessionToFields(sess)).Info("entity created")
	return JoinResult{EntityID: entityID, Frames: s.hub.Register(id)}
}

func (s *Server) handleLeave(id uuid.UUID) {
	s.hub.Unregister(id)
	if err := s.store.Disconnect(id); err != nil {
		logger.WithError(err).WithField("session", id.String()).Debug("disconnect session failed")
		return
	}
	logger.WithField("session", id.String()).Info("disconnection")
}

func (s *Server) handleInput(id uuid.UUID, in entity.Input) {
	e, ok := s.Entity(int(in.EntityID))
	if !ok {
		return
	}
	if !s.validator.Validate(e, in) {
		logger.WithFields(log.InputToFields(in)).WithField("session", id.String()).Debug("input rejected")
		return
	}
	e.ApplyInput(in)
	if in.Sequence > s.lastProcessed[e.ID] {
		s.lastProcessed[e.ID] = in.Sequence
	}
}

// WorldState builds a snapshot of every live entity.
func (s *Server) WorldState() entity.WorldState {
	ws := entity.NewWorldState(len(s.entities))
	for i, e := range s.entities {
		if e == nil {
			continue
		}
		ws.Set(i, entity.EntityState{
			EntityID:           int32(e.ID),
			Position:           e.Position,
			LastProcessedInput: s.lastProcessed[i],
		})
	}
	return ws
}

// TearDown stops the server: queues are closed and later ticks fail with ErrTornDown.
func (s *Server) TearDown() error {
	var err error
	s.tearDown.Do(func() {
		close(s.done)
		s.hub.Close()
		if s.recorder != nil {
			err = errors.Wrap(s.recorder.Close(), "close journal failed")
		}
	})
	return err
}
