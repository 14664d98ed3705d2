// Package handler serves one admitted client connection on the server side,
// independent of the transport carrying its frames.
package handler

import (
	"context"
	"io"

	"netdemo/internal/pkg/server"
	"netdemo/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// ErrExpectedJoin indicates that the first frame of a connection was not a join request.
var ErrExpectedJoin = errors.New("expected join request")

// ErrSessionClosed indicates that the server stopped sending snapshots to the session.
var ErrSessionClosed = errors.New("session closed")

// Conn carries binary frames. Recv returns io.EOF once the peer has hung up.
type Conn interface {
	Recv() ([]byte, error)
	Send([]byte) error
}

// Handler pumps frames between a Conn and the server for one session.
type Handler struct {
	server    *server.Server
	sessionID uuid.UUID
}

// HandlerCfg configures a Handler.
type HandlerCfg func(*Handler) error

// WithServer sets the server the session belongs to.
func WithServer(s *server.Server) HandlerCfg {
	return func(h *Handler) error {
		h.server = s
		return nil
	}
}

// WithSessionID sets the admitted session.
func WithSessionID(id uuid.UUID) HandlerCfg {
	return func(h *Handler) error {
		h.sessionID = id
		return nil
	}
}

// NewHandler creates a new Handler.
func NewHandler(cfgs ...HandlerCfg) (*Handler, error) {
	h := &Handler{}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply handler cfg failed")
		}
	}
	if h.server == nil {
		return nil, errors.New("handler requires a server")
	}
	if h.sessionID == uuid.Nil {
		return nil, errors.New("handler requires a session")
	}
	return h, nil
}

// Run waits for the join request, reports the assigned entity and then
// forwards inputs to the server and snapshots to the client until either side
// hangs up or ctx is done. The session is left when Run returns.
func (h *Handler) Run(ctx context.Context, conn Conn) error {
	defer h.server.Leave(h.sessionID)
	fields := logrus.Fields{"session": h.sessionID.String()}

	first, err := conn.Recv()
	if err != nil {
		return errors.Wrap(err, "receive join request failed")
	}
	msg, err := wire.DecodeClientMessage(first)
	if err != nil {
		return errors.Wrap(err, "decode join request failed")
	}
	if _, ok := msg.(wire.Join); !ok {
		return errors.Wrapf(ErrExpectedJoin, "got %s", msg.Type())
	}
	res, err := h.server.Join(ctx, h.sessionID)
	if err != nil {
		return errors.Wrap(err, "join failed")
	}
	if err := conn.Send(wire.EncodeConnected(int32(res.EntityID))); err != nil {
		return errors.Wrap(err, "send connected failed")
	}
	logger.WithFields(fields).WithField("entity", res.EntityID).Info("client joined")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	recvErr := make(chan error, 1)
	go func() {
		recvErr <- h.recv(ctx, conn)
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-recvErr:
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				logger.WithFields(fields).Info("client hung up")
				return nil
			}
			return err
		case frame, ok := <-res.Frames:
			if !ok {
				return ErrSessionClosed
			}
			if err := conn.Send(frame); err != nil {
				return errors.Wrap(err, "send snapshot failed")
			}
		}
	}
}

// recv submits every received frame. Malformed frames are dropped.
func (h *Handler) recv(ctx context.Context, conn Conn) error {
	for {
		frame, err := conn.Recv()
		if err != nil {
			return err
		}
		err = h.server.Submit(ctx, h.sessionID, frame)
		switch {
		case err == nil:
		case errors.Is(err, server.ErrTornDown), errors.Is(err, ctx.Err()):
			return err
		default:
			logger.WithError(err).WithField("session", h.sessionID.String()).Debug("dropping client frame")
		}
	}
}
