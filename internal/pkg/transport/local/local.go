// Package local connects a client to a server running in the same process.
//
// Frames still go through the wire codec so that host mode exercises the
// same encoding as the networked transports.
package local

import (
	"time"

	"netdemo/internal/pkg/client"
	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/server"
	"netdemo/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Driver is a client.Driver calling straight into a server.
type Driver struct {
	server    *server.Server
	sessionID uuid.UUID
	join      <-chan server.JoinResult
	frames    <-chan []byte
	closed    bool
}

// Dial admits a session presenting secret and requests a join, which the
// server serves on its next update.
func Dial(s *server.Server, secret string) (*Driver, error) {
	id, err := s.Admit("local", secret)
	if errors.Is(err, server.ErrHandshakeDenied) {
		return nil, client.ErrConnectionDenied
	}
	if err != nil {
		return nil, errors.Wrap(err, "admit local session failed")
	}
	return &Driver{
		server:    s,
		sessionID: id,
		join:      s.RequestJoin(id),
	}, nil
}

// Send queues the input on the server.
func (d *Driver) Send(in entity.Input) error {
	if d.closed {
		return client.ErrConnectionClosed
	}
	return errors.Wrap(d.server.TrySubmit(d.sessionID, wire.EncodeInput(in)), "submit input failed")
}

// Poll returns the join outcome once served, then every queued snapshot.
func (d *Driver) Poll() ([]wire.Message, error) {
	if d.closed {
		return nil, client.ErrConnectionClosed
	}
	var out []wire.Message
	if d.frames == nil {
		select {
		case res := <-d.join:
			if errors.Is(res.Err, server.ErrCapacityExhausted) {
				return nil, client.ErrServerFull
			}
			if res.Err != nil {
				return nil, errors.Wrap(res.Err, "join failed")
			}
			d.frames = res.Frames
			out = append(out, wire.Connected{EntityID: int32(res.EntityID)})
		default:
			return nil, nil
		}
	}
	for {
		select {
		case frame, ok := <-d.frames:
			if !ok {
				return out, client.ErrConnectionClosed
			}
			msg, err := wire.DecodeServerMessage(frame)
			if err != nil {
				logger.WithError(err).Warn("dropping server frame")
				continue
			}
			out = append(out, msg)
		default:
			return out, nil
		}
	}
}

// RTT is always zero in process.
func (d *Driver) RTT() time.Duration {
	return 0
}

// Close leaves the session.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.server.Leave(d.sessionID)
	return nil
}
