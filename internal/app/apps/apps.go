// Package apps implements the runnable applications behind the CLI commands.
//
// Every app is built from a list of cfgs (see the cfg package), validated
// with struct tags and then run until its context is cancelled.
package apps

import (
	"context"
	"net"
	"time"

	"netdemo/internal/pkg/server"
	"netdemo/internal/pkg/tick"
	"netdemo/internal/pkg/transport/rpc"
	"netdemo/internal/pkg/transport/ws"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Transports.
const (
	TransportGRPC      = "grpc"
	TransportWebSocket = "ws"
)

// App is a runnable application.
type App interface {
	Run(ctx context.Context, args []string) error
}

// Features holds the client synchronization switches.
type Features struct {
	Prediction     bool
	Reconciliation bool
	Interpolation  bool
}

// listener serves a server.Server over one transport.
type listener interface {
	Serve(net.Listener) error
	Stop()
}

type wsListener struct {
	*ws.Server
}

func (l wsListener) Stop() {
	_ = l.Close()
}

func newListener(transport string, s *server.Server) (listener, error) {
	switch transport {
	case TransportGRPC:
		r, err := rpc.NewServer(rpc.WithServer(s))
		if err != nil {
			return nil, err
		}
		return r, nil
	case TransportWebSocket:
		w, err := ws.NewServer(ws.WithServer(s))
		if err != nil {
			return nil, err
		}
		return wsListener{w}, nil
	}
	return nil, errors.Errorf("unknown transport %q", transport)
}

// serve runs the server update loop and the network listener until ctx is
// done or either of them fails.
func serve(ctx context.Context, s *server.Server, transport, addr string, loop time.Duration, extra ...func() error) error {
	l, err := newListener(transport, s)
	if err != nil {
		return errors.Wrap(err, "create listener failed")
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s failed", addr)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- l.Serve(lis)
		cancel()
	}()

	err = tick.Drive(ctx, loop, append([]func() error{s.Tick}, extra...)...)
	l.Stop()
	if serr := <-serveErr; err == nil {
		err = serr
	}
	return err
}
