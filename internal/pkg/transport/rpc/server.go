package rpc

import (
	"io"
	"net"

	"netdemo/internal/pkg/handler"
	"netdemo/internal/pkg/server"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Server exposes a server.Server over gRPC.
type Server struct {
	server *server.Server
	grpc   *grpc.Server
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithServer sets the simulation served to clients.
func WithServer(s *server.Server) Cfg {
	return func(r *Server) error {
		r.server = s
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	r := &Server{}
	for _, cfg := range cfgs {
		if err := cfg(r); err != nil {
			return nil, errors.Wrap(err, "apply rpc Server cfg failed")
		}
	}
	if r.server == nil {
		return nil, errors.New("rpc server requires a server")
	}
	r.grpc = grpc.NewServer(grpc.ForceServerCodec(Codec{}))
	r.grpc.RegisterService(&ServiceDesc, r)
	return r, nil
}

// Serve accepts connections on lis until Stop is called.
func (r *Server) Serve(lis net.Listener) error {
	logger.WithField("addr", lis.Addr().String()).Info("serving grpc")
	if err := r.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return errors.Wrap(err, "serve grpc failed")
	}
	return nil
}

// Stop closes the listeners and every open stream.
func (r *Server) Stop() {
	r.grpc.Stop()
}

// Connect implements SyncServer.
func (r *Server) Connect(stream grpc.ServerStream) error {
	ctx := stream.Context()
	remote := "unknown"
	if p, ok := peer.FromContext(ctx); ok {
		remote = p.Addr.String()
	}
	var secret string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(SecretMetadataKey); len(v) > 0 {
			secret = v[0]
		}
	}

	id, err := r.server.Admit(remote, secret)
	if errors.Is(err, server.ErrHandshakeDenied) {
		return status.Error(codes.PermissionDenied, err.Error())
	}
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	h, err := handler.NewHandler(handler.WithServer(r.server), handler.WithSessionID(id))
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	err = h.Run(ctx, streamConn{stream})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, server.ErrCapacityExhausted):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, handler.ErrSessionClosed), errors.Is(err, server.ErrTornDown):
		return status.Error(codes.Unavailable, err.Error())
	}
	logger.WithError(err).WithField("session", id.String()).Warn("connection failed")
	return status.Error(codes.Internal, err.Error())
}

type streamConn struct {
	stream grpc.ServerStream
}

func (c streamConn) Recv() ([]byte, error) {
	var f Frame
	if err := c.stream.RecvMsg(&f); err != nil {
		if err == io.EOF || status.Code(err) == codes.Canceled {
			return nil, io.EOF
		}
		return nil, err
	}
	return f.Data, nil
}

func (c streamConn) Send(frame []byte) error {
	return c.stream.SendMsg(&Frame{Data: frame})
}
