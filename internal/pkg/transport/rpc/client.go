package rpc

import (
	"context"
	"io"
	"sync"
	"time"

	"netdemo/internal/pkg/client"
	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/wire"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// DefaultInboxSize is the number of decoded server messages buffered between polls.
const DefaultInboxSize = 256

// Driver is a client.Driver over a gRPC stream.
type Driver struct {
	conn   *grpc.ClientConn
	stream grpc.ClientStream
	ctx    context.Context
	cancel context.CancelFunc

	sendMu sync.Mutex
	inbox  chan wire.Message
	errc   chan error
	err    error
}

// Dial opens the stream to addr and sends the join request. A denied secret
// or a full server is reported by a later Poll.
func Dial(ctx context.Context, addr, secret string, opts ...grpc.DialOption) (*Driver, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s failed", addr)
	}
	sctx, cancel := context.WithCancel(context.Background())
	sctx = metadata.AppendToOutgoingContext(sctx, SecretMetadataKey, secret)
	stream, err := conn.NewStream(sctx, &ServiceDesc.Streams[0], ConnectMethod, grpc.ForceCodec(Codec{}))
	if err != nil {
		cancel()
		_ = conn.Close()
		return nil, errors.Wrap(err, "call connect failed")
	}
	d := &Driver{
		conn:   conn,
		stream: stream,
		ctx:    sctx,
		cancel: cancel,
		inbox:  make(chan wire.Message, DefaultInboxSize),
		errc:   make(chan error, 1),
	}
	if err := stream.SendMsg(&Frame{Data: wire.EncodeJoin()}); err != nil {
		_ = d.Close()
		return nil, errors.Wrap(err, "send join request failed")
	}
	go d.recv()
	return d, nil
}

func (d *Driver) recv() {
	for {
		var f Frame
		if err := d.stream.RecvMsg(&f); err != nil {
			d.errc <- translate(err)
			return
		}
		msg, err := wire.DecodeServerMessage(f.Data)
		if err != nil {
			logger.WithError(err).Warn("dropping server frame")
			continue
		}
		select {
		case d.inbox <- msg:
		case <-d.ctx.Done():
			return
		}
	}
}

func translate(err error) error {
	if err == io.EOF {
		return client.ErrConnectionClosed
	}
	switch status.Code(err) {
	case codes.PermissionDenied:
		return client.ErrConnectionDenied
	case codes.ResourceExhausted:
		return client.ErrServerFull
	case codes.Canceled, codes.Unavailable:
		return errors.Wrap(client.ErrConnectionClosed, status.Convert(err).Message())
	}
	return errors.Wrap(err, "receive failed")
}

// Send transmits the input.
func (d *Driver) Send(in entity.Input) error {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	if err := d.stream.SendMsg(&Frame{Data: wire.EncodeInput(in)}); err != nil {
		if err == io.EOF {
			return client.ErrConnectionClosed
		}
		return errors.Wrap(err, "send input failed")
	}
	return nil
}

// Poll returns the messages received so far. Once the stream has ended, the
// remaining messages are returned with the reason it ended.
func (d *Driver) Poll() ([]wire.Message, error) {
	out := d.drain(nil)
	if d.err == nil {
		select {
		case d.err = <-d.errc:
			out = d.drain(out)
		default:
		}
	}
	return out, d.err
}

func (d *Driver) drain(out []wire.Message) []wire.Message {
	for {
		select {
		case msg := <-d.inbox:
			out = append(out, msg)
		default:
			return out
		}
	}
}

// RTT is not measured over gRPC.
func (d *Driver) RTT() time.Duration {
	return 0
}

// Close ends the stream and the connection.
func (d *Driver) Close() error {
	d.cancel()
	return errors.Wrap(d.conn.Close(), "close client connection failed")
}
