package ws

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"netdemo/internal/pkg/client"
	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/wire"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// DefaultPingInterval is how often the client measures the round trip time.
const DefaultPingInterval = time.Second

// DefaultInboxSize is the number of decoded server messages buffered between polls.
const DefaultInboxSize = 256

// Driver is a client.Driver over a WebSocket.
type Driver struct {
	conn         *websocket.Conn
	pingInterval time.Duration
	rtt          atomic.Int64

	sendMu sync.Mutex
	inbox  chan wire.Message
	errc   chan error
	err    error
	done   chan struct{}
	closed sync.Once
}

// DialCfg configures a Driver.
type DialCfg func(*Driver) error

// WithPingInterval sets how often the round trip time is measured.
func WithPingInterval(d time.Duration) DialCfg {
	return func(drv *Driver) error {
		if d <= 0 {
			return errors.Errorf("ping interval must be positive, got %s", d)
		}
		drv.pingInterval = d
		return nil
	}
}

// Dial connects to the server at addr (host:port) and sends the join request.
func Dial(ctx context.Context, addr, secret string, cfgs ...DialCfg) (*Driver, error) {
	d := &Driver{
		pingInterval: DefaultPingInterval,
		inbox:        make(chan wire.Message, DefaultInboxSize),
		errc:         make(chan error, 1),
		done:         make(chan struct{}),
	}
	for _, cfg := range cfgs {
		if err := cfg(d); err != nil {
			return nil, errors.Wrap(err, "apply ws Driver cfg failed")
		}
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: Path}
	header := http.Header{}
	header.Set(SecretHeader, secret)
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			return nil, client.ErrConnectionDenied
		}
		return nil, errors.Wrapf(err, "connect to %s failed", u.String())
	}
	d.conn = conn
	conn.SetPongHandler(d.pong)

	if err := d.write(websocket.BinaryMessage, wire.EncodeJoin()); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "send join request failed")
	}
	go d.recv()
	go d.ping()
	return d, nil
}

func (d *Driver) recv() {
	for {
		mt, b, err := d.conn.ReadMessage()
		if err != nil {
			d.errc <- translate(err)
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		msg, err := wire.DecodeServerMessage(b)
		if err != nil {
			logger.WithError(err).Warn("dropping server frame")
			continue
		}
		select {
		case d.inbox <- msg:
		case <-d.done:
			return
		}
	}
}

func translate(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		switch ce.Code {
		case websocket.ClosePolicyViolation:
			return client.ErrServerFull
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			return client.ErrConnectionClosed
		}
		return errors.Wrap(client.ErrConnectionClosed, ce.Text)
	}
	return errors.Wrap(err, "receive failed")
}

func (d *Driver) ping() {
	ticker := time.NewTicker(d.pingInterval)
	defer ticker.Stop()
	payload := make([]byte, 8)
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			binary.LittleEndian.PutUint64(payload, uint64(time.Now().UnixNano()))
			if err := d.conn.WriteControl(websocket.PingMessage, payload, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (d *Driver) pong(data string) error {
	if len(data) != 8 {
		return nil
	}
	sent := int64(binary.LittleEndian.Uint64([]byte(data)))
	d.rtt.Store(time.Now().UnixNano() - sent)
	return nil
}

func (d *Driver) write(mt int, b []byte) error {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	_ = d.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return d.conn.WriteMessage(mt, b)
}

// Send transmits the input.
func (d *Driver) Send(in entity.Input) error {
	if err := d.write(websocket.BinaryMessage, wire.EncodeInput(in)); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return client.ErrConnectionClosed
		}
		return errors.Wrap(err, "send input failed")
	}
	return nil
}

// Poll returns the messages received so far. Once the socket has closed, the
// remaining messages are returned with the reason it closed.
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

// RTT returns the last measured round trip time.
func (d *Driver) RTT() time.Duration {
	return time.Duration(d.rtt.Load())
}

// Close sends a close frame and closes the socket.
func (d *Driver) Close() error {
	var err error
	d.closed.Do(func() {
		close(d.done)
		_ = d.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = errors.Wrap(d.conn.Close(), "close websocket failed")
	})
	return err
}
