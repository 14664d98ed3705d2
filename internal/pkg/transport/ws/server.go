// Package ws carries wire frames as binary WebSocket messages.
//
// Clients connect to Path presenting the handshake secret in SecretHeader.
// A wrong secret is refused with 403 before the upgrade; a full server closes
// the socket with websocket.ClosePolicyViolation. Clients ping the server to
// measure the round trip time.
package ws

import (
	"io"
	"net"
	"net/http"
	"time"

	"netdemo/internal/pkg/handler"
	"netdemo/internal/pkg/server"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Path is the URL path of the WebSocket endpoint.
const Path = "/ws"

// SecretHeader is the request header carrying the handshake secret.
const SecretHeader = "X-Netdemo-Secret"

const writeWait = 5 * time.Second

// Server exposes a server.Server over WebSocket.
type Server struct {
	server   *server.Server
	upgrader websocket.Upgrader
	http     *http.Server
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithServer sets the simulation served to clients.
func WithServer(s *server.Server) Cfg {
	return func(w *Server) error {
		w.server = s
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	w := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, cfg := range cfgs {
		if err := cfg(w); err != nil {
			return nil, errors.Wrap(err, "apply ws Server cfg failed")
		}
	}
	if w.server == nil {
		return nil, errors.New("ws server requires a server")
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Path, w.serveWS)
	w.http = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return w, nil
}

// Handler returns the HTTP handler serving Path.
func (w *Server) Handler() http.Handler {
	return w.http.Handler
}

// Serve accepts connections on lis until Close is called.
func (w *Server) Serve(lis net.Listener) error {
	logger.WithField("addr", lis.Addr().String()).Info("serving websocket")
	if err := w.http.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve websocket failed")
	}
	return nil
}

// Close stops accepting connections.
func (w *Server) Close() error {
	return errors.Wrap(w.http.Close(), "close http server failed")
}

func (w *Server) serveWS(rw http.ResponseWriter, r *http.Request) {
	id, err := w.server.Admit(r.RemoteAddr, r.Header.Get(SecretHeader))
	if errors.Is(err, server.ErrHandshakeDenied) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.server.Leave(id)
		logger.WithError(err).Debug("upgrade failed")
		return
	}
	defer conn.Close()

	h, err := handler.NewHandler(handler.WithServer(w.server), handler.WithSessionID(id))
	if err != nil {
		w.server.Leave(id)
		return
	}
	err = h.Run(r.Context(), &socketConn{conn: conn})
	code, reason := websocket.CloseNormalClosure, ""
	switch {
	case err == nil:
	case errors.Is(err, server.ErrCapacityExhausted):
		code, reason = websocket.ClosePolicyViolation, "server full"
	case errors.Is(err, handler.ErrSessionClosed), errors.Is(err, server.ErrTornDown):
		code, reason = websocket.CloseGoingAway, "session closed"
	default:
		code, reason = websocket.CloseInternalServerErr, "internal error"
		logger.WithError(err).WithField("session", id.String()).Warn("connection failed")
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}

type socketConn struct {
	conn *websocket.Conn
}

// Recv returns the next binary message. Text messages are skipped.
func (c *socketConn) Recv() ([]byte, error) {
	for {
		mt, b, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		if mt == websocket.BinaryMessage {
			return b, nil
		}
	}
}

func (c *socketConn) Send(frame []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}
