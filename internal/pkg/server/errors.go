package server

import "github.com/pkg/errors"

// ErrCapacityExhausted indicates that every entity slot is taken.
var ErrCapacityExhausted = errors.New("too many entity ids requested")

// ErrHandshakeDenied indicates that the client presented the wrong secret.
var ErrHandshakeDenied = errors.New("handshake denied")

// ErrNotApproved indicates a join from a session that has not passed the handshake.
var ErrNotApproved = errors.New("session not approved")

// ErrInboxFull indicates that the server is not keeping up with queued events.
var ErrInboxFull = errors.New("server inbox full")

// ErrTornDown indicates that the server was torn down.
var ErrTornDown = errors.New("server torn down")
