package client

import "github.com/pkg/errors"

// ErrTornDown indicates that the synchronizer was used after TearDown.
var ErrTornDown = errors.New("client torn down")

// ErrMissingDriver indicates that no Driver was configured.
var ErrMissingDriver = errors.New("missing driver")

// ErrConnectionClosed indicates that the server side of the connection went away.
var ErrConnectionClosed = errors.New("connection closed")

// ErrConnectionDenied indicates that the server refused the handshake secret.
var ErrConnectionDenied = errors.New("connection denied")

// ErrServerFull indicates that the server had no free entity for the client.
var ErrServerFull = errors.New("server full")
