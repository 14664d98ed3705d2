package session

import "github.com/pkg/errors"

// ErrSessionNotFound is returned when no session exists for the id.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionAlreadyExists is returned when a session is created twice.
var ErrSessionAlreadyExists = errors.New("session already exists")

// ErrInvalidTransition is returned when a session state change is not allowed.
var ErrInvalidTransition = errors.New("invalid session state transition")
