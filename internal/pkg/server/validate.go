package server

import "netdemo/internal/pkg/entity"

// Validator decides whether an input may be applied to its entity.
type Validator interface {
	Validate(e *entity.Entity, in entity.Input) bool
}

// ValidatorFunc adapts a function to a Validator.
type ValidatorFunc func(e *entity.Entity, in entity.Input) bool

// Validate calls f.
func (f ValidatorFunc) Validate(e *entity.Entity, in entity.Input) bool {
	return f(e, in)
}

// AcceptAll accepts every input.
func AcceptAll() Validator {
	return ValidatorFunc(func(*entity.Entity, entity.Input) bool {
		return true
	})
}

// MaxStep rejects inputs whose move vector is longer than limit, i.e. inputs
// claiming more elapsed time than one client frame may plausibly cover.
func MaxStep(limit float32) Validator {
	return ValidatorFunc(func(_ *entity.Entity, in entity.Input) bool {
		return in.Move.Len() <= limit
	})
}
