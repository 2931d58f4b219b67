package auth

import (
	"errors"

	"github.com/gofrs/uuid"
)

// Capability is a named permission an actor must hold for a specific
// operation. Plain authentication is checked separately.
type Capability string

const (
	CapViewProduct   Capability = "view-product"
	CapAddProduct    Capability = "add-product"
	CapChangeProduct Capability = "change-product"
	CapDeleteProduct Capability = "delete-product"
	CapMarkInactive  Capability = "mark-inactive"
)

var (
	ErrUnauthenticated  = errors.New("actor is not authenticated")
	ErrPermissionDenied = errors.New("actor lacks the required capability")
)

// Actor is the identity the web layer resolved for the current request.
// The core never authenticates; it only checks predicates on the actor
// it was handed.
type Actor struct {
	ID            uuid.UUID
	Name          string
	Authenticated bool
	capabilities  map[Capability]struct{}
}

func NewActor(id uuid.UUID, name string, caps ...Capability) Actor {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return Actor{ID: id, Name: name, Authenticated: true, capabilities: set}
}

// Anonymous is the actor for requests with no resolved identity.
func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Can(c Capability) bool {
	if !a.Authenticated {
		return false
	}
	_, ok := a.capabilities[c]
	return ok
}

// RequireAuthenticated returns ErrUnauthenticated for anonymous actors.
func (a Actor) RequireAuthenticated() error {
	if !a.Authenticated {
		return ErrUnauthenticated
	}
	return nil
}

// Require checks authentication and the given capability.
func (a Actor) Require(c Capability) error {
	if err := a.RequireAuthenticated(); err != nil {
		return err
	}
	if !a.Can(c) {
		return ErrPermissionDenied
	}
	return nil
}
