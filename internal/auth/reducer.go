package auth

import "github.com/joshua-takyi/localinsights/internal/models"

type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// State is the session of one device.
type State struct {
	User          *models.User `json:"user"`
	Authenticated bool         `json:"authenticated"`
	Loading       bool         `json:"loading"`
}

func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusAuthenticating
	case s.Authenticated:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

type Action interface {
	isAuthAction()
}

type (
	LoginStart      struct{}
	LoginSuccess    struct{ User models.User }
	LoginFailure    struct{}
	Logout          struct{}
	RegisterSuccess struct{ User models.User }
)

func (LoginStart) isAuthAction()      {}
func (LoginSuccess) isAuthAction()    {}
func (LoginFailure) isAuthAction()    {}
func (Logout) isAuthAction()          {}
func (RegisterSuccess) isAuthAction() {}

// Reduce is the session state machine. LoginStart keeps whatever user is
// present; every other transition settles the state.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case LoginStart:
		s.Loading = true
	case LoginSuccess:
		u := act.User
		return State{User: &u, Authenticated: true}
	case RegisterSuccess:
		u := act.User
		return State{User: &u, Authenticated: true}
	case LoginFailure, Logout:
		return State{}
	}
	return s
}
