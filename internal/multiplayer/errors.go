package multiplayer

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput         = errors.New("malformed input")
	ErrIllegalMove            = errors.New("illegal move")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrWrongPhase             = errors.New("wrong phase")
	ErrOverrideBudgetExceeded = errors.New("override budget exceeded")
	ErrAlreadyInProgress      = errors.New("game already in progress")
	ErrSelfChallenge          = errors.New("cannot challenge yourself")
	ErrNoSession              = errors.New("no game in progress")
	ErrInternal               = errors.New("internal error")
)

// Rejection is an error the player who caused it gets to see.
// Errors that are not a Rejection are dropped silently.
type Rejection struct {
	Err     error
	Message string
}

func (r *Rejection) Error() string {
	return r.Err.Error() + ": " + r.Message
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(err error, format string, args ...any) error {
	return &Rejection{Err: err, Message: fmt.Sprintf(format, args...)}
}

// Reason returns a short label for err, used for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedInput):
		return "malformed"
	case errors.Is(err, ErrIllegalMove):
		return "illegal"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrOverrideBudgetExceeded):
		return "override_budget"
	case errors.Is(err, ErrAlreadyInProgress):
		return "conflict"
	case errors.Is(err, ErrSelfChallenge):
		return "self_challenge"
	case errors.Is(err, ErrNoSession):
		return "no_session"
	case errors.Is(err, ErrInternal):
		return "internal"
	default:
		return "other"
	}
}
