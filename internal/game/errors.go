package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
	ErrRoomFull         = errors.New("room is full")
	ErrDuplicatePlayer  = errors.New("player already seated")
	ErrHandInProgress   = errors.New("hand in progress")
)

// Rejection reasons. They are wrapped in a *RejectedError and match with errors.Is.
var (
	ErrHandNotRunning = errors.New("no hand in progress")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrUnknownAction  = errors.New("unknown action")
	ErrSeatInactive   = errors.New("seat has folded or is all-in")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCannotCheck    = errors.New("cannot check facing a bet")
)

// RejectedError reports an action that was refused. The table state is
// unchanged when it is returned.
type RejectedError struct {
	PlayerID string
	Action   Action
	Reason   error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("action %s by %q rejected: %v", e.Action, e.PlayerID, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

// IsRejected reports whether err is an action rejection.
func IsRejected(err error) bool {
	var rej *RejectedError
	return errors.As(err, &rej)
}
