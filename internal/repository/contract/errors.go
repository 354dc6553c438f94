package contract

import "errors"

// ErrActiveConflict is returned when a write would leave a user with two
// active sessions or two active notes.
var ErrActiveConflict = errors.New("repository: active record conflict")
