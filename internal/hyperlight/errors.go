// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package hyperlight

import "errors"

var (
	// ErrGuestHalt is returned if the guest terminated by executing its
	// halt instruction. A unikernel has no other way to finish, so callers
	// treat this as regular completion.
	ErrGuestHalt = errors.New("guest vcpu halted")

	// ErrRunnerNotFound is returned if the hyperlight-host runner
	// executable is not installed.
	ErrRunnerNotFound = errors.New("hyperlight-host executable not found")
)

// CommandError wraps a runner failure that is not a guest halt.
type CommandError struct {
	Err      error
	ExitCode int
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	return "hyperlight-host: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
