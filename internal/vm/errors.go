// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package vm

import "errors"

// ErrKernelNotFound is returned if the kernel path does not reference an
// existing file. The sandbox engine is never invoked in that case.
var ErrKernelNotFound = errors.New("kernel file not found")

// SetupError wraps a sandbox creation failure.
type SetupError struct {
	Err error
}

// Error implements the [error] interface.
func (e *SetupError) Error() string {
	return "sandbox setup: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*SetupError) Is(other error) bool {
	_, ok := other.(*SetupError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *SetupError) Unwrap() error {
	return e.Err
}

// ExecError wraps a failure of the guest run that is not a halt. Output
// carries whatever diagnostics were captured before the failure.
type ExecError struct {
	Err    error
	Output string
}

// Error implements the [error] interface.
func (e *ExecError) Error() string {
	return "execution: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ExecError) Is(other error) bool {
	_, ok := other.(*ExecError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ExecError) Unwrap() error {
	return e.Err
}
