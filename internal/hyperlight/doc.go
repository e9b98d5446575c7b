// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package hyperlight is the boundary to the sandbox engine that actually
// virtualizes the guest.
//
// The engine is consumed through the [Engine] interface so the harness and
// its tests do not depend on a hypervisor being present. The only provided
// implementation, [Runner], drives the external hyperlight-host runner
// binary as a child process.
//
// A unikernel terminates by executing a halt instruction, which the engine
// reports as an error. This package translates that report into the
// [ErrGuestHalt] sentinel; deciding that a halt means success is left to
// the caller.
package hyperlight
