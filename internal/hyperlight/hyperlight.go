// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package hyperlight

import (
	"context"
)

// Config holds the sandbox sizing parameters. Both values are byte counts
// and must be strictly positive.
type Config struct {
	HeapSize  uint64
	StackSize uint64
}

// Machine is a sandbox that is bound to a kernel and ready to run.
type Machine interface {
	// Run boots the kernel and blocks until the guest terminates. A guest
	// that terminates through its halt instruction yields [ErrGuestHalt].
	Run(ctx context.Context) error

	// Close releases resources owned by the machine.
	Close() error
}

// Engine creates sandboxes. It is the boundary to the hypervisor, which is
// not part of this module.
type Engine interface {
	// Create configures a sandbox with the given sizing and binds it to the
	// kernel at kernelPath. The optional initrd blob is passed to the guest
	// verbatim.
	Create(cfg Config, kernelPath string, initrd []byte) (Machine, error)
}
