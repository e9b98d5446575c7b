// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package vm orchestrates a single unikernel run: it validates the input,
// sizes the sandbox, encodes the guest command line into the initrd and
// captures the guest's diagnostic output.
package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ukrun/ukrun/internal/bytesize"
	"github.com/ukrun/ukrun/internal/capture"
	"github.com/ukrun/ukrun/internal/cmdline"
	"github.com/ukrun/ukrun/internal/hyperlight"
)

// Default sandbox sizing, used for fields left zero in [Config].
const (
	DefaultHeapSize  = bytesize.ByteSize(512 * 1024 * 1024)
	DefaultStackSize = bytesize.ByteSize(8 * 1024 * 1024)
)

// Config holds the guest memory sizing. The zero value selects the
// defaults.
type Config struct {
	HeapSize  bytesize.ByteSize
	StackSize bytesize.ByteSize
}

// withDefaults returns the config with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.HeapSize == 0 {
		c.HeapSize = DefaultHeapSize
	}

	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}

	return c
}

// Spec describes a single [Run].
type Spec struct {
	// Kernel is the path to the unikernel image. It must exist.
	Kernel string

	// Initrd is the optional root filesystem image passed to the guest.
	// It is never modified; the encoded command line header is prepended
	// to a fresh copy.
	Initrd []byte

	// Args is the guest command line. It is delivered through the initrd
	// header since the guest has no other argv channel.
	Args []string

	// Config is the sandbox sizing.
	Config Config
}

// Result carries the outcome of a successful run.
type Result struct {
	// Output is the guest's diagnostic output, captured verbatim.
	Output string

	// SetupTime is the time spent encoding the image and creating the
	// sandbox. Observational only.
	SetupTime time.Duration

	// RunTime is the time spent in guest execution. Observational only.
	RunTime time.Duration
}

// Run executes spec in a sandbox created by engine and blocks until the
// guest terminates.
//
// A guest halt is the regular end of a unikernel and is never surfaced as
// an error; the engine's halt signal is absorbed here and nowhere else.
// Any other engine failure is returned as *[SetupError] or *[ExecError].
func Run(
	ctx context.Context,
	engine hyperlight.Engine,
	spec Spec,
) (*Result, error) {
	_, err := os.Stat(spec.Kernel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKernelNotFound, spec.Kernel)
	}

	cfg := spec.Config.withDefaults()

	setupStart := time.Now()

	image := cmdline.Encode(spec.Initrd, spec.Args)

	machine, err := engine.Create(
		hyperlight.Config{
			HeapSize:  uint64(cfg.HeapSize),
			StackSize: uint64(cfg.StackSize),
		},
		spec.Kernel,
		image,
	)
	if err != nil {
		return nil, &SetupError{Err: err}
	}
	defer machine.Close() //nolint:errcheck

	setupTime := time.Since(setupStart)

	slog.Debug("Sandbox created",
		slog.String("kernel", spec.Kernel),
		slog.Int("image_size", len(image)),
		slog.Duration("setup_time", setupTime),
	)

	runStart := time.Now()

	output, err := capture.Stderr(func() error {
		return machine.Run(ctx)
	})

	runTime := time.Since(runStart)

	if err != nil && !errors.Is(err, hyperlight.ErrGuestHalt) {
		return nil, &ExecError{Err: err, Output: output}
	}

	result := &Result{
		Output:    output,
		SetupTime: setupTime,
		RunTime:   runTime,
	}

	return result, nil
}
