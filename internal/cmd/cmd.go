// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package cmd implements the ukrun command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ukrun/ukrun/internal/bytesize"
	"github.com/ukrun/ukrun/internal/hyperlight"
	"github.com/ukrun/ukrun/internal/initrd"
	"github.com/ukrun/ukrun/internal/vm"
)

// ErrNoKernel is returned if the kernel path argument is missing.
var ErrNoKernel = errors.New("kernel path argument required")

// IO provides input and output streams for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the main entry point for the CLI command. It returns the process
// exit code.
func Run(ctx context.Context, args []string, cfg IO) int {
	root := newCommand(cfg)

	err := root.Run(ctx, args)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	return 0
}

func newCommand(cfg IO) *cli.Command {
	return &cli.Command{
		Name:      "ukrun",
		Usage:     "run a unikernel in a lightweight sandbox",
		ArgsUsage: "<kernel> [-- <guest args>...]",
		Writer:    cfg.Stdout,
		ErrWriter: cfg.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "initrd",
				Usage: "path to the root filesystem CPIO image",
			},
			&cli.StringFlag{
				Name:    "memory",
				Aliases: []string{"m"},
				Value:   vm.DefaultHeapSize.String(),
				Usage:   "guest heap size (e.g. 256Mi, 1Gi)",
			},
			&cli.StringFlag{
				Name:  "stack",
				Value: vm.DefaultStackSize.String(),
				Usage: "guest stack size",
			},
			&cli.StringFlag{
				Name:  "vmm",
				Usage: "sandbox runner executable to use",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress guest output and timing diagnostics",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, cfg)
		},
	}
}

func run(ctx context.Context, cmd *cli.Command, cfg IO) error {
	setupLogging(cfg.Stdout, cmd.Bool("quiet"), cmd.Bool("debug"))

	spec, err := newSpec(cmd)
	if err != nil {
		return err
	}

	engine := &hyperlight.Runner{
		Executable: cmd.String("vmm"),
		Stdout:     cfg.Stdout,
	}

	result, err := vm.Run(ctx, engine, spec)
	if err != nil {
		return err
	}

	slog.Info("Guest completed",
		slog.Duration("setup_time", result.SetupTime),
		slog.Duration("run_time", result.RunTime),
	)

	// The captured diagnostics belong on the stream the guest wrote to.
	if !cmd.Bool("quiet") {
		fmt.Fprint(cfg.Stderr, result.Output)
	}

	return nil
}

func newSpec(cmd *cli.Command) (vm.Spec, error) {
	kernel := cmd.Args().First()
	if kernel == "" {
		return vm.Spec{}, ErrNoKernel
	}

	heapSize, err := bytesize.Parse(cmd.String("memory"))
	if err != nil {
		return vm.Spec{}, fmt.Errorf("parse memory: %w", err)
	}

	stackSize, err := bytesize.Parse(cmd.String("stack"))
	if err != nil {
		return vm.Spec{}, fmt.Errorf("parse stack: %w", err)
	}

	spec := vm.Spec{
		Kernel: kernel,
		Args:   cmd.Args().Tail(),
		Config: vm.Config{
			HeapSize:  bytesize.ByteSize(heapSize),
			StackSize: bytesize.ByteSize(stackSize),
		},
	}

	if path := cmd.String("initrd"); path != "" {
		spec.Initrd, err = initrd.ReadImage(path)
		if err != nil {
			return vm.Spec{}, fmt.Errorf("load initrd: %w", err)
		}
	}

	return spec, nil
}
