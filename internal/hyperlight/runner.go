// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package hyperlight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// DefaultExecutable is the name of the hyperlight-host runner binary that
// is looked up in PATH if [Runner.Executable] is empty.
const DefaultExecutable = "hyperlight-host"

// haltExitCode is the dedicated exit status the runner uses to report that
// the guest vCPU executed a halt instruction. It distinguishes expected
// unikernel termination from actual runner failures.
const haltExitCode = 113

// Runner is an [Engine] that drives the external hyperlight-host runner
// binary. Guest diagnostics are written to the runner's stderr, which is
// inherited from this process.
type Runner struct {
	// Executable is the path or name of the runner binary. Empty means
	// [DefaultExecutable].
	Executable string

	// Stdout receives the guest's regular output stream. If nil,
	// [os.Stdout] is used.
	Stdout io.Writer
}

// Create implements [Engine]. The initrd blob is staged in a temporary file
// owned by the returned machine and removed on [Machine.Close].
func (r *Runner) Create(
	cfg Config,
	kernelPath string,
	initrd []byte,
) (Machine, error) {
	name := r.Executable
	if name == "" {
		name = DefaultExecutable
	}

	executable, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunnerNotFound, err)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	mach := &machine{
		executable: executable,
		kernelPath: kernelPath,
		cfg:        cfg,
		stdout:     stdout,
	}

	if initrd != nil {
		path, err := writeTempFile(initrd)
		if err != nil {
			return nil, err
		}

		mach.initrdPath = path

		slog.Debug("Staged initrd blob", slog.String("path", path))
	}

	return mach, nil
}

type machine struct {
	executable string
	kernelPath string
	initrdPath string
	cfg        Config
	stdout     io.Writer
}

// Run implements [Machine]. It blocks until the runner process exits and
// reclassifies the runner's halt report as [ErrGuestHalt].
func (m *machine) Run(ctx context.Context) error {
	args := []string{
		m.kernelPath,
		"--heap-size", strconv.FormatUint(m.cfg.HeapSize, 10),
		"--stack-size", strconv.FormatUint(m.cfg.StackSize, 10),
	}
	if m.initrdPath != "" {
		args = append(args, "--initrd", m.initrdPath)
	}

	cmd := exec.CommandContext(ctx, m.executable, args...)

	// Diagnostics of the guest arrive on stderr. The descriptor must be
	// inherited as is, so a redirected stderr of this process is honored.
	cmd.Stderr = os.Stderr

	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	var relay errgroup.Group

	relay.Go(func() error {
		_, err := io.Copy(m.stdout, out)
		return err
	})

	err = cmd.Start()
	if err != nil {
		_ = out.Close()
		_ = relay.Wait()

		return fmt.Errorf("start: %w", err)
	}

	// The pipe must be fully drained before Wait, which closes it.
	relayErr := relay.Wait()
	runErr := cmd.Wait()

	err = classifyRunError(runErr)
	if err != nil {
		return err
	}

	if relayErr != nil {
		return fmt.Errorf("relay stdout: %w", relayErr)
	}

	return nil
}

// Close implements [Machine].
func (m *machine) Close() error {
	if m.initrdPath == "" {
		return nil
	}

	err := os.Remove(m.initrdPath)
	if err != nil {
		return fmt.Errorf("remove initrd: %w", err)
	}

	return nil
}

// classifyRunError maps the runner's exit state to the engine contract.
// Only the dedicated halt status becomes [ErrGuestHalt]; everything else
// keeps its failure nature.
func classifyRunError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &CommandError{Err: err, ExitCode: -1}
	}

	if exitErr.ExitCode() == haltExitCode {
		return ErrGuestHalt
	}

	return &CommandError{Err: err, ExitCode: exitErr.ExitCode()}
}

func writeTempFile(data []byte) (string, error) {
	file, err := os.CreateTemp("", "ukrun-initrd")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(data)
	if err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("write initrd: %w", err)
	}

	return file.Name(), nil
}
