// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package capture redirects the process's stderr file descriptor into an
// in-memory buffer for the duration of a single function call.
//
// The sandbox engine writes guest diagnostics to stderr and offers no other
// way to obtain them, so the harness temporarily owns the process wide
// descriptor. The swap is not atomic across threads; callers must not run
// two captures concurrently.
package capture

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

const stderrFD = 2

// Stderr runs fn with the process's stderr redirected into a pipe and
// returns everything fn wrote to it.
//
// The original descriptor is restored on every exit path, including a panic
// in fn. After restoration the pipe is drained non-blocking, so a guest
// that wrote nothing yields an empty string instead of a hanging read.
// Bytes that do not form valid UTF-8 are dropped.
//
// The returned error is fn's own error. Failures of the redirection itself
// take precedence: they abort the run, since a lost stderr descriptor would
// corrupt the whole process.
func Stderr(fn func() error) (string, error) {
	guard, err := redirect(stderrFD)
	if err != nil {
		return "", err
	}

	restored := false

	// Last resort for panics in fn. The regular path restores explicitly
	// so restore errors are not lost.
	defer func() {
		if !restored {
			_ = guard.restore()
		}
	}()

	fnErr := fn()

	restored = true

	err = guard.restore()
	if err != nil {
		return "", err
	}

	output := guard.drain()
	guard.close()

	return output, fnErr
}

// guardFD holds the state needed to undo one descriptor redirection. The
// restore action is fixed at acquisition time.
type guardFD struct {
	fd      int
	saved   int
	readFD  int
	writeFD int
}

// redirect replaces fd with the write end of a new pipe and preserves the
// original descriptor.
func redirect(fd int) (*guardFD, error) {
	saved, err := unix.Dup(fd)
	if err != nil {
		return nil, fmt.Errorf("preserve fd %d: %w", fd, err)
	}

	pipeFDs := make([]int, 2)

	err = unix.Pipe(pipeFDs)
	if err != nil {
		_ = unix.Close(saved)
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	err = unix.Dup3(pipeFDs[1], fd, 0)
	if err != nil {
		_ = unix.Close(saved)
		_ = unix.Close(pipeFDs[0])
		_ = unix.Close(pipeFDs[1])

		return nil, fmt.Errorf("redirect fd %d: %w", fd, err)
	}

	guard := &guardFD{
		fd:      fd,
		saved:   saved,
		readFD:  pipeFDs[0],
		writeFD: pipeFDs[1],
	}

	return guard, nil
}

// restore puts the preserved descriptor back in place and closes the pipe's
// write end, so the read end sees EOF once drained. Stderr is unbuffered in
// Go, so there is no host side buffer to flush first.
func (g *guardFD) restore() error {
	err := unix.Dup3(g.saved, g.fd, 0)
	if err != nil {
		return fmt.Errorf("restore fd %d: %w", g.fd, err)
	}

	_ = unix.Close(g.saved)
	_ = unix.Close(g.writeFD)

	return nil
}

// drain reads all currently available bytes from the pipe. The descriptor
// is switched to non-blocking first: with the write end closed a blocking
// read could still hang if a leaked child process inherited the descriptor.
func (g *guardFD) drain() string {
	err := unix.SetNonblock(g.readFD, true)
	if err != nil {
		return ""
	}

	var collected []byte

	buf := make([]byte, 4096)

	for {
		n, err := unix.Read(g.readFD, buf)
		if n > 0 {
			collected = append(collected, buf[:n]...)
		}

		if err != nil || n <= 0 {
			break
		}
	}

	return strings.ToValidUTF8(string(collected), "")
}

func (g *guardFD) close() {
	_ = unix.Close(g.readFD)
}
