// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package initrd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Inject inserts content under name into a copy of the CPIO archive at
// archivePath and returns the path of the new archive. An existing entry
// with the same name is overwritten.
//
// Extraction and repacking are delegated to the external cpio tool, which
// preserves every attribute of the existing entries bit-exact. The
// extraction scratch directory never outlives this call. The directory
// backing the returned path does: the caller owns it through the returned
// remove function and must call it once the archive is no longer needed.
func Inject(
	ctx context.Context,
	archivePath string,
	name string,
	content []byte,
) (string, func() error, error) {
	source, err := filepath.Abs(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("absolute path: %w", err)
	}

	scratchDir, err := os.MkdirTemp("", "ukrun-extract")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratchDir) //nolint:errcheck

	err = runTool(ctx, ErrExtractFailed, fmt.Sprintf(
		"cd %q && cpio -idm < %q 2>/dev/null", scratchDir, source,
	))
	if err != nil {
		return "", nil, err
	}

	target := filepath.Join(scratchDir, name)

	err = os.MkdirAll(filepath.Dir(target), 0o755)
	if err != nil {
		return "", nil, fmt.Errorf("create parent dir: %w", err)
	}

	err = os.WriteFile(target, content, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("write %s: %w", name, err)
	}

	outDir, err := os.MkdirTemp("", "ukrun-initrd")
	if err != nil {
		return "", nil, fmt.Errorf("create output dir: %w", err)
	}

	outPath := filepath.Join(outDir, filepath.Base(archivePath))

	err = runTool(ctx, ErrRepackFailed, fmt.Sprintf(
		"cd %q && find . 2>/dev/null | cpio -o -H newc > %q 2>/dev/null",
		scratchDir, outPath,
	))
	if err != nil {
		_ = os.RemoveAll(outDir)
		return "", nil, err
	}

	slog.Debug("Injected file into archive",
		slog.String("name", name),
		slog.String("path", outPath),
	)

	removeFn := func() error {
		slog.Debug("Remove injected archive", slog.String("path", outPath))
		return os.RemoveAll(outDir)
	}

	return outPath, removeFn, nil
}

func runTool(ctx context.Context, failure error, script string) error {
	err := exec.CommandContext(ctx, "sh", "-c", script).Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: cpio exited with status %d",
			failure, exitErr.ExitCode())
	}

	return fmt.Errorf("%w: %w", failure, err)
}
