// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// setupLogging configures the default logger. Logs go to stdout: stderr
// belongs to the guest diagnostic capture while a sandbox runs.
func setupLogging(writer io.Writer, quiet, debug bool) {
	level := slog.LevelInfo

	switch {
	case debug:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(tint.NewHandler(
		writer,
		&tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		},
	)))
}
