// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Command pptxgen generates PowerPoint presentations by running LLM
// generated python-pptx code inside a unikernel sandbox.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/ukrun/ukrun/internal/bytesize"
	"github.com/ukrun/ukrun/internal/hyperlight"
	"github.com/ukrun/ukrun/internal/initrd"
	"github.com/ukrun/ukrun/internal/vm"
)

const scriptName = "generate_pptx.py"

// Unikraft's clock starts at 1970 but the ZIP format requires timestamps
// from 1980 on, so python's zipfile needs a shim before the generated code
// runs.
const zipfilePatch = `# Patch zipfile to handle timestamps before 1980.
import zipfile
_orig_ZipInfo_init = zipfile.ZipInfo.__init__
def _patched_ZipInfo_init(self, filename="NoName", date_time=None):
    if date_time is None or date_time[0] < 1980:
        date_time = (2024, 1, 1, 0, 0, 0)
    _orig_ZipInfo_init(self, filename, date_time)
zipfile.ZipInfo.__init__ = _patched_ZipInfo_init

`

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	slog.SetDefault(slog.New(tint.NewHandler(
		os.Stdout,
		&tint.Options{TimeFormat: time.TimeOnly},
	)))

	// Optional; the credential may as well come from the environment.
	_ = godotenv.Load()

	err := newCommand().Run(ctx, os.Args)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "pptxgen",
		Usage: "generate a presentation in a unikernel sandbox",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "prompt",
				Aliases:  []string{"p"},
				Usage:    "description of the presentation",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "presentation.pptx",
				Usage:   "output file path",
			},
			&cli.StringFlag{
				Name:  "kernel",
				Value: "assets/kernel",
				Usage: "path to the unikernel image",
			},
			&cli.StringFlag{
				Name:  "rootfs",
				Value: "assets/rootfs.cpio",
				Usage: "path to the python rootfs CPIO archive",
			},
			&cli.StringFlag{
				Name:  "memory",
				Value: "512Mi",
				Usage: "guest heap size",
			},
			&cli.StringFlag{
				Name:  "model",
				Value: "gpt-4o",
				Usage: "OpenAI model",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print generated code without executing",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return errAPIKeyMissing
	}

	slog.Info("Generating code", slog.String("model", cmd.String("model")))

	code, err := generateCode(
		ctx, apiKey, cmd.String("model"), cmd.String("prompt"),
	)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if cmd.Bool("dry-run") {
		fmt.Fprintln(cmd.Writer, code)
		return nil
	}

	output, err := runSandboxed(ctx, cmd, zipfilePatch+code)
	if err != nil {
		return err
	}

	data, err := ExtractPayload(output, payloadMarker)
	if err != nil {
		return fmt.Errorf("extract pptx: %w", err)
	}

	err = os.WriteFile(cmd.String("output"), data, 0o644)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	slog.Info("Saved presentation",
		slog.String("path", cmd.String("output")),
		slog.Int("size", len(data)),
	)

	return nil
}

// runSandboxed injects the script into the rootfs archive and executes it
// in the guest, returning the captured diagnostics.
func runSandboxed(
	ctx context.Context,
	cmd *cli.Command,
	script string,
) (string, error) {
	heapSize, err := bytesize.Parse(cmd.String("memory"))
	if err != nil {
		return "", fmt.Errorf("parse memory: %w", err)
	}

	rootfsPath, removeFn, err := initrd.Inject(
		ctx, cmd.String("rootfs"), scriptName, []byte(script),
	)
	if err != nil {
		return "", fmt.Errorf("inject script: %w", err)
	}
	defer removeFn() //nolint:errcheck

	image, err := initrd.ReadImage(rootfsPath)
	if err != nil {
		return "", fmt.Errorf("load rootfs: %w", err)
	}

	slog.Info("Executing in sandbox", slog.String("script", scriptName))

	result, err := vm.Run(ctx, &hyperlight.Runner{}, vm.Spec{
		Kernel: cmd.String("kernel"),
		Initrd: image,
		Args:   []string{"/" + scriptName},
		Config: vm.Config{HeapSize: bytesize.ByteSize(heapSize)},
	})
	if err != nil {
		return "", fmt.Errorf("run sandbox: %w", err)
	}

	slog.Info("Guest completed",
		slog.Duration("setup_time", result.SetupTime),
		slog.Duration("run_time", result.RunTime),
	)

	return result.Output, nil
}
