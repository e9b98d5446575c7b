// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package initrd_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrun/ukrun/internal/initrd"
)

func requireCpioTool(t *testing.T) {
	t.Helper()

	_, err := exec.LookPath("cpio")
	if err != nil {
		t.Skip("cpio tool not available")
	}
}

func sourceArchive(t *testing.T, files map[string][]byte) string {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, initrd.FileArchive(&buf, files))

	path := filepath.Join(t.TempDir(), "rootfs.cpio")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	return path
}

func TestInject(t *testing.T) {
	requireCpioTool(t)

	source := sourceArchive(t, map[string][]byte{
		"existing.txt": []byte("keep me"),
	})

	script := []byte("print('generated')\n")

	path, removeFn, err := initrd.Inject(
		context.Background(), source, "generate.py", script,
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, removeFn())
		assert.NoFileExists(t, path, "remove func must dispose the archive")
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	entries := readEntries(t, data)

	assert.Equal(t, script, entries["generate.py"])
	assert.Equal(t, []byte("keep me"), entries["existing.txt"])
}

func TestInjectOverwrites(t *testing.T) {
	requireCpioTool(t)

	source := sourceArchive(t, map[string][]byte{
		"generate.py": []byte("old"),
	})

	path, removeFn, err := initrd.Inject(
		context.Background(), source, "generate.py", []byte("new"),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = removeFn() })

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []byte("new"), readEntries(t, data)["generate.py"])
}

func TestInjectExtractFailure(t *testing.T) {
	requireCpioTool(t)

	source := filepath.Join(t.TempDir(), "broken.cpio")
	require.NoError(t, os.WriteFile(source, []byte("not cpio"), 0o600))

	_, _, err := initrd.Inject(
		context.Background(), source, "x", []byte("y"),
	)
	assert.ErrorIs(t, err, initrd.ErrExtractFailed)
}
