// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package initrd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrun/ukrun/internal/initrd"
)

func TestReadImage(t *testing.T) {
	content := []byte("070701 plain cpio bytes")

	path := filepath.Join(t.TempDir(), "rootfs.cpio")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	data, err := initrd.ReadImage(path)
	require.NoError(t, err)

	assert.Equal(t, content, data)
}

func TestReadImageGzip(t *testing.T) {
	content := []byte("070701 plain cpio bytes")

	path := filepath.Join(t.TempDir(), "rootfs.cpio.gz")

	file, err := os.Create(path)
	require.NoError(t, err)

	writer := gzip.NewWriter(file)
	_, err = writer.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())

	data, err := initrd.ReadImage(path)
	require.NoError(t, err)

	assert.Equal(t, content, data)
}

func TestReadImageMissing(t *testing.T) {
	_, err := initrd.ReadImage(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadImageCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rootfs.cpio.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0xff}, 0o600))

	_, err := initrd.ReadImage(path)
	assert.Error(t, err)
}
