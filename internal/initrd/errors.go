// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package initrd

import "errors"

var (
	// ErrExtractFailed is returned if the external cpio tool failed to
	// extract the source archive.
	ErrExtractFailed = errors.New("archive extraction failed")

	// ErrRepackFailed is returned if the external cpio tool failed to
	// repack the modified tree.
	ErrRepackFailed = errors.New("archive repack failed")

	// ErrFileTypeUnsupported is returned for file types an initrd archive
	// cannot carry.
	ErrFileTypeUnsupported = errors.New("file type not supported")
)
