// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package initrd handles the guest root filesystem images: loading them
// from disk, building fresh CPIO archives, and injecting single files into
// existing archives.
package initrd
