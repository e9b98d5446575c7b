// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package cmdline implements the boot image header that carries the guest
// command line.
//
// A unikernel has no conventional argv channel, so the arguments are
// smuggled through the one input the guest already reads: the initrd blob.
// The header is self describing and padded to a page boundary, so the
// guest's loader finds the real filesystem start without scanning:
//
//	| Magic (8 bytes): "HLCMDLN\0"     |
//	| Cmdline length (4 bytes LE)      |
//	| Cmdline bytes, NUL terminated    |
//	| Zero padding to a 4096 boundary  |
//	| Original initrd bytes            |
package cmdline

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
)

// Magic marks an initrd blob that starts with a command line header.
const Magic = "HLCMDLN\x00"

// PageSize is the guest loader's page size. The payload must start at a
// multiple of it.
const PageSize = 4096

const fixedHeaderSize = len(Magic) + 4

var (
	// ErrBadMagic is returned if a blob does not start with [Magic].
	ErrBadMagic = errors.New("cmdline magic not found")

	// ErrTruncated is returned if a blob is shorter than its header claims.
	ErrTruncated = errors.New("cmdline header truncated")
)

// Encode prepends a command line header for args to the given image.
//
// The arguments are joined with single spaces. A "--" separator is never
// inserted; the guest receives the joined string exactly as given. With no
// arguments the image is returned unchanged, so images without a header
// remain valid inputs for guests that do not support it. Without arguments
// and without an image there is nothing to boot with and nil is returned.
//
// The image bytes are never modified.
func Encode(image []byte, args []string) []byte {
	cmdline := strings.Join(args, " ")
	if cmdline == "" {
		return image
	}

	headerSize := fixedHeaderSize + len(cmdline) + 1
	paddedSize := (headerSize + PageSize - 1) &^ (PageSize - 1)

	encoded := make([]byte, 0, paddedSize+len(image))

	encoded = append(encoded, Magic...)
	encoded = binary.LittleEndian.AppendUint32(encoded, uint32(len(cmdline)))
	encoded = append(encoded, cmdline...)
	encoded = append(encoded, 0)

	// The backing array is zeroed, so extending up to the padded size
	// yields the padding bytes.
	encoded = encoded[:paddedSize]

	return append(encoded, image...)
}

// DecodeHeader reads the command line from an encoded image and returns it
// together with the offset of the payload region.
//
// It is the exact inverse of [Encode] for non-empty argument lists.
func DecodeHeader(encoded []byte) (string, int, error) {
	if len(encoded) < fixedHeaderSize {
		return "", 0, ErrTruncated
	}

	if !bytes.Equal(encoded[:len(Magic)], []byte(Magic)) {
		return "", 0, ErrBadMagic
	}

	length := binary.LittleEndian.Uint32(encoded[len(Magic):fixedHeaderSize])

	headerSize := fixedHeaderSize + int(length) + 1
	paddedSize := (headerSize + PageSize - 1) &^ (PageSize - 1)

	if len(encoded) < paddedSize {
		return "", 0, ErrTruncated
	}

	cmdline := string(encoded[fixedHeaderSize : fixedHeaderSize+int(length)])

	return cmdline, paddedSize, nil
}
