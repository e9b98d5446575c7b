// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// payloadMarker prefixes the base64 encoded presentation in the guest's
// output.
const payloadMarker = "PPTX_BASE64:"

// ErrPayloadNotFound is returned if the guest output does not contain the
// payload marker.
var ErrPayloadNotFound = errors.New("payload marker not found")

// ExtractPayload finds the marker in the captured guest output and decodes
// the base64 data following it.
//
// Line based scanning is tried first. If the guest's final newline got lost
// in the diagnostic stream, the marker is searched anywhere in the text and
// the payload ends at the next newline, at trailing kernel chatter starting
// with "Kernel", or at the end of the text.
func ExtractPayload(output, marker string) ([]byte, error) {
	for _, line := range strings.Split(output, "\n") {
		data, found := strings.CutPrefix(line, marker)
		if !found {
			continue
		}

		decoded, err := decodePayload(data)
		if err == nil {
			return decoded, nil
		}

		// The line may end in glued kernel chatter; let the raw scan
		// take it apart.
		break
	}

	_, rest, found := strings.Cut(output, marker)
	if !found {
		return nil, ErrPayloadNotFound
	}

	end := len(rest)
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		end = idx
	}

	if idx := strings.Index(rest[:end], "Kernel"); idx >= 0 {
		end = idx
	}

	return decodePayload(rest[:end])
}

func decodePayload(data string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	return decoded, nil
}
