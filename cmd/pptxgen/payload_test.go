// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPayload(t *testing.T) {
	payload := []byte("pptx file content")
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name        string
		output      string
		expected    []byte
		expectedErr error
	}{
		{
			name:     "marker on own line",
			output:   "boot noise\nPPTX_BASE64:" + encoded + "\nbye\n",
			expected: payload,
		},
		{
			name:     "marker without trailing newline",
			output:   "noise\nPPTX_BASE64:" + encoded,
			expected: payload,
		},
		{
			name:     "kernel chatter glued to payload",
			output:   "PPTX_BASE64:" + encoded + "Kernel completed",
			expected: payload,
		},
		{
			name:     "surrounding whitespace",
			output:   "PPTX_BASE64: " + encoded + " \nrest",
			expected: payload,
		},
		{
			name:        "marker missing",
			output:      "just boot noise",
			expectedErr: ErrPayloadNotFound,
		},
		{
			name:        "invalid base64",
			output:      "PPTX_BASE64:!!!not-base64!!!\n",
			expectedErr: base64.CorruptInputError(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := ExtractPayload(tt.output, payloadMarker)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare code",
			input:    "print('hi')",
			expected: "print('hi')",
		},
		{
			name:     "python fence",
			input:    "```python\nprint('hi')\n```",
			expected: "print('hi')",
		},
		{
			name:     "anonymous fence",
			input:    "```\nprint('hi')\n```",
			expected: "print('hi')",
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\n```python\nprint('hi')\n```\n",
			expected: "print('hi')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
