// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package bytesize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrun/ukrun/internal/bytesize"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    uint64
		expectedErr error
	}{
		{
			name:     "plain bytes",
			input:    "4096",
			expected: 4096,
		},
		{
			name:     "kibibytes",
			input:    "4Ki",
			expected: 4 * 1024,
		},
		{
			name:     "mebibytes",
			input:    "512Mi",
			expected: 512 * 1024 * 1024,
		},
		{
			name:     "gibibytes",
			input:    "1Gi",
			expected: 1024 * 1024 * 1024,
		},
		{
			name:     "kilobytes",
			input:    "5K",
			expected: 5000,
		},
		{
			name:     "megabytes",
			input:    "100M",
			expected: 100_000_000,
		},
		{
			name:     "gigabytes",
			input:    "2G",
			expected: 2_000_000_000,
		},
		{
			name:     "surrounding whitespace",
			input:    "  8Mi\n",
			expected: 8 * 1024 * 1024,
		},
		{
			name:     "zero",
			input:    "0",
			expected: 0,
		},
		{
			name:        "empty",
			input:       "",
			expectedErr: bytesize.ErrInvalidFormat,
		},
		{
			name:        "not a number",
			input:       "bogus",
			expectedErr: bytesize.ErrInvalidFormat,
		},
		{
			name:        "unknown suffix",
			input:       "12Ti",
			expectedErr: bytesize.ErrInvalidFormat,
		},
		{
			name:        "negative",
			input:       "-1Mi",
			expectedErr: bytesize.ErrInvalidFormat,
		},
		{
			name:        "fractional",
			input:       "1.5Gi",
			expectedErr: bytesize.ErrInvalidFormat,
		},
		{
			name:        "suffix only",
			input:       "Mi",
			expectedErr: bytesize.ErrInvalidFormat,
		},
		{
			name:        "overflow",
			input:       "18446744073709551615Gi",
			expectedErr: bytesize.ErrValueOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := bytesize.Parse(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr == nil {
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}

func TestByteSizeString(t *testing.T) {
	tests := []struct {
		name     string
		value    bytesize.ByteSize
		expected string
	}{
		{
			name:     "zero",
			value:    0,
			expected: "0",
		},
		{
			name:     "plain bytes",
			value:    1000,
			expected: "1000",
		},
		{
			name:     "kibibytes",
			value:    8 * 1024,
			expected: "8Ki",
		},
		{
			name:     "mebibytes",
			value:    512 * 1024 * 1024,
			expected: "512Mi",
		},
		{
			name:     "gibibytes",
			value:    2 * 1024 * 1024 * 1024,
			expected: "2Gi",
		},
		{
			name:     "decimal multiple stays plain",
			value:    100_000_000,
			expected: "100000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestByteSizeRoundTrip(t *testing.T) {
	inputs := []string{"512Mi", "1Gi", "100M", "4096", "8Ki"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			value, err := bytesize.Parse(input)
			require.NoError(t, err)

			again, err := bytesize.Parse(bytesize.ByteSize(value).String())
			require.NoError(t, err)

			assert.Equal(t, value, again)
		})
	}
}

func TestByteSizeUnmarshalText(t *testing.T) {
	var value bytesize.ByteSize

	require.NoError(t, value.UnmarshalText([]byte("16Mi")))
	assert.EqualValues(t, 16*1024*1024, value)

	require.ErrorIs(t,
		value.UnmarshalText([]byte("wat")),
		bytesize.ErrInvalidFormat,
	)
}
