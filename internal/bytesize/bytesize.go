// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

// Package bytesize parses and renders human readable memory sizes.
//
// The accepted format is an unsigned decimal integer with an optional unit
// suffix. The suffixes Ki, Mi and Gi denote binary multiples (1024 based),
// K, M and G denote decimal multiples (1000 based). Without a suffix the
// number is taken as a plain byte count.
package bytesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned if the input is not a valid size string.
	ErrInvalidFormat = errors.New("invalid size format")

	// ErrValueOutOfRange is returned if the result does not fit into uint64.
	ErrValueOutOfRange = errors.New("value is outside of range")
)

type unit struct {
	suffix string
	factor uint64
}

// Longer suffixes first, so "Ki" is not consumed as "K" with trailing "i".
var units = []unit{
	{"Ki", 1 << 10},
	{"Mi", 1 << 20},
	{"Gi", 1 << 30},
	{"K", 1000},
	{"M", 1000 * 1000},
	{"G", 1000 * 1000 * 1000},
}

// Parse converts a size string like "512Mi", "1Gi" or "4096" into a number
// of bytes. Surrounding whitespace is trimmed before parsing.
func Parse(text string) (uint64, error) {
	text = strings.TrimSpace(text)

	factor := uint64(1)

	for _, unit := range units {
		if strings.HasSuffix(text, unit.suffix) {
			text = strings.TrimSuffix(text, unit.suffix)
			factor = unit.factor

			break
		}
	}

	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	if factor > 1 && value > math.MaxUint64/factor {
		return 0, fmt.Errorf("%s: %w", text, ErrValueOutOfRange)
	}

	return value * factor, nil
}

// ByteSize is a number of bytes that can be used as a text based flag or
// configuration value.
type ByteSize uint64

// String renders the size with the largest binary unit that divides it
// exactly. Sizes without such a unit are rendered as plain byte counts.
func (b ByteSize) String() string {
	value := uint64(b)

	for _, unit := range []unit{units[2], units[1], units[0]} {
		if value >= unit.factor && value%unit.factor == 0 {
			return strconv.FormatUint(value/unit.factor, 10) + unit.suffix
		}
	}

	return strconv.FormatUint(value, 10)
}

// MarshalText implements [encoding.TextMarshaler].
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *ByteSize) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}

	*b = ByteSize(value)

	return nil
}
