// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

// Package textenc supplies the byte<->text conversion used by the record
// codec. A Charset bundles the conversion functions with the byte values the
// codec needs directly: the pad space, the ten digit bytes and the zoned sign
// overpunch tables. ASCII and EBCDIC (code page 037) charsets are provided;
// callers may construct their own Charset for other code pages.
package textenc

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Charset describes a byte-oriented text encoding for fixed-width records.
type Charset struct {
	Name string

	// Decode converts record bytes to text, Encode the reverse.
	Decode func([]byte) (string, error)
	Encode func(string) ([]byte, error)

	// Space is the encoded pad byte for alphanumeric fields.
	Space byte

	// Digits holds the encoded bytes for '0'..'9'.
	Digits [10]byte

	// PositiveOverpunch and NegativeOverpunch hold the byte stored for the
	// final digit of a signed zoned decimal field, indexed by digit value.
	PositiveOverpunch [10]byte
	NegativeOverpunch [10]byte
}

// Digit returns the decimal value of an encoded digit byte.
func (cs *Charset) Digit(b byte) (int, bool) {
	for d, enc := range cs.Digits {
		if enc == b {
			return d, true
		}
	}
	return 0, false
}

// OverpunchDigit resolves a zoned sign overpunch byte to its digit value and
// sign. Plain digit bytes resolve as positive, matching unsigned zoned fields
// that are read through a signed picture.
func (cs *Charset) OverpunchDigit(b byte) (digit int, negative bool, ok bool) {
	for d := 0; d < 10; d++ {
		switch b {
		case cs.PositiveOverpunch[d], cs.Digits[d]:
			return d, false, true
		case cs.NegativeOverpunch[d]:
			return d, true, true
		}
	}
	return 0, false, false
}

// ASCII returns the charset for ASCII encoded records. The overpunch bytes
// follow the common ASCII zoned convention ('{' .. 'I' positive, '}' .. 'R'
// negative).
func ASCII() *Charset {
	return &Charset{
		Name: "ascii",
		Decode: func(b []byte) (string, error) {
			return string(b), nil
		},
		Encode: func(s string) ([]byte, error) {
			for i := 0; i < len(s); i++ {
				if s[i] > 0x7f {
					return nil, fmt.Errorf("character %q is not ascii", s[i])
				}
			}
			return []byte(s), nil
		},
		Space:             ' ',
		Digits:            [10]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'},
		PositiveOverpunch: [10]byte{'{', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I'},
		NegativeOverpunch: [10]byte{'}', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R'},
	}
}

// EBCDIC returns the charset for EBCDIC code page 037 records. The sign zone
// nibbles are the mainframe standard 0xC (positive) and 0xD (negative).
func EBCDIC() *Charset {
	cm := charmap.CodePage037
	return &Charset{
		Name: "ebcdic-cp037",
		Decode: func(b []byte) (string, error) {
			out, err := cm.NewDecoder().Bytes(b)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
		Encode: func(s string) ([]byte, error) {
			return cm.NewEncoder().Bytes([]byte(s))
		},
		Space:             0x40,
		Digits:            [10]byte{0xF0, 0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, 0xF8, 0xF9},
		PositiveOverpunch: [10]byte{0xC0, 0xC1, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7, 0xC8, 0xC9},
		NegativeOverpunch: [10]byte{0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7, 0xD8, 0xD9},
	}
}
