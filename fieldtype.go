// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// FieldKind identifies the storage class of a picture clause.
type FieldKind uint8

const (
	FieldUnspecified FieldKind = iota

	// FieldAlphanumeric is character data, one byte per position (PIC X/A/B).
	FieldAlphanumeric
	// FieldZoned is zoned decimal, one digit per byte with optional sign
	// overpunch on the final byte (PIC 9, no usage clause).
	FieldZoned
	// FieldPacked is packed decimal, two digits per byte plus a trailing
	// sign nibble (COMP-3).
	FieldPacked
	// FieldBinary is a big-endian two's complement integer (COMP).
	FieldBinary
	// FieldEdited is a display-edited format treated as opaque fixed-length
	// text, with no numeric semantics.
	FieldEdited
)

func (k FieldKind) String() string {
	switch k {
	case FieldAlphanumeric:
		return "alphanumeric"
	case FieldZoned:
		return "zoned"
	case FieldPacked:
		return "packed"
	case FieldBinary:
		return "binary"
	case FieldEdited:
		return "edited"
	default:
		return "unspecified"
	}
}

// FieldType is the compiled form of a picture clause. It carries everything
// the codec needs to size, decode and encode one scalar field.
type FieldType struct {
	Kind       FieldKind
	Length     int // storage length in bytes
	IntDigits  int // digits left of the implied decimal point
	FracDigits int // digits right of the implied decimal point
	Signed     bool
}

// Digits returns the total declared digit count of a numeric field.
func (ft *FieldType) Digits() int {
	return ft.IntDigits + ft.FracDigits
}

var (
	alnumSegmentRe = regexp.MustCompile(`^([XAB])(\((\d+)\))?`)
	numericPicRe   = regexp.MustCompile(`^(S)?(V)?(9+|9\((\d+)\))(V(9+|9\((\d+)\))?)?$`)
	editedPicRe    = regexp.MustCompile(`^[+\-XAB0Z9/,.]+$`)
)

// ParsePicture classifies a picture format string into a FieldType.
//
// The format is the text following PIC/PICTURE in the declaration, including
// an optional usage clause (COMP, COMP-3 or a synonym) separated by a space.
// Formats that match neither the alphanumeric nor the numeric grammar but
// consist only of display-editing characters are classified as FieldEdited
// with the format's own length. Anything else fails with
// cbutils.ErrUnsupportedFieldType.
func ParsePicture(format string) (*FieldType, error) {
	parts := strings.Fields(strings.ToUpper(format))
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty picture format", cbutils.ErrUnsupportedFieldType)
	}
	pic := parts[0]
	usage, err := parseUsage(parts[1:])
	if err != nil {
		return nil, err
	}

	if usage == usageDisplay {
		if ft, ok := parseAlphanumeric(pic); ok {
			return ft, nil
		}
	}
	if ft, ok := parseNumeric(pic, usage); ok {
		return ft, nil
	}
	if usage == usageDisplay && editedPicRe.MatchString(pic) {
		return &FieldType{Kind: FieldEdited, Length: len(pic)}, nil
	}
	return nil, fmt.Errorf("%w: %q", cbutils.ErrUnsupportedFieldType, format)
}

type usageClause uint8

const (
	usageDisplay usageClause = iota
	usageBinary
	usagePacked
)

func parseUsage(parts []string) (usageClause, error) {
	if len(parts) == 0 {
		return usageDisplay, nil
	}
	if len(parts) > 1 {
		return usageDisplay, fmt.Errorf("%w: unexpected clause %q", cbutils.ErrUnsupportedFieldType, strings.Join(parts, " "))
	}
	switch parts[0] {
	case "COMP", "COMP-4", "COMPUTATIONAL", "BINARY":
		return usageBinary, nil
	case "COMP-3", "COMPUTATIONAL-3", "PACKED-DECIMAL":
		return usagePacked, nil
	default:
		return usageDisplay, fmt.Errorf("%w: unknown usage %q", cbutils.ErrUnsupportedFieldType, parts[0])
	}
}

// parseAlphanumeric handles pictures built from X/A/B positions, each given
// either literally repeated or with a (n) repeat count.
func parseAlphanumeric(pic string) (*FieldType, bool) {
	length := 0
	rest := pic
	for len(rest) > 0 {
		m := alnumSegmentRe.FindStringSubmatch(rest)
		if m == nil {
			return nil, false
		}
		if m[3] != "" {
			n, err := strconv.Atoi(m[3])
			if err != nil || n <= 0 {
				return nil, false
			}
			length += n
		} else {
			length++
		}
		rest = rest[len(m[0]):]
	}
	if length == 0 {
		return nil, false
	}
	return &FieldType{Kind: FieldAlphanumeric, Length: length}, true
}

func parseNumeric(pic string, usage usageClause) (*FieldType, bool) {
	m := numericPicRe.FindStringSubmatch(pic)
	if m == nil {
		return nil, false
	}
	first := digitCount(m[3], m[4])
	second := 0
	hasSecondV := m[5] != ""
	if m[6] != "" {
		second = digitCount(m[6], m[7])
	}

	ft := &FieldType{Signed: m[1] == "S"}
	if m[2] == "V" {
		// leading V: no integer part, the only digit group is fractional
		if hasSecondV {
			return nil, false
		}
		ft.FracDigits = first
	} else {
		ft.IntDigits = first
		if hasSecondV {
			ft.FracDigits = second
		}
	}

	switch usage {
	case usageBinary:
		ft.Kind = FieldBinary
		ft.Length = binaryStorageLength(ft.Digits(), ft.Signed)
	case usagePacked:
		ft.Kind = FieldPacked
		ft.Length = (ft.Digits() + 2) / 2
	default:
		ft.Kind = FieldZoned
		ft.Length = ft.Digits()
	}
	return ft, true
}

// digitCount resolves a digit group that is either literal 9s or 9(n).
func digitCount(group, count string) int {
	if count != "" {
		n, _ := strconv.Atoi(count)
		return n
	}
	return len(group)
}

// binaryStorageLength returns the COMP storage width for a digit count:
// the smallest of 2/4/8 bytes that holds the declared digits, or the minimal
// big-integer width beyond 18 digits. Signed fields need the top bit free for
// the two's complement sign, so the width grows by one byte when the maximum
// magnitude reaches it.
func binaryStorageLength(digits int, signed bool) int {
	switch {
	case digits <= 4:
		return 2
	case digits <= 9:
		return 4
	case digits <= 18:
		return 8
	}
	max := new(big.Int).Sub(cbutils.Pow10(digits), big.NewInt(1))
	width := len(max.Bytes())
	if signed && max.BitLen() == 8*width {
		width++
	}
	return width
}
