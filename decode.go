// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// decodeField reads the typed value of one scalar field from its exact
// buffer slice. Text fields decode through the configured charset; numeric
// fields decode to int64 (up to 18 digits, no scale), *big.Int (beyond 18
// digits) or decimal.Decimal (scaled pictures).
func (d *DynCb) decodeField(ft *FieldType, buf []byte) (any, error) {
	if len(buf) != ft.Length {
		return nil, fmt.Errorf("%w: field needs %d bytes, got %d", cbutils.ErrBufferLength, ft.Length, len(buf))
	}
	switch ft.Kind {
	case FieldAlphanumeric, FieldEdited:
		s, err := d.charset.Decode(buf)
		if err != nil {
			return nil, err
		}
		if d.trimSpaces {
			s = strings.TrimRight(s, " ")
		}
		return s, nil
	case FieldZoned:
		return d.decodeZoned(ft, buf)
	case FieldPacked:
		return d.decodePacked(ft, buf)
	case FieldBinary:
		return d.decodeBinary(ft, buf)
	default:
		return nil, fmt.Errorf("%w: kind %v", cbutils.ErrUnsupportedFieldType, ft.Kind)
	}
}

func (d *DynCb) decodeZoned(ft *FieldType, buf []byte) (any, error) {
	v := new(big.Int)
	negative := false
	for i, b := range buf {
		var digit int
		if ft.Signed && i == len(buf)-1 {
			dval, neg, ok := d.charset.OverpunchDigit(b)
			if !ok {
				return nil, fmt.Errorf("invalid zoned sign overpunch byte 0x%02x", b)
			}
			digit, negative = dval, neg
		} else {
			dval, ok := d.charset.Digit(b)
			if !ok {
				return nil, fmt.Errorf("invalid zoned digit byte 0x%02x", b)
			}
			digit = dval
		}
		v.Mul(v, bigTen)
		v.Add(v, big.NewInt(int64(digit)))
	}
	if negative {
		v.Neg(v)
	}
	return d.unscale(ft, v), nil
}

func (d *DynCb) decodePacked(ft *FieldType, buf []byte) (any, error) {
	v := new(big.Int)
	nibbleCount := len(buf) * 2
	for i := 0; i < nibbleCount-1; i++ {
		nibble := buf[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble > 9 {
			return nil, fmt.Errorf("invalid packed digit nibble 0x%x at position %d", nibble, i)
		}
		v.Mul(v, bigTen)
		v.Add(v, big.NewInt(int64(nibble)))
	}
	sign := buf[len(buf)-1] & 0x0f
	if sign < 0x0a {
		return nil, fmt.Errorf("invalid packed sign nibble 0x%x", sign)
	}
	if sign == 0x0d || sign == 0x0b {
		v.Neg(v)
	}
	return d.unscale(ft, v), nil
}

func (d *DynCb) decodeBinary(ft *FieldType, buf []byte) (any, error) {
	v := new(big.Int)
	if w := len(buf); ft.Digits() <= 18 {
		var u uint64
		for _, b := range buf {
			u = u<<8 | uint64(b)
		}
		if ft.Signed {
			shift := uint(64 - 8*w)
			v.SetInt64(int64(u<<shift) >> shift)
		} else {
			v.SetUint64(u)
		}
	} else {
		v.SetBytes(buf)
		if ft.Signed && buf[0]&0x80 != 0 {
			v.Sub(v, new(big.Int).Lsh(bigOne, uint(8*w)))
		}
	}
	return d.unscale(ft, v), nil
}

// unscale converts the stored integer back to the field's value
// representation, dividing out the implied decimal scale.
func (d *DynCb) unscale(ft *FieldType, v *big.Int) any {
	if ft.FracDigits > 0 {
		return decimal.NewFromBigInt(v, int32(-ft.FracDigits))
	}
	if ft.Digits() <= 18 {
		return v.Int64()
	}
	return v
}

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)
