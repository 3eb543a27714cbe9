// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// encodeField writes a typed value into the exact buffer slice of one scalar
// field. Values wider than the declared storage fail with
// cbutils.ErrFieldOverflow; negative values on unsigned pictures fail with
// cbutils.ErrSignMismatch. The buffer is only modified on success.
func (d *DynCb) encodeField(ft *FieldType, buf []byte, value any) error {
	if len(buf) != ft.Length {
		return fmt.Errorf("%w: field needs %d bytes, got %d", cbutils.ErrBufferLength, ft.Length, len(buf))
	}
	switch ft.Kind {
	case FieldAlphanumeric, FieldEdited:
		return d.encodeText(ft, buf, value)
	case FieldZoned:
		return d.encodeZoned(ft, buf, value)
	case FieldPacked:
		return d.encodePacked(ft, buf, value)
	case FieldBinary:
		return d.encodeBinary(ft, buf, value)
	default:
		return fmt.Errorf("%w: kind %v", cbutils.ErrUnsupportedFieldType, ft.Kind)
	}
}

func (d *DynCb) encodeText(ft *FieldType, buf []byte, value any) error {
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot encode %T into a text field", value)
	}
	encoded, err := d.charset.Encode(text)
	if err != nil {
		return err
	}
	if len(encoded) > ft.Length {
		return fmt.Errorf("%w: %d bytes into %d byte field", cbutils.ErrFieldOverflow, len(encoded), ft.Length)
	}
	copy(buf, encoded)
	cbutils.Fill(buf[len(encoded):], d.charset.Space)
	return nil
}

func (d *DynCb) encodeZoned(ft *FieldType, buf []byte, value any) error {
	v, err := d.scaledInt(ft, value)
	if err != nil {
		return err
	}
	digits := paddedDigits(v, ft.Digits())
	for i := 0; i < len(digits); i++ {
		buf[i] = d.charset.Digits[digits[i]]
	}
	if ft.Signed {
		last := digits[len(digits)-1]
		if v.Sign() < 0 {
			buf[len(buf)-1] = d.charset.NegativeOverpunch[last]
		} else {
			buf[len(buf)-1] = d.charset.PositiveOverpunch[last]
		}
	}
	return nil
}

func (d *DynCb) encodePacked(ft *FieldType, buf []byte, value any) error {
	v, err := d.scaledInt(ft, value)
	if err != nil {
		return err
	}
	digits := paddedDigits(v, len(buf)*2-1)
	nibbles := append(digits, 0x0c)
	if v.Sign() < 0 {
		nibbles[len(nibbles)-1] = 0x0d
	}
	for i := 0; i < len(buf); i++ {
		buf[i] = nibbles[i*2]<<4 | nibbles[i*2+1]
	}
	return nil
}

func (d *DynCb) encodeBinary(ft *FieldType, buf []byte, value any) error {
	v, err := d.scaledInt(ft, value)
	if err != nil {
		return err
	}
	w := len(buf)
	if ft.Digits() <= 18 {
		var u uint64
		if v.Sign() < 0 {
			u = uint64(v.Int64())
		} else {
			u = v.Uint64()
		}
		for i := w - 1; i >= 0; i-- {
			buf[i] = byte(u)
			u >>= 8
		}
		return nil
	}
	stored := v
	if v.Sign() < 0 {
		stored = new(big.Int).Add(v, new(big.Int).Lsh(bigOne, uint(8*w)))
	}
	raw := stored.Bytes()
	cbutils.Fill(buf[:w-len(raw)], 0)
	copy(buf[w-len(raw):], raw)
	return nil
}

// scaledInt coerces an encode input to the stored integer form of the field:
// the value multiplied by 10^FracDigits, rounded to an integer. Go integer
// kinds, *big.Int, decimal.Decimal, floats and numeric strings are accepted.
func (d *DynCb) scaledInt(ft *FieldType, value any) (*big.Int, error) {
	var v *big.Int
	switch val := value.(type) {
	case int:
		v = scaleInt64(int64(val), ft.FracDigits)
	case int8:
		v = scaleInt64(int64(val), ft.FracDigits)
	case int16:
		v = scaleInt64(int64(val), ft.FracDigits)
	case int32:
		v = scaleInt64(int64(val), ft.FracDigits)
	case int64:
		v = scaleInt64(val, ft.FracDigits)
	case uint:
		v = scaleUint64(uint64(val), ft.FracDigits)
	case uint8:
		v = scaleUint64(uint64(val), ft.FracDigits)
	case uint16:
		v = scaleUint64(uint64(val), ft.FracDigits)
	case uint32:
		v = scaleUint64(uint64(val), ft.FracDigits)
	case uint64:
		v = scaleUint64(val, ft.FracDigits)
	case *big.Int:
		v = new(big.Int).Mul(val, cbutils.Pow10(ft.FracDigits))
	case decimal.Decimal:
		v = val.Shift(int32(ft.FracDigits)).Round(0).BigInt()
	case float32:
		v = decimal.NewFromFloat32(val).Shift(int32(ft.FracDigits)).Round(0).BigInt()
	case float64:
		v = decimal.NewFromFloat(val).Shift(int32(ft.FracDigits)).Round(0).BigInt()
	case string:
		dec, err := decimal.NewFromString(val)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %q into a numeric field: %v", val, err)
		}
		v = dec.Shift(int32(ft.FracDigits)).Round(0).BigInt()
	default:
		return nil, fmt.Errorf("cannot encode %T into a numeric field", value)
	}
	if v.Sign() < 0 && !ft.Signed {
		return nil, fmt.Errorf("%w: %s", cbutils.ErrSignMismatch, v)
	}
	if !cbutils.FitsDigits(v, ft.Digits()) {
		return nil, fmt.Errorf("%w: %s exceeds %d digits", cbutils.ErrFieldOverflow, v, ft.Digits())
	}
	return v, nil
}

func scaleInt64(v int64, frac int) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), cbutils.Pow10(frac))
}

func scaleUint64(v uint64, frac int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(v), cbutils.Pow10(frac))
}

// paddedDigits returns the absolute decimal digits of v, left padded with
// zeros to the given width.
func paddedDigits(v *big.Int, width int) []byte {
	text := new(big.Int).Abs(v).Text(10)
	digits := make([]byte, width)
	offset := width - len(text)
	for i := 0; i < len(text); i++ {
		digits[offset+i] = text[i] - '0'
	}
	return digits
}
