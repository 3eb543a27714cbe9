// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package dyncb

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mframe-io/dynamic-copybook/cbutils"
	"github.com/mframe-io/dynamic-copybook/textenc"
)

func fromHex(s string) []byte {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		panic(err)
	}
	return b
}

func mustPicture(t *testing.T, format string) *FieldType {
	t.Helper()
	ft, err := ParsePicture(format)
	if err != nil {
		t.Fatalf("ParsePicture(%q) failed: %v", format, err)
	}
	return ft
}

func TestCodecRoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		format  string
		value   any
		encoded []byte
		decoded any
	}{
		{"alnum_padded", "X(4)", "AB", []byte("AB  "), "AB"},
		{"alnum_full", "X(2)", "OK", []byte("OK"), "OK"},
		{"edited_opaque", "ZZ/ZZ", "12/34", []byte("12/34"), "12/34"},
		{"zoned_unsigned", "9(3)", 123, []byte("123"), int64(123)},
		{"zoned_zero_padded", "9(5)", 42, []byte("00042"), int64(42)},
		{"zoned_signed_positive", "S9(3)", 123, []byte("12C"), int64(123)},
		{"zoned_signed_negative", "S9(3)", -123, []byte("12L"), int64(-123)},
		{"zoned_signed_zero", "S9(1)", 0, []byte("{"), int64(0)},
		{"zoned_scaled", "9(3)V99", "123.45", []byte("12345"), decimal.RequireFromString("123.45")},
		{"packed_signed_negative", "S999 COMP-3", -123, fromHex("123d"), int64(-123)},
		{"packed_signed_positive", "S999 COMP-3", 123, fromHex("123c"), int64(123)},
		{"packed_even_digits", "9(4) COMP-3", 1234, fromHex("01234c"), int64(1234)},
		{"packed_scaled", "S9(3)V99 COMP-3", "-1.5", fromHex("00150d"), decimal.RequireFromString("-1.50")},
		{"binary_halfword", "S9(4) COMP", -123, fromHex("ff85"), int64(-123)},
		{"binary_fullword", "9(9) COMP", 123456789, fromHex("075bcd15"), int64(123456789)},
		{"binary_doubleword", "S9(18) COMP", int64(-1), fromHex("ffffffffffffffff"), int64(-1)},
		{"binary_scaled", "S9(5)V9(4) COMP", "12345.6789", fromHex("075bcd15"), decimal.RequireFromString("12345.6789")},
		{"binary_big", "9(20) COMP", newBigInt("12345678901234567890"), fromHex("00ab54a98ceb1f0ad2"), newBigInt("12345678901234567890")},
		{"binary_big_negative", "S9(20) COMP", newBigInt("-12345678901234567890"), fromHex("ff54ab567314e0f52e"), newBigInt("-12345678901234567890")},
		{"binary_signed_19_digits", "S9(19) COMP", newBigInt("9500000000000000000"), fromHex("0083d6c7aab6360000"), newBigInt("9500000000000000000")},
		{"binary_signed_19_digits_min", "S9(19) COMP", newBigInt("-9999999999999999999"), fromHex("ff753cdcfb76180001"), newBigInt("-9999999999999999999")},
		{"binary_signed_24_digits", "S9(24) COMP", newBigInt("604462909807314587353088"), fromHex("0080000000000000000000"), newBigInt("604462909807314587353088")},
	}

	ds := NewDynCb(nil)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ft := mustPicture(t, tc.format)
			buf := make([]byte, ft.Length)
			if err := ds.encodeField(ft, buf, tc.value); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if !bytes.Equal(buf, tc.encoded) {
				t.Fatalf("encoded 0x%x, want 0x%x", buf, tc.encoded)
			}
			got, err := ds.decodeField(ft, buf)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			assertValue(t, got, tc.decoded)
		})
	}
}

func newBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int literal " + s)
	}
	return v
}

func assertValue(t *testing.T, got, want any) {
	t.Helper()
	switch wantVal := want.(type) {
	case decimal.Decimal:
		gotDec, ok := got.(decimal.Decimal)
		if !ok || !gotDec.Equal(wantVal) {
			t.Errorf("decoded %v (%T), want %v", got, got, wantVal)
		}
	case *big.Int:
		gotBig, ok := got.(*big.Int)
		if !ok || gotBig.Cmp(wantVal) != 0 {
			t.Errorf("decoded %v (%T), want %v", got, got, wantVal)
		}
	default:
		if got != want {
			t.Errorf("decoded %v (%T), want %v (%T)", got, got, want, want)
		}
	}
}

func TestCodecEbcdicZoned(t *testing.T) {
	ds := NewDynCb(nil, WithCharset(textenc.EBCDIC()))
	ft := mustPicture(t, "S9(3)")
	buf := make([]byte, ft.Length)

	if err := ds.encodeField(ft, buf, -15); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if want := fromHex("f0f1d5"); !bytes.Equal(buf, want) {
		t.Fatalf("encoded 0x%x, want 0x%x", buf, want)
	}
	got, err := ds.decodeField(ft, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != int64(-15) {
		t.Errorf("decoded %v, want -15", got)
	}
}

func TestCodecEbcdicText(t *testing.T) {
	ds := NewDynCb(nil, WithCharset(textenc.EBCDIC()))
	ft := mustPicture(t, "X(4)")
	buf := make([]byte, ft.Length)

	if err := ds.encodeField(ft, buf, "OK"); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if want := fromHex("d6d24040"); !bytes.Equal(buf, want) {
		t.Fatalf("encoded 0x%x, want 0x%x", buf, want)
	}
	got, err := ds.decodeField(ft, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != "OK" {
		t.Errorf("decoded %q, want %q", got, "OK")
	}
}

func TestCodecTrimOption(t *testing.T) {
	ds := NewDynCb(nil, WithoutTrim())
	ft := mustPicture(t, "X(4)")
	buf := []byte("AB  ")

	got, err := ds.decodeField(ft, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != "AB  " {
		t.Errorf("decoded %q, want %q", got, "AB  ")
	}
}

func TestCodecRejections(t *testing.T) {
	ds := NewDynCb(nil)
	testCases := []struct {
		name    string
		format  string
		value   any
		wantErr error
	}{
		{"zoned_overflow", "9(3)", 1234, cbutils.ErrFieldOverflow},
		{"zoned_scaled_overflow", "9(3)V99", "1234.00", cbutils.ErrFieldOverflow},
		{"packed_overflow", "S999 COMP-3", 1000, cbutils.ErrFieldOverflow},
		{"binary_overflow", "9(4) COMP", 10000, cbutils.ErrFieldOverflow},
		{"alnum_overflow", "X(2)", "ABC", cbutils.ErrFieldOverflow},
		{"unsigned_negative", "9(3)", -5, cbutils.ErrSignMismatch},
		{"unsigned_negative_packed", "9(4) COMP-3", -1, cbutils.ErrSignMismatch},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ft := mustPicture(t, tc.format)
			buf := make([]byte, ft.Length)
			err := ds.encodeField(ft, buf, tc.value)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("encode = %v, want %v", err, tc.wantErr)
			}
			for _, b := range buf {
				if b != 0 {
					t.Fatal("buffer was modified by a failed encode")
				}
			}
		})
	}
}
