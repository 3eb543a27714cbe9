// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package cbutils

import (
	"math/big"
	"testing"
)

func TestPow10(t *testing.T) {
	testCases := []struct {
		n    int
		want string
	}{
		{0, "1"},
		{1, "10"},
		{4, "10000"},
		{18, "1000000000000000000"},
		{20, "100000000000000000000"},
	}
	for _, tc := range testCases {
		if got := Pow10(tc.n).String(); got != tc.want {
			t.Errorf("Pow10(%d) = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestFitsDigits(t *testing.T) {
	testCases := []struct {
		value  string
		digits int
		want   bool
	}{
		{"0", 1, true},
		{"9", 1, true},
		{"10", 1, false},
		{"-999", 3, true},
		{"-1000", 3, false},
		{"999999999999999999999", 21, true},
		{"999999999999999999999", 20, false},
	}
	for _, tc := range testCases {
		v, _ := new(big.Int).SetString(tc.value, 10)
		if got := FitsDigits(v, tc.digits); got != tc.want {
			t.Errorf("FitsDigits(%s, %d) = %v, want %v", tc.value, tc.digits, got, tc.want)
		}
	}
}

func TestDigitLen(t *testing.T) {
	testCases := []struct {
		value string
		want  int
	}{
		{"0", 1},
		{"7", 1},
		{"-42", 2},
		{"1000000000000000000", 19},
		{"99999999999999999999", 20},
	}
	for _, tc := range testCases {
		v, _ := new(big.Int).SetString(tc.value, 10)
		if got := DigitLen(v); got != tc.want {
			t.Errorf("DigitLen(%s) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestAppendZeroPadding(t *testing.T) {
	buf := AppendZeroPadding([]byte{1}, 2000)
	if len(buf) != 2001 {
		t.Fatalf("padded length = %d, want 2001", len(buf))
	}
	for _, b := range buf[1:] {
		if b != 0 {
			t.Fatal("padding contains non-zero bytes")
		}
	}
}

func TestFill(t *testing.T) {
	buf := make([]byte, 4)
	Fill(buf, 0x40)
	for _, b := range buf {
		if b != 0x40 {
			t.Fatalf("Fill produced 0x%x", buf)
		}
	}
}
