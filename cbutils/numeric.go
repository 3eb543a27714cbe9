// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package cbutils

import "math/big"

// Pow10 returns 10^n as a big integer. Small exponents are served from a
// shared table; the returned value must not be mutated by the caller.
func Pow10(n int) *big.Int {
	if n >= 0 && n < len(pow10Table) {
		return pow10Table[n]
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

var pow10Table = func() []*big.Int {
	table := make([]*big.Int, 19)
	v := int64(1)
	for i := range table {
		table[i] = big.NewInt(v)
		if i < 18 {
			v *= 10
		}
	}
	return table
}()

// DigitLen returns the number of decimal digits in the absolute value of v.
// Zero counts as one digit.
func DigitLen(v *big.Int) int {
	if v.Sign() == 0 {
		return 1
	}
	abs := new(big.Int).Abs(v)
	digits := 0
	for _, limit := range pow10Table {
		if abs.Cmp(limit) < 0 {
			return digits
		}
		digits++
	}
	// beyond 10^18, fall back to the decimal string length
	return len(abs.Text(10))
}

// FitsDigits reports whether the absolute value of v can be stored in the
// given number of decimal digits.
func FitsDigits(v *big.Int, digits int) bool {
	return new(big.Int).Abs(v).Cmp(Pow10(digits)) < 0
}
