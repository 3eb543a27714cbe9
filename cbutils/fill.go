// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package cbutils

var zeroBytes []byte

func ZeroBytes() []byte {
	if len(zeroBytes) == 0 {
		zeroBytes = make([]byte, 1024)
	}
	return zeroBytes
}

// AppendZeroPadding appends the specified number of zero bytes to buf
func AppendZeroPadding(buf []byte, count int) []byte {
	zero := ZeroBytes()
	for count > 0 {
		toCopy := count
		if toCopy > len(zero) {
			toCopy = len(zero)
		}
		buf = append(buf, zero[:toCopy]...)
		count -= toCopy
	}
	return buf
}

// Fill overwrites every byte of dst with b
func Fill(dst []byte, b byte) {
	for i := range dst {
		dst[i] = b
	}
}
