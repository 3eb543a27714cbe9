// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package cbutils

import "fmt"

var (
	ErrGrammar                = fmt.Errorf("copybook declaration does not match the grammar")
	ErrUnsupportedFieldType   = fmt.Errorf("picture clause matches no supported field type")
	ErrFieldOverflow          = fmt.Errorf("value exceeds the declared field storage")
	ErrUnknownField           = fmt.Errorf("field name or index is not part of the layout")
	ErrInvalidAssignment      = fmt.Errorf("cannot assign a scalar value to a composite field")
	ErrMissingRedefinesTarget = fmt.Errorf("redefines target was not declared before this field")
	ErrSignMismatch           = fmt.Errorf("negative value assigned to an unsigned field")
	ErrBufferLength           = fmt.Errorf("buffer does not have the record length")
)
