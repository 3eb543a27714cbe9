// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"

	"github.com/casbin/govaluate"
)

type cachedSpecValue struct {
	resolved bool
	value    uint64
}

// getSpecValue evaluates a spec-value expression against the values the
// instance was created with. Expressions are parsed once and the result is
// cached per instance. Names inside expressions use underscores; dashed keys
// are aliased at construction time.
func (d *DynCb) getSpecValue(name string) (bool, uint64, error) {
	if cachedValue := d.specValueCache[name]; cachedValue != nil {
		return cachedValue.resolved, cachedValue.value, nil
	}

	cachedValue := &cachedSpecValue{}
	expression, err := govaluate.NewEvaluableExpression(name)
	if err != nil {
		return false, 0, fmt.Errorf("error parsing spec value expression: %v", err)
	}

	result, err := expression.Evaluate(d.specValues)
	if err == nil {
		value, ok := result.(float64)
		if ok {
			cachedValue.resolved = true
			cachedValue.value = uint64(value)
			if float64(cachedValue.value) < value {
				// fractional result - round up, a repeat count cannot be partial
				cachedValue.value++
			}
		}
	}

	d.specValueCache[name] = cachedValue
	return cachedValue.resolved, cachedValue.value, nil
}
