// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

// Package transact defines the boundary to an external transaction
// processor: a blocking "send bytes, receive bytes" exchange addressed by
// program name. The record core only supplies and consumes raw buffers
// around the call; transport, retries and timeouts belong to the Caller
// implementation.
package transact

import (
	"context"
	"fmt"
	"sync"

	dyncb "github.com/mframe-io/dynamic-copybook"
)

// Caller performs one blocking request/response exchange with a named
// transaction program.
type Caller interface {
	Call(ctx context.Context, program string, input []byte) ([]byte, error)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, program string, input []byte) ([]byte, error)

func (f CallerFunc) Call(ctx context.Context, program string, input []byte) ([]byte, error) {
	return f(ctx, program, input)
}

// Exchange sends a record's bytes to a transaction program and wraps the
// reply bytes in a record of the reply layout. The input record is not
// modified; the reply record owns the returned buffer.
func Exchange(ctx context.Context, caller Caller, program string, input *dyncb.Record, reply *dyncb.Layout) (*dyncb.Record, error) {
	output, err := caller.Call(ctx, program, input.Bytes())
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", program, err)
	}
	record, err := reply.NewRecord(output)
	if err != nil {
		return nil, fmt.Errorf("reply of %s: %w", program, err)
	}
	return record, nil
}

// Handler processes one transaction exchange over record accessors. The
// input record wraps the caller's bytes; the returned record supplies the
// reply bytes.
type Handler func(ctx context.Context, input *dyncb.Record) (*dyncb.Record, error)

// Dispatcher is an in-process Caller that routes program names to Go
// handlers. It stands in for a remote transaction processor in tests and
// embedded deployments.
type Dispatcher struct {
	mutex    sync.RWMutex
	programs map[string]dispatcherProgram
}

type dispatcherProgram struct {
	layout  *dyncb.Layout
	handler Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{programs: map[string]dispatcherProgram{}}
}

// Register binds a program name to a handler. The layout describes the
// commarea the handler receives.
func (d *Dispatcher) Register(program string, layout *dyncb.Layout, handler Handler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.programs[program] = dispatcherProgram{layout: layout, handler: handler}
}

func (d *Dispatcher) Call(ctx context.Context, program string, input []byte) ([]byte, error) {
	d.mutex.RLock()
	entry, ok := d.programs[program]
	d.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown transaction program %q", program)
	}
	record, err := entry.layout.NewRecord(input)
	if err != nil {
		return nil, fmt.Errorf("input of %s: %w", program, err)
	}
	reply, err := entry.handler(ctx, record)
	if err != nil {
		return nil, err
	}
	return reply.Bytes(), nil
}
