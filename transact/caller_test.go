// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package transact

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	dyncb "github.com/mframe-io/dynamic-copybook"
)

const requestCopybook = `01 REQUEST. 03 ACCOUNT PIC 9(6). 03 ACTION PIC X.`
const replyCopybook = `01 REPLY. 03 STATUS PIC X(2). 03 NEW-BALANCE PIC S9(7)V99 COMP-3.`

func TestDispatcherExchange(t *testing.T) {
	ds := dyncb.NewDynCb(nil)
	requestLayout, err := ds.CompileCopybook(requestCopybook)
	if err != nil {
		t.Fatalf("compile request copybook: %v", err)
	}
	replyLayout, err := ds.CompileCopybook(replyCopybook)
	if err != nil {
		t.Fatalf("compile reply copybook: %v", err)
	}

	dispatcher := NewDispatcher()
	dispatcher.Register("ACCT01", requestLayout, func(ctx context.Context, input *dyncb.Record) (*dyncb.Record, error) {
		account, err := input.Get("ACCOUNT")
		if err != nil {
			return nil, err
		}
		reply, err := replyLayout.NewRecord(nil)
		if err != nil {
			return nil, err
		}
		if err := reply.Set("STATUS", "OK"); err != nil {
			return nil, err
		}
		if err := reply.Set("NEW-BALANCE", account.(int64)); err != nil {
			return nil, err
		}
		return reply, nil
	})

	request, err := requestLayout.NewRecord(nil)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if err := request.Set("ACCOUNT", 123456); err != nil {
		t.Fatalf("Set ACCOUNT failed: %v", err)
	}
	if err := request.Set("ACTION", "Q"); err != nil {
		t.Fatalf("Set ACTION failed: %v", err)
	}

	reply, err := Exchange(context.Background(), dispatcher, "ACCT01", request, replyLayout)
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	status, err := reply.Get("STATUS")
	if err != nil || status != "OK" {
		t.Errorf("STATUS = %v, %v, want OK", status, err)
	}
	balance, err := reply.Get("NEW-BALANCE")
	if err != nil {
		t.Fatalf("Get NEW-BALANCE failed: %v", err)
	}
	if !balance.(decimal.Decimal).Equal(decimal.NewFromInt(123456)) {
		t.Errorf("NEW-BALANCE = %v, want 123456", balance)
	}
}

func TestDispatcherUnknownProgram(t *testing.T) {
	dispatcher := NewDispatcher()
	if _, err := dispatcher.Call(context.Background(), "NOPE", nil); err == nil {
		t.Error("unknown program accepted")
	}
}

func TestCallerFunc(t *testing.T) {
	var gotProgram string
	caller := CallerFunc(func(ctx context.Context, program string, input []byte) ([]byte, error) {
		gotProgram = program
		return input, nil
	})
	out, err := caller.Call(context.Background(), "ECHO", []byte("abc"))
	if err != nil || string(out) != "abc" || gotProgram != "ECHO" {
		t.Errorf("Call = %q, %v (program %q), want echo of abc", out, err, gotProgram)
	}
}
