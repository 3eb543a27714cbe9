// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package codegen

import (
	"strings"
	"testing"

	dyncb "github.com/mframe-io/dynamic-copybook"
)

var testCopybook = `
       01  CUSTOMER-REC.
           05  CUST-ID          PIC 9(6).
           05  CUST-NAME        PIC X(20).
           05  FILLER           PIC X(2).
           05  BALANCE          PIC S9(7)V99 COMP-3.
           05  ORDER-COUNT      PIC 9(4) COMP.
           05  ORDER-TOTALS     OCCURS 3 TIMES PIC S9(9) COMP.
`

func TestGenerate(t *testing.T) {
	layout, err := dyncb.CompileCopybook(testCopybook)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	source, err := Generate(layout, Options{Package: "bindings", TypeName: "CustomerRec"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	code := string(source)

	wantFragments := []string{
		"package bindings",
		"// Code generated by copybook-gen. DO NOT EDIT.",
		"type CustomerRec struct {",
		"func NewCustomerRec(rec *dyncb.Record) *CustomerRec {",
		"func (r *CustomerRec) CustId() (int64, error) {",
		"func (r *CustomerRec) SetCustId(v int64) error {",
		"func (r *CustomerRec) CustName() (string, error) {",
		"func (r *CustomerRec) Balance() (decimal.Decimal, error) {",
		"func (r *CustomerRec) SetBalance(v decimal.Decimal) error {",
		"func (r *CustomerRec) OrderTotals() (*dyncb.Array, error) {",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(code, fragment) {
			t.Errorf("generated source missing %q", fragment)
		}
	}

	// filler fields never get accessors, array views never get setters
	for _, fragment := range []string{"Filler", "SetOrderTotals"} {
		if strings.Contains(code, fragment) {
			t.Errorf("generated source unexpectedly contains %q", fragment)
		}
	}

	// the formatted binding keeps only imports it uses
	if strings.Contains(code, "math/big") {
		t.Error("unused math/big import survived formatting")
	}
}

func TestGenerateValidation(t *testing.T) {
	layout, err := dyncb.CompileCopybook(testCopybook)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if _, err := Generate(layout, Options{TypeName: "X"}); err == nil {
		t.Error("expected error for missing package name")
	}
	if _, err := Generate(layout, Options{Package: "p"}); err == nil {
		t.Error("expected error for missing type name")
	}
}

func TestMethodName(t *testing.T) {
	cases := map[string]string{
		"CUST_FIRST_NAME": "CustFirstName",
		"BALANCE":         "Balance",
		"A":               "A",
	}
	for in, want := range cases {
		if got := methodName(in); got != want {
			t.Errorf("methodName(%q) = %q, want %q", in, got, want)
		}
	}
}
