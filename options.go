// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import "github.com/mframe-io/dynamic-copybook/textenc"

type DynCbOption func(*DynCbOptions)

type DynCbOptions struct {
	Charset *textenc.Charset
	NoTrim  bool
	Verbose bool
	LogCb   func(format string, args ...any)
}

// WithCharset selects the byte<->text conversion for the instance. The
// default is textenc.ASCII(); pass textenc.EBCDIC() for mainframe records or
// a caller-built Charset for other code pages.
func WithCharset(charset *textenc.Charset) DynCbOption {
	return func(opts *DynCbOptions) {
		opts.Charset = charset
	}
}

// WithoutTrim disables right-trimming of trailing spaces on decoded
// alphanumeric fields.
func WithoutTrim() DynCbOption {
	return func(opts *DynCbOptions) {
		opts.NoTrim = true
	}
}

func WithVerbose() DynCbOption {
	return func(opts *DynCbOptions) {
		opts.Verbose = true
	}
}

func WithLogCb(logCb func(format string, args ...any)) DynCbOption {
	return func(opts *DynCbOptions) {
		opts.LogCb = logCb
	}
}
