// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "fmt"

// ErrorKind classifies what went wrong on a Connection, so callers can
// react (retry, surface to an operator, ignore) without string-matching
// error text.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota

	// ErrConnectTimeout means the TCP dial did not complete within the
	// connect timeout.
	ErrConnectTimeout

	// ErrDNSFailure means the host name could not be resolved.
	ErrDNSFailure

	// ErrConnectionRefused means the remote host actively refused the
	// connection.
	ErrConnectionRefused

	// ErrTransport covers any other I/O failure on an established
	// connection (reset, broken pipe, TLS handshake failure, and so on).
	ErrTransport

	// ErrPeerClosed means the remote host closed the connection cleanly.
	ErrPeerClosed

	// ErrProtocolTruncation means an inbound record ended in the middle of
	// an order's operands. This is not fatal: the parser stops applying
	// that record and waits for the next one.
	ErrProtocolTruncation

	// ErrUnknownWriteCommand means a write command byte wasn't one this
	// client recognizes (SNA or CCW). The record is ignored.
	ErrUnknownWriteCommand

	// ErrUnknownOrder means an order byte wasn't one this client
	// recognizes. Non-fatal, the same as ErrUnknownWriteCommand.
	ErrUnknownOrder
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConnectTimeout:
		return "connect timeout"
	case ErrDNSFailure:
		return "dns failure"
	case ErrConnectionRefused:
		return "connection refused"
	case ErrTransport:
		return "transport error"
	case ErrPeerClosed:
		return "peer closed"
	case ErrProtocolTruncation:
		return "protocol truncation"
	case ErrUnknownWriteCommand:
		return "unknown write command"
	case ErrUnknownOrder:
		return "unknown order"
	default:
		return "unknown error"
	}
}

// ConnError is the error type returned for Connection failures. It wraps
// the underlying cause (if any) so callers can still errors.Is/As through
// to it.
type ConnError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ConnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

func newConnError(kind ErrorKind, msg string, err error) *ConnError {
	return &ConnError{Kind: kind, Msg: msg, Err: err}
}
