// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"fmt"
	"io"
)

// Debug enables package debugging by pointing it at an io.Writer. Disable
// it again by setting it back to nil (the default).
var Debug io.Writer

// debugf prints to Debug if it isn't nil.
func debugf(format string, a ...interface{}) {
	logAt("dbg", format, a...)
}

// logInfo prints a connection lifecycle message (dial, negotiation complete,
// disconnect) to Debug if it isn't nil.
func logInfo(format string, a ...interface{}) {
	logAt("inf", format, a...)
}

// logWarn prints a tolerated protocol anomaly (unknown write command,
// unknown order, truncated record) to Debug if it isn't nil.
func logWarn(format string, a ...interface{}) {
	logAt("wrn", format, a...)
}

// logError prints a transport or negotiation failure to Debug if it isn't
// nil.
func logError(format string, a ...interface{}) {
	logAt("err", format, a...)
}

func logAt(level, format string, a ...interface{}) {
	if Debug == nil {
		return
	}
	fmt.Fprintf(Debug, "%s: ", level)
	fmt.Fprintf(Debug, format, a...)
	fmt.Fprintln(Debug)
}
