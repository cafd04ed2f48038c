// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "github.com/go3270client/tn3270/internal/codepage"

// e2a converts a slice of EBCDIC (CP037) bytes into a string. Bytes that
// don't land on a printable ASCII code point become a space.
func e2a(e []byte) string {
	return codepage.CP037.Decode(e)
}

// a2e converts a string into EBCDIC (CP037) bytes. Runes with no CP037
// mapping become 0x40 (space).
func a2e(s string) []byte {
	return codepage.CP037.Encode(s)
}
