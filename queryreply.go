// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// isQueryRequest reports whether record (a complete inbound 3270 record,
// trailing IAC EOR still attached or not) is a Write Structured Field
// carrying a Read Partition Query (structured field ID 0x01), which this
// client must answer automatically with a Query Reply.
func isQueryRequest(record []byte, tn3270eMode bool) bool {
	data := stripEOR(record)

	offset := 0
	if tn3270eMode && len(data) >= 5 && data[0] == 0x00 {
		offset = 5
	}

	if offset >= len(data) {
		return false
	}

	if data[offset] != cmdWriteStructuredField {
		return false
	}
	offset++

	// Structured field: 2-byte length, then the SF ID.
	if offset+2 >= len(data) {
		return false
	}
	return data[offset+2] == 0x01
}

// buildQueryReply returns the canonical Query Reply body this client sends
// in response to a Read Partition Query: a structured-field AID followed by
// the Summary, Usable Area, Alphanumeric Partitions, Character Sets, Color,
// Highlighting, Reply Modes, and Implicit Partition query replies, ending
// in IAC EOR. It reports a fixed 24x80 display with 16-color, 5-highlight
// support. The TN3270E header, if any, is the caller's responsibility.
func buildQueryReply() []byte {
	var b []byte

	// AID for a structured-field response.
	b = append(b, 0x88)

	// Query Reply Summary: lists every query reply type below.
	b = append(b,
		0x00, 0x0E,
		0x81, 0x80,
		0x80, 0x81, 0x84, 0x85, 0x86, 0x87, 0x88, 0x95, 0xA1, 0xA6,
	)

	// Query Reply Usable Area: 24x80 display, 12/14-bit addressing.
	b = append(b,
		0x00, 0x17,
		0x81, 0x81,
		0x01,
		0x00, 0x00, 0x50, 0x00,
		0x18,
		0x01, 0x00, 0x0A,
		0x02, 0xE5, 0x00, 0x02, 0x00, 0x6F,
		0x09, 0x0C, 0x0A, 0x00, 0x00,
	)

	// Query Reply Alphanumeric Partitions.
	b = append(b,
		0x00, 0x08,
		0x81, 0x84,
		0x00, 0x0A, 0x00, 0x00,
	)

	// Query Reply Character Sets.
	b = append(b,
		0x00, 0x1B,
		0x81, 0x85,
		0x82, 0x00, 0x09, 0x0C, 0x00, 0x00, 0x00, 0x00,
		0x07, 0x00, 0x10, 0x00, 0x02, 0xB9, 0x00, 0x25,
		0x01, 0x00, 0xF1, 0x03, 0xC3, 0x01, 0x36,
	)

	// Query Reply Color: 16-color support.
	b = append(b,
		0x00, 0x26,
		0x81, 0x86,
		0x00, 0x10, 0x00,
		0xF4, 0xF1, 0xF1, 0xF2, 0xF2, 0xF3, 0xF3, 0xF4, 0xF4,
		0xF5, 0xF5, 0xF6, 0xF6, 0xF7, 0xF7, 0xF8, 0xF8,
		0xF9, 0xF9, 0xFA, 0xFA, 0xFB, 0xFB, 0xFC, 0xFC,
		0xFD, 0xFD, 0xFE, 0xFE, 0xFF, 0xFF, 0xFF, 0xFF,
	)

	// Query Reply Highlighting.
	b = append(b,
		0x00, 0x0F,
		0x81, 0x87,
		0x05,
		0x00, 0xF0,
		0xF1, 0xF1,
		0xF2, 0xF2,
		0xF4, 0xF4,
		0xF8, 0xF8,
	)

	// Query Reply Reply Modes: field, extended field, character.
	b = append(b,
		0x00, 0x07,
		0x81, 0x88,
		0x00, 0x01, 0x02,
	)

	// Query Reply Implicit Partition.
	b = append(b,
		0x00, 0x11,
		0x81, 0xA6,
		0x00, 0x00, 0x0B, 0x01,
		0x00, 0x00, 0x50, 0x00,
		0x18,
		0x00, 0x50, 0x00, 0x20,
	)

	b = append(b, tnIAC, tnEOR)
	return b
}
