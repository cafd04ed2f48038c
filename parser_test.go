// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRecordSNAWriteCommand(t *testing.T) {
	s := NewScreen()
	addr := encodeBufferAddress(0)
	// SBA(0) SF(protected) then EBCDIC 'H' at pos 1.
	data := []byte{cmdEraseWrite, 0x00,
		orderSBA, addr[0], addr[1],
		orderSF, fieldProtected,
		0xC8, // EBCDIC 'H'
		tnIAC, tnEOR,
	}

	s.ProcessRecord(data, nil)

	require.True(t, s.Cells[0].FieldStart, "cell 0 should be a field start")
	assert.Equal(t, 'H', s.Cells[1].Char)
	assert.True(t, s.Cells[1].Protected, "cell 1 should inherit protected from the field at 0")
}

func TestProcessRecordCCWWriteCommand(t *testing.T) {
	s := NewScreen()
	addr := encodeBufferAddress(5)
	data := []byte{cmdEraseWriteCCW, 0x00,
		orderSBA, addr[0], addr[1],
		0xC8, // EBCDIC 'H'
		tnIAC, tnEOR,
	}

	s.ProcessRecord(data, nil)

	assert.Equal(t, 'H', s.Cells[5].Char, "CCW-form write command should be recognized the same as its SNA counterpart")
}

func TestProcessRecordEraseWriteClearsScreen(t *testing.T) {
	s := NewScreen()
	s.Cells[0].Char = 'X'

	data := []byte{cmdEraseWrite, 0x00, tnIAC, tnEOR}
	s.ProcessRecord(data, nil)

	assert.Equal(t, ' ', s.Cells[0].Char)
}

func TestProcessRecordEraseAllUnprotected(t *testing.T) {
	s := NewScreen()
	s.startField(0, fieldMDT) // unprotected, modified
	s.Cells[1].Char = 'X'

	data := []byte{cmdEraseAllUnprotected, tnIAC, tnEOR}
	s.ProcessRecord(data, nil)

	assert.Equal(t, ' ', s.Cells[1].Char)
	assert.False(t, s.Fields[0].Modified, "EAU should clear the MDT")
}

func TestProcessRecordUnknownWriteCommandIgnored(t *testing.T) {
	s := NewScreen()
	s.Cells[0].Char = 'Z'

	data := []byte{0xAB, 0x00, tnIAC, tnEOR}
	s.ProcessRecord(data, nil) // should not panic, should leave the screen alone

	assert.Equal(t, 'Z', s.Cells[0].Char, "screen should be untouched by an unrecognized write command")
}

func TestProcessRecordInsertCursor(t *testing.T) {
	s := NewScreen()
	addr := encodeBufferAddress(42)
	data := []byte{cmdWrite, 0x00,
		orderSBA, addr[0], addr[1],
		orderIC,
		tnIAC, tnEOR,
	}
	s.ProcessRecord(data, nil)

	assert.Equal(t, 42, s.CursorPos)
}

func TestProcessRecordRepeatToAddress(t *testing.T) {
	s := NewScreen()
	start := encodeBufferAddress(0)
	end := encodeBufferAddress(5)
	data := []byte{cmdWrite, 0x00,
		orderSBA, start[0], start[1],
		orderRA, end[0], end[1], 0x4B, // EBCDIC '.'
		tnIAC, tnEOR,
	}
	s.ProcessRecord(data, nil)

	for i := 0; i < 5; i++ {
		assert.Equalf(t, '.', s.Cells[i].Char, "cell %d", i)
	}
	assert.Equal(t, ' ', s.Cells[5].Char, "RA end address should not itself be written")
}

func TestProcessRecordTN3270EHeaderSkippedWhenForced(t *testing.T) {
	s := NewScreen()
	tn3270e := true
	header := []byte{0x00, 0x00, 0x00, 0x00, 0x01}
	data := append(header, cmdEraseWrite, 0x00, tnIAC, tnEOR)

	s.ProcessRecord(data, &tn3270e)

	assert.True(t, s.TN3270E, "TN3270E flag should be set when forced")
}

func TestProcessRecordTN3270EAutoDetect(t *testing.T) {
	s := NewScreen()
	header := []byte{0x00, 0x00, 0x00, 0x00, 0x01}
	data := append(header, cmdEraseWrite, 0x00, tnIAC, tnEOR)

	s.ProcessRecord(data, nil)

	assert.True(t, s.TN3270E, "auto-detect should have recognized the TN3270E header")
}

func TestProcessRecordTruncatedSBAStopsWithoutPanicking(t *testing.T) {
	s := NewScreen()
	data := []byte{cmdWrite, 0x00, orderSBA, 0x00} // missing second address byte, no EOR

	assert.NotPanics(t, func() {
		s.ProcessRecord(data, nil)
	})
}

func TestProcessRecordTruncatedSBAReportsProtocolTruncation(t *testing.T) {
	s := NewScreen()
	data := []byte{cmdWrite, 0x00, orderSBA, 0x00}

	cerr := s.ProcessRecord(data, nil)

	require.NotNil(t, cerr, "truncated operand should be reported")
	assert.Equal(t, ErrProtocolTruncation, cerr.Kind)
}

func TestProcessRecordOrdersOnlyContinuation(t *testing.T) {
	s := NewScreen()
	addr := encodeBufferAddress(5)
	// No write command byte at all: the record starts directly with SBA,
	// as a server continuing a prior write with more orders-only data.
	data := []byte{orderSBA, addr[0], addr[1], 0xC8} // EBCDIC 'H'

	s.ProcessRecord(data, nil)

	assert.Equal(t, 'H', s.Cells[5].Char, "orders-only continuation should be applied starting at pos=0")
}

func TestProcessRecordUnrecognizedCommandByteStillIgnoredWhenNotAnOrder(t *testing.T) {
	s := NewScreen()
	s.Cells[0].Char = 'Z'

	// 0xAB matches neither a write command nor an order byte.
	data := []byte{0xAB, 0x00, tnIAC, tnEOR}
	cerr := s.ProcessRecord(data, nil)

	require.NotNil(t, cerr)
	assert.Equal(t, ErrUnknownWriteCommand, cerr.Kind)
	assert.Equal(t, 'Z', s.Cells[0].Char, "screen should be untouched")
}
