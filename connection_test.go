// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnection wires a Connection to one end of an in-process pipe and
// returns the other end, so tests can observe what the connection writes
// without a real socket.
func newTestConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()
	clientSide, testSide := net.Pipe()
	c := &Connection{
		conn:     clientSide,
		screen:   NewScreen(),
		events:   make(chan Event, 8),
		done:     make(chan struct{}),
		curState: stateConnected,
	}
	return c, testSide
}

// readAll reads whatever testSide has to offer within a short window. Used
// against net.Pipe, which is synchronous, so the read must run concurrently
// with the write under test.
func readAll(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	buf := make([]byte, 256)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestFindEORLocatesIACEOR(t *testing.T) {
	buf := []byte{0x01, 0x02, tnIAC, tnEOR, 0x03}
	assert.Equal(t, 2, findEOR(buf))
}

func TestFindEORNotFound(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	assert.Equal(t, -1, findEOR(buf))
}

func TestFindSubnegEndLocatesIACSE(t *testing.T) {
	buf := []byte{tnIAC, tnSB, optTerminalType, 0x01, tnIAC, tnSE}
	assert.Equal(t, 4, findSubnegEnd(buf))
}

func TestProcessBufferHoldsIncompleteRecord(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	buf := []byte{cmdEraseWrite, 0x00, 0x01, 0x02} // no trailing IAC EOR yet
	remaining := c.processBuffer(buf)

	assert.Len(t, remaining, len(buf), "incomplete record should be held back untouched")
	select {
	case ev := <-c.events:
		t.Fatalf("no event should fire for an incomplete record, got %#v", ev)
	default:
	}
}

func TestProcessBufferDeliversCompleteRecord(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	buf := []byte{cmdEraseWrite, 0x00, tnIAC, tnEOR}
	remaining := c.processBuffer(buf)

	assert.Empty(t, remaining, "complete record should be fully consumed")

	select {
	case ev := <-c.events:
		_, ok := ev.(DataRecordEvent)
		assert.True(t, ok, "expected DataRecordEvent, got %#v", ev)
	default:
		t.Fatal("expected a DataRecordEvent to be emitted")
	}
}

func TestHandleTelnetCommandAcceptsSupportedDo(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	done := make(chan []byte, 1)
	go func() { done <- readAll(t, testSide) }()

	c.handleTelnetCommand([]byte{tnIAC, tnDO, optBinary})

	assert.Equal(t, []byte{tnIAC, tnWILL, optBinary}, <-done)
}

func TestHandleTelnetCommandRejectsUnsupportedDo(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	done := make(chan []byte, 1)
	go func() { done <- readAll(t, testSide) }()

	c.handleTelnetCommand([]byte{tnIAC, tnDO, 0x99})

	assert.Equal(t, []byte{tnIAC, tnWONT, 0x99}, <-done)
}

func TestHandleTelnetCommandDoTN3270EEntersNegotiating(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	done := make(chan []byte, 1)
	go func() { done <- readAll(t, testSide) }()

	c.handleTelnetCommand([]byte{tnIAC, tnDO, optTN3270E})
	<-done

	require.True(t, c.tn3270eMode, "tn3270eMode should be set after DO TN3270E")
	assert.Equal(t, stateNegotiatingTN3270E, c.state())
}

func TestSendAIDClearIsShortRead(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	done := make(chan []byte, 1)
	go func() { done <- readAll(t, testSide) }()

	require.NoError(t, c.SendAID(AIDClear))

	cursor := encodeBufferAddress(0)
	want := []byte{byte(AIDClear), cursor[0], cursor[1], tnIAC, tnEOR}
	assert.Equal(t, want, <-done)
}

func TestSendAIDEnterIncludesModifiedFields(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()

	c.screen.startField(0, fieldMDT) // unprotected, modified
	c.screen.Cells[1].Char = 'H'
	c.screen.Cells[2].Char = 'I'

	done := make(chan []byte, 1)
	go func() { done <- readAll(t, testSide) }()

	require.NoError(t, c.SendAID(AIDEnter))

	cursor := encodeBufferAddress(0)
	fieldAddr := encodeBufferAddress(1)
	want := []byte{byte(AIDEnter), cursor[0], cursor[1]}
	want = append(want, orderSBA, fieldAddr[0], fieldAddr[1])
	want = append(want, a2e("HI")...)
	want = append(want, tnIAC, tnEOR)

	assert.Equal(t, want, <-done)
	assert.Empty(t, c.screen.ModifiedFields(), "SendAID should clear modified flags after sending")
}

func TestSendAIDPrependsTN3270EHeader(t *testing.T) {
	c, testSide := newTestConnection(t)
	defer testSide.Close()
	c.tn3270eMode = true

	done := make(chan []byte, 1)
	go func() { done <- readAll(t, testSide) }()

	require.NoError(t, c.SendAID(AIDClear))

	got := <-done
	require.GreaterOrEqual(t, len(got), 5, "response too short for a TN3270E header")

	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00} // data type 0x00, seq 0
	assert.Equal(t, want, got[:5])
}
