// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"
)

// connState is a Connection's place in the dial/negotiate/active lifecycle.
type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
	stateNegotiatingTN3270E
	stateTN3270EActive
)

// DialOptions configures a Dial call.
type DialOptions struct {
	// TLS wraps the connection in TLS after the TCP handshake.
	TLS bool

	// TLSConfig, if set, is used verbatim for the TLS handshake. If TLS is
	// true and TLSConfig is nil, a config with InsecureSkipVerify is used:
	// mainframe TN3270E endpoints are routinely reached through
	// self-signed certificates or load balancers with no relationship to
	// the dialed hostname, so certificate validation is opt-in, not
	// default.
	TLSConfig *tls.Config

	// ConnectTimeout bounds the TCP dial (and TLS handshake, if any).
	// Zero means 30 seconds.
	ConnectTimeout time.Duration

	// EventBuffer sets the capacity of the channel returned by
	// Connection.Events. Zero means 32.
	EventBuffer int
}

// Connection is a single TN3270/TN3270E session: a TCP (optionally TLS)
// connection to a host, the Telnet/TN3270E negotiation state built on top
// of it, and the Screen it paints.
type Connection struct {
	conn net.Conn

	screen *Screen
	events chan Event
	done   chan struct{}

	sendMu sync.Mutex
	seq    uint16

	stateMu  sync.Mutex
	curState connState

	tn3270eMode         bool
	negotiationComplete bool
	negotiatedFunctions []byte

	closeOnce sync.Once
}

// Dial opens a TN3270/TN3270E connection to host:port and starts its
// background receive loop. The returned Connection is ready to have AID
// responses sent on it once the caller has observed a DataRecordEvent.
func Dial(ctx context.Context, host string, port int, opts DialOptions) (*Connection, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 32
	}

	dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	logInfo("connecting to %s (tls=%v)", addr, opts.TLS)

	var d net.Dialer
	rawConn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		kind := classifyDialErr(err)
		logError("connect failed: %v", err)
		return nil, newConnError(kind, fmt.Sprintf("dial %s", addr), err)
	}

	conn := net.Conn(rawConn)
	if opts.TLS {
		tlsConfig := opts.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		}
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(dialCtx); err != nil {
			conn.Close()
			return nil, newConnError(ErrTransport, "tls handshake", err)
		}
		conn = tlsConn
	}

	c := &Connection{
		conn:   conn,
		screen: NewScreen(),
		events: make(chan Event, opts.EventBuffer),
		done:   make(chan struct{}),
	}
	c.setState(stateConnected)

	go c.receiveLoop()
	c.emit(ConnectedEvent{})

	return c, nil
}

func classifyDialErr(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrConnectTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrDNSFailure
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrConnectionRefused
	}
	return ErrTransport
}

// Events returns the channel this connection delivers events on. The
// channel is closed after the final DisconnectedEvent.
func (c *Connection) Events() <-chan Event {
	return c.events
}

// Screen returns the screen buffer this connection maintains. It is the
// same instance for the life of the connection.
func (c *Connection) Screen() *Screen {
	return c.screen
}

// Close ends the connection. It is safe to call more than once and safe to
// call from any goroutine.
func (c *Connection) Close() error {
	c.closeWithErr(nil)
	return nil
}

func (c *Connection) state() connState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.curState
}

func (c *Connection) setState(s connState) {
	c.stateMu.Lock()
	c.curState = s
	c.stateMu.Unlock()
}

func (c *Connection) emit(e Event) {
	select {
	case c.events <- e:
	case <-c.done:
	}
}

func (c *Connection) closeWithErr(err error) {
	c.closeOnce.Do(func() {
		c.setState(stateDisconnected)
		c.conn.Close()
		logInfo("disconnecting")
		if err != nil {
			var cerr *ConnError
			if !errors.As(err, &cerr) {
				cerr = newConnError(ErrTransport, "connection", err)
			}
			c.emit(ErrorEvent{Err: cerr})
		}
		c.emit(DisconnectedEvent{Err: err})
		close(c.done)
		close(c.events)
	})
}

// send writes data to the connection, serialized against concurrent
// AID responses and Query Replies.
func (c *Connection) send(data []byte) error {
	c.sendMu.Lock()
	_, err := c.conn.Write(data)
	c.sendMu.Unlock()

	if err != nil {
		logError("send failed: %v", err)
		c.closeWithErr(newConnError(ErrTransport, "send", err))
		return err
	}
	debugf("sent %d bytes", len(data))
	return nil
}

// sendRecord prepends a TN3270E header carrying the next outbound sequence
// number (if tn3270eMode is set) and writes the resulting record to the
// connection. The sequence number is read, incremented, and written to the
// socket inside one critical section, so that concurrent SendAID/Query
// Reply calls cannot issue a sequence number out of the order their bytes
// actually hit the wire.
func (c *Connection) sendRecord(dataType byte, body []byte) error {
	c.sendMu.Lock()
	var out []byte
	if c.tn3270eMode {
		seq := c.seq
		c.seq++
		out = append(out, dataType, 0x00, 0x00, byte(seq>>8), byte(seq))
	}
	out = append(out, body...)
	_, err := c.conn.Write(out)
	c.sendMu.Unlock()

	if err != nil {
		logError("send failed: %v", err)
		c.closeWithErr(newConnError(ErrTransport, "send", err))
		return err
	}
	debugf("sent %d bytes", len(out))
	return nil
}

// SendAID submits the current screen state to the host as if the operator
// pressed aid. Short-read AIDs (Clear, PA1-PA3) carry no field data; all
// others send the unformatted screen content or every modified field,
// depending on whether the screen has fields installed. Modified flags are
// cleared after a successful send, matching the protocol's own MDT reset.
func (c *Connection) SendAID(aid AID) error {
	if c.state() == stateDisconnected {
		return newConnError(ErrPeerClosed, "send AID", nil)
	}

	var body []byte
	body = append(body, byte(aid))

	cursor := encodeBufferAddress(c.screen.CursorPos)
	body = append(body, cursor[:]...)

	if !shortReadAIDs[aid] {
		if c.screen.IsUnformatted() {
			if data := c.screen.UnformattedData(); data != "" {
				body = append(body, a2e(data)...)
			}
		} else {
			for _, f := range c.screen.ModifiedFields() {
				body = append(body, orderSBA)
				addr := encodeBufferAddress(f.StartPos)
				body = append(body, addr[:]...)
				body = append(body, a2e(f.Data)...)
			}
		}
	}

	body = append(body, tnIAC, tnEOR)

	if err := c.sendRecord(0x00, body); err != nil {
		return err
	}
	c.screen.ClearModifiedFlags()
	return nil
}

func (c *Connection) sendQueryReply() {
	body := buildQueryReply()
	debugf("responding to Read Partition Query with %d bytes", len(body))
	c.sendRecord(0x00, body)
}

// receiveLoop reads off the wire, accumulating bytes into buf until it has
// enough for Telnet commands/subnegotiations or a complete 3270 record.
func (c *Connection) receiveLoop() {
	debugf("receive loop started")
	const readSize = 65536
	tmp := make([]byte, readSize)
	var buf []byte

	for {
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
			debugf("received %d bytes", n)
			buf = c.processBuffer(buf)
		}
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if errors.Is(err, io.EOF) {
				logInfo("server closed connection")
				c.closeWithErr(newConnError(ErrPeerClosed, "receive", err))
			} else {
				logError("receive error: %v", err)
				c.closeWithErr(newConnError(ErrTransport, "receive", err))
			}
			return
		}
	}
}

// processBuffer consumes as many complete Telnet commands, subnegotiations,
// and 3270 records as buf currently holds, and returns the unconsumed tail.
func (c *Connection) processBuffer(buf []byte) []byte {
readLoop:
	for len(buf) > 0 {
		if buf[0] == tnIAC && len(buf) >= 2 {
			cmd := buf[1]
			switch cmd {
			case tnDO, tnDONT, tnWILL, tnWONT:
				if len(buf) < 3 {
					break readLoop
				}
				c.handleTelnetCommand(buf[:3])
				buf = buf[3:]
				continue
			case tnSB:
				idx := findSubnegEnd(buf)
				if idx == -1 {
					break readLoop
				}
				c.handleSubnegotiation(buf[:idx+2])
				buf = buf[idx+2:]
				continue
			case tnEOR:
				buf = buf[2:]
				continue
			case tnIAC:
				buf = buf[1:] // escaped 0xFF: keep one as data
				continue
			}
		}

		eorIdx := findEOR(buf)
		if eorIdx == -1 {
			break
		}
		record := buf[:eorIdx+2]
		buf = buf[eorIdx+2:]

		if isQueryRequest(record, c.tn3270eMode) {
			debugf("responding to Read Partition Query")
			c.sendQueryReply()
			continue
		}

		c.deliverRecord(record)
	}
	return buf
}

func (c *Connection) deliverRecord(record []byte) {
	var mode *bool
	if c.negotiationComplete {
		v := true
		mode = &v
	}
	if cerr := c.screen.ProcessRecord(record, mode); cerr != nil {
		c.emit(ErrorEvent{Err: cerr})
	}
	c.emit(DataRecordEvent{Screen: c.screen})
}

func findSubnegEnd(buf []byte) int {
	for i := 2; i < len(buf)-1; i++ {
		if buf[i] == tnIAC && buf[i+1] == tnSE {
			return i
		}
	}
	return -1
}

func findEOR(buf []byte) int {
	for i := 0; i < len(buf)-1; i++ {
		if buf[i] == tnIAC && buf[i+1] == tnEOR {
			return i
		}
	}
	return -1
}

func (c *Connection) handleTelnetCommand(packet []byte) {
	cmd, opt := packet[1], packet[2]
	debugf("telnet command: %#02x %s", cmd, optName(opt))

	switch cmd {
	case tnDO:
		if supportedOptions[opt] {
			c.send([]byte{tnIAC, tnWILL, opt})
			if opt == optTN3270E {
				c.tn3270eMode = true
				c.setState(stateNegotiatingTN3270E)
				logInfo("TN3270E mode enabled")
			}
		} else {
			c.send([]byte{tnIAC, tnWONT, opt})
		}
	case tnWILL:
		if supportedOptions[opt] {
			c.send([]byte{tnIAC, tnDO, opt})
		} else {
			c.send([]byte{tnIAC, tnDONT, opt})
		}
	case tnDONT:
		c.send([]byte{tnIAC, tnWONT, opt})
		if opt == optTN3270E {
			c.tn3270eMode = false
		}
	case tnWONT:
		c.send([]byte{tnIAC, tnDONT, opt})
	}
}

func (c *Connection) handleSubnegotiation(packet []byte) {
	if len(packet) < 4 {
		return
	}
	opt := packet[2]

	switch opt {
	case optTerminalType:
		if len(packet) > 3 && packet[3] == 0x01 { // SEND
			debugf("sending terminal type: %s", terminalType)
			resp := []byte{tnIAC, tnSB, optTerminalType, 0x00}
			resp = append(resp, terminalType...)
			resp = append(resp, tnIAC, tnSE)
			c.send(resp)
		}
	case optTN3270E:
		c.handleTN3270ESubnegotiation(packet)
	}
}

func (c *Connection) handleTN3270ESubnegotiation(packet []byte) {
	if len(packet) < 5 {
		return
	}
	subCmd := packet[3]

	switch {
	case subCmd == tn3270eSend && len(packet) > 4 && packet[4] == tn3270eDeviceType:
		debugf("TN3270E: sending device type request")
		resp := []byte{tnIAC, tnSB, optTN3270E, tn3270eDeviceType, tn3270eRequest}
		resp = append(resp, terminalType...)
		resp = append(resp, tnIAC, tnSE)
		c.send(resp)

	case subCmd == tn3270eDeviceType && len(packet) > 4 && packet[4] == tn3270eIs:
		debugf("TN3270E: device type accepted, sending functions request")
		resp := []byte{
			tnIAC, tnSB, optTN3270E,
			tn3270eFunctions, tn3270eRequest,
			tn3270eFuncBindImage, tn3270eFuncResponses, tn3270eFuncSysReq,
			tnIAC, tnSE,
		}
		c.send(resp)

	case subCmd == tn3270eFunctions && len(packet) > 4 && packet[4] == tn3270eIs:
		c.negotiatedFunctions = append([]byte(nil), packet[5:len(packet)-2]...)
		c.negotiationComplete = true
		c.setState(stateTN3270EActive)
		logInfo("TN3270E negotiation complete, functions: %v", c.negotiatedFunctions)

	case subCmd == tn3270eReject:
		logWarn("TN3270E: server rejected TN3270E, falling back to TN3270")
		c.tn3270eMode = false
	}
}
