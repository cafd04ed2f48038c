// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "fmt"

// Telnet command bytes (RFC 854), and the Telnet options and TN3270E
// subnegotiation constants (RFC 1647, RFC 2355) this module negotiates.
const (
	tnIAC  byte = 0xFF
	tnDONT byte = 0xFE
	tnDO   byte = 0xFD
	tnWONT byte = 0xFC
	tnWILL byte = 0xFB
	tnSB   byte = 0xFA
	tnSE   byte = 0xF0
	tnEOR  byte = 0xEF
)

const (
	optBinary       byte = 0x00
	optTerminalType byte = 0x18
	optEOR          byte = 0x19
	optTN3270E      byte = 0x28
)

// supportedOptions are the Telnet options this client will agree to.
var supportedOptions = map[byte]bool{
	optBinary:       true,
	optEOR:          true,
	optTN3270E:      true,
	optTerminalType: true,
}

func optName(opt byte) string {
	switch opt {
	case optBinary:
		return "BINARY"
	case optTerminalType:
		return "TERMINAL-TYPE"
	case optEOR:
		return "EOR"
	case optTN3270E:
		return "TN3270E"
	default:
		return fmt.Sprintf("UNKNOWN(%#02x)", opt)
	}
}

// TN3270E subnegotiation subcommands.
const (
	tn3270eAssociate  byte = 0x00
	tn3270eConnect    byte = 0x01
	tn3270eDeviceType byte = 0x02
	tn3270eFunctions  byte = 0x03
	tn3270eIs         byte = 0x04
	tn3270eReason     byte = 0x05
	tn3270eReject     byte = 0x06
	tn3270eRequest    byte = 0x07
	tn3270eSend       byte = 0x08
)

// TN3270E FUNCTIONS negotiation values. This client requests BIND-IMAGE,
// RESPONSES and SYSREQ; DATA-STREAM-CTL is defined but not requested.
const (
	tn3270eFuncBindImage     byte = 0x00
	tn3270eFuncDataStreamCtl byte = 0x02
	tn3270eFuncResponses     byte = 0x04
	tn3270eFuncSysReq        byte = 0x05
)

// terminalType is the device type this client advertises. IBM-3278-2-E is
// model 2 (24x80), "E" for extended (TN3270E-capable).
var terminalType = []byte("IBM-3278-2-E")

// 3270 write commands, SNA/LU2 form.
const (
	cmdWrite                byte = 0xF1
	cmdEraseWrite           byte = 0xF5
	cmdEraseWriteAlternate  byte = 0x7E
	cmdWriteStructuredField byte = 0xF3
	cmdEraseAllUnprotected  byte = 0x6F
)

// 3270 write commands, CCW (channel command word) form. Older hosts and
// channel-attached emulators use these instead of the SNA codes.
const (
	cmdWriteCCW               byte = 0x01
	cmdEraseWriteCCW          byte = 0x05
	cmdEraseWriteAlternateCCW byte = 0x0D
	cmdEraseAllUnprotectedCCW byte = 0x0F
)

// 3270 orders.
const (
	orderSF  byte = 0x1D // Start Field
	orderSFE byte = 0x29 // Start Field Extended
	orderSBA byte = 0x11 // Set Buffer Address
	orderSA  byte = 0x28 // Set Attribute
	orderMF  byte = 0x2C // Modify Field
	orderIC  byte = 0x13 // Insert Cursor
	orderPT  byte = 0x05 // Program Tab
	orderRA  byte = 0x3C // Repeat to Address
	orderEUA byte = 0x12 // Erase Unprotected to Address
	orderGE  byte = 0x08 // Graphic Escape
)

// Extended field attribute types (used by SFE and SA).
const (
	attrAll           byte = 0x00
	attr3270          byte = 0xC0
	attrValidation    byte = 0xC1
	attrOutlining     byte = 0xC2
	attrHighlighting  byte = 0x41
	attrForeground    byte = 0x42
	attrCharset       byte = 0x43
	attrBackground    byte = 0x45
	attrTransparency  byte = 0x46
)

// Field attribute bit masks (the byte following SF, or the T3270 pair of
// SFE).
const (
	fieldProtected  byte = 0x20
	fieldNumeric    byte = 0x10
	fieldDisplayMsk byte = 0x0C
	fieldMDT        byte = 0x01
)
