// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "fmt"

// writeOp identifies a 3270 write command regardless of whether the host
// used the SNA/LU2 byte or the older CCW byte for it; hosts are not
// consistent about which family they speak, so both are accepted.
type writeOp int

const (
	opUnknown writeOp = iota
	opWrite
	opEraseWrite
	opEraseWriteAlternate
	opWriteStructuredField
	opEraseAllUnprotected
)

var writeCommandOps = map[byte]writeOp{
	cmdWrite:                opWrite,
	cmdEraseWrite:           opEraseWrite,
	cmdEraseWriteAlternate:  opEraseWriteAlternate,
	cmdWriteStructuredField: opWriteStructuredField,
	cmdEraseAllUnprotected:  opEraseAllUnprotected,

	cmdWriteCCW:               opWrite,
	cmdEraseWriteCCW:          opEraseWrite,
	cmdEraseWriteAlternateCCW: opEraseWriteAlternate,
	cmdEraseAllUnprotectedCCW: opEraseAllUnprotected,
}

// stripEOR removes a trailing IAC EOR sequence, if present.
func stripEOR(data []byte) []byte {
	if len(data) >= 2 && data[len(data)-2] == tnIAC && data[len(data)-1] == tnEOR {
		return data[:len(data)-2]
	}
	return data
}

// ProcessRecord interprets one inbound 3270 data record (a complete write
// command plus its orders and data, with any trailing IAC EOR already
// stripped or still attached) and applies it to the screen.
//
// tn3270eMode controls how a leading 5-byte TN3270E header is recognized:
// nil auto-detects by checking whether the byte that would follow a header
// looks like a write command; non-nil forces the header to be
// present/absent.
//
// The returned *ConnError reports a tolerated protocol anomaly (an unknown
// write command, an unknown order, or a truncated record); it is never
// fatal to the connection and the screen remains in a valid state either
// way. A nil return means the record was well-formed.
func (s *Screen) ProcessRecord(data []byte, tn3270eMode *bool) *ConnError {
	data = stripEOR(data)
	if len(data) < 1 {
		return nil
	}

	offset := 0
	s.TN3270E = false

	switch {
	case tn3270eMode != nil && *tn3270eMode:
		if len(data) < 5 {
			return nil
		}
		s.TN3270E = true
		dataType := data[0]
		offset = 5
		if dataType != 0x00 {
			// Not 3270-DATA (e.g. SCS-DATA, RESPONSE): nothing to paint.
			return nil
		}
	case tn3270eMode == nil && len(data) > 5 && data[0] == 0x00:
		if isWriteCommandByte(data[5]) {
			s.TN3270E = true
			offset = 5
		}
	}

	if offset >= len(data) {
		debugf("no data after TN3270E header (offset=%d, len=%d)", offset, len(data))
		return nil
	}

	cmd := data[offset]
	offset++

	op, known := writeCommandOps[cmd]
	if !known {
		if isOrderByte(cmd) {
			// Tolerate servers that send an orders-only continuation with
			// no write command of its own: start the order loop at pos=0
			// over the whole payload, cmd included.
			logWarn("no write command found, first byte %#02x is an order: treating record as an orders-only continuation", cmd)
			return s.applyOrders(data, offset-1, 0)
		}
		logWarn("unknown write command %#02x, ignoring record", cmd)
		return newConnError(ErrUnknownWriteCommand, fmt.Sprintf("command %#02x", cmd), nil)
	}

	switch op {
	case opEraseWrite, opEraseWriteAlternate:
		s.Clear()
	case opEraseAllUnprotected:
		s.eraseUnprotected()
		return nil
	case opWriteStructuredField:
		// Structured fields outside of Query/Query Reply (handled by the
		// connection before a record ever reaches here) aren't interpreted.
		return nil
	}

	// Skip the WCC byte.
	if offset < len(data) {
		offset++
	}

	return s.applyOrders(data, offset, 0)
}

// applyOrders walks data from offset, interpreting 3270 orders and data
// characters starting at buffer position pos, until data is exhausted or an
// order's operands are truncated. It returns the first tolerated anomaly
// encountered (an unrecognized order byte or a truncated operand), if any.
func (s *Screen) applyOrders(data []byte, offset, pos int) (result *ConnError) {
	var anomaly *ConnError
	// A truncation after an unrecognized order still reports the
	// unrecognized order, since it came first.
	defer func() {
		if anomaly != nil {
			result = anomaly
		}
	}()

	for offset < len(data) {
		b := data[offset]

		switch b {
		case orderSBA:
			if offset+2 >= len(data) {
				return s.truncated("SBA")
			}
			pos = decodeBufferAddress(data[offset+1], data[offset+2]) % screenSize
			offset += 3

		case orderSF:
			if offset+1 >= len(data) {
				return s.truncated("SF")
			}
			s.startField(pos, data[offset+1])
			pos = (pos + 1) % screenSize
			offset += 2

		case orderSFE:
			if offset+1 >= len(data) {
				return s.truncated("SFE")
			}
			pairCount := int(data[offset+1])
			offset += 2

			var attr byte
			var haveColor bool
			color := s.curColor
			highlight := s.curHighlight

			for i := 0; i < pairCount; i++ {
				if offset+1 >= len(data) {
					return s.truncated("SFE")
				}
				attrType := data[offset]
				attrValue := data[offset+1]
				offset += 2

				switch attrType {
				case attr3270:
					attr = attrValue
				case attrHighlighting:
					highlight = highlightOrDefault(attrValue)
				case attrForeground:
					color = colorOrDefault(attrValue)
					haveColor = true
				}
			}

			if !haveColor {
				color = defaultFieldColor(attr)
			}
			s.startFieldExtended(pos, attr, color, highlight)
			pos = (pos + 1) % screenSize

		case orderSA:
			if offset+2 >= len(data) {
				return s.truncated("SA")
			}
			attrType := data[offset+1]
			attrValue := data[offset+2]
			switch attrType {
			case attrForeground:
				s.curColor = colorOrDefault(attrValue)
			case attrHighlighting:
				s.curHighlight = highlightOrDefault(attrValue)
			case attrBackground:
				// Background color is read and discarded: neither Cell nor
				// Screen has a field to hold it, so cells keep no
				// background color.
			}
			offset += 3

		case orderIC:
			s.CursorPos = pos
			offset++

		case orderPT:
			pos = s.nextUnprotected(pos)
			offset++

		case orderRA:
			if offset+3 >= len(data) {
				return s.truncated("RA")
			}
			end := decodeBufferAddress(data[offset+1], data[offset+2]) % screenSize
			ch := []rune(e2a([]byte{data[offset+3]}))[0]
			for pos != end {
				s.Cells[pos].Char = ch
				s.Cells[pos].Color = s.curColor
				s.Cells[pos].Highlight = s.curHighlight
				pos = (pos + 1) % screenSize
			}
			offset += 4

		case orderEUA:
			if offset+2 >= len(data) {
				return s.truncated("EUA")
			}
			end := decodeBufferAddress(data[offset+1], data[offset+2]) % screenSize
			for pos != end {
				if !s.Cells[pos].Protected && !s.Cells[pos].FieldStart {
					s.Cells[pos].Char = ' '
				}
				pos = (pos + 1) % screenSize
			}
			offset += 3

		case orderMF:
			if offset+1 >= len(data) {
				return s.truncated("MF")
			}
			pairCount := int(data[offset+1])
			if offset+1+pairCount*2 >= len(data) {
				return s.truncated("MF")
			}
			offset += 2 + pairCount*2

		case orderGE:
			// Graphic Escape: the character that follows comes from the
			// graphic escape charset rather than the base code page. This
			// core supports only CP037 with no graphic-escape charset
			// wired up, so it's translated the same as ordinary data; kept
			// as its own case so a future charset extension has a seam.
			if offset+1 >= len(data) {
				return s.truncated("GE")
			}
			ch := []rune(e2a([]byte{data[offset+1]}))[0]
			s.Cells[pos].Char = ch
			s.Cells[pos].Color = s.curColor
			s.Cells[pos].Highlight = s.curHighlight
			pos = (pos + 1) % screenSize
			offset += 2

		default:
			if anomaly == nil && isUnassignedOrderByte(b) {
				logWarn("unrecognized order %#02x, treating as data", b)
				anomaly = newConnError(ErrUnknownOrder, fmt.Sprintf("order %#02x", b), nil)
			}
			ch := []rune(e2a([]byte{b}))[0]
			s.Cells[pos].Char = ch
			s.Cells[pos].Color = s.curColor
			s.Cells[pos].Highlight = s.curHighlight
			pos = (pos + 1) % screenSize
			offset++
		}
	}

	return anomaly
}

// truncated logs and reports that an order's operands ran past the end of
// the record. The parser stops applying this record; the screen is left as
// it stood after the last fully-applied order.
func (s *Screen) truncated(order string) *ConnError {
	logWarn("record truncated in %s operand, discarding remainder", order)
	return newConnError(ErrProtocolTruncation, fmt.Sprintf("truncated %s operand", order), nil)
}

func isWriteCommandByte(b byte) bool {
	switch b {
	case cmdWrite, cmdEraseWrite, cmdEraseWriteAlternate, cmdWriteStructuredField, cmdEraseAllUnprotected:
		return true
	default:
		return false
	}
}

// isOrderByte reports whether b is one of the ten order codes this client
// recognizes.
func isOrderByte(b byte) bool {
	switch b {
	case orderSBA, orderSF, orderSFE, orderSA, orderIC, orderPT, orderRA, orderEUA, orderMF, orderGE:
		return true
	default:
		return false
	}
}

// isUnassignedOrderByte reports whether b falls in the 3270 order/control
// byte range (below EBCDIC space, 0x40) without matching any order this
// client implements. The protocol assigns only ten order codes in that
// range; anything else there is tolerated and translated as if it were
// ordinary data.
func isUnassignedOrderByte(b byte) bool {
	return b < 0x40 && !isOrderByte(b)
}

func colorOrDefault(b byte) Color {
	if c, ok := colorByCode[b]; ok {
		return c
	}
	return ColorGreen
}

func highlightOrDefault(b byte) Highlight {
	if h, ok := highlightByCode[b]; ok {
		return h
	}
	return HighlightNormal
}
