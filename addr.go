// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// screenSize is the number of cell positions on a 24x80 3270 display.
const screenSize = 24 * 80

// addrTable are the 3270 control character I/O codes for 12-bit addressing,
// from Figure D-1 of GA23-0059-00 (Figure C-1 in later editions). Index i
// holds the control character representing the 6-bit value i.
var addrTable = []byte{0x40, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8,
	0xc9, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0xd1, 0xd2, 0xd3, 0xd4,
	0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
	0x61, 0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0x6a, 0x6b, 0x6c,
	0x6d, 0x6e, 0x6f, 0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
	0xf9, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f}

// addrDecode is the reverse of addrTable: addrDecode[b] is the 6-bit value
// encoded by control character b, or 0 for bytes that never appear in
// addrTable.
var addrDecode [256]int

func init() {
	for i, b := range addrTable {
		addrDecode[b] = i
	}
}

// decodeBufferAddress decodes a 2-byte encoded buffer address into a buffer
// position. It recognizes both the 12-bit form (each byte is an addrTable
// control character carrying 6 bits; result in [0, 4096)) and the 14-bit
// form (the top two bits of the first byte are zero; result in [0, 16384)).
// The result is not reduced to screenSize.
func decodeBufferAddress(b1, b2 byte) int {
	if b1&0xC0 == 0x00 {
		return (int(b1&0x3F) << 8) | int(b2)
	}
	hi := addrDecode[b1]
	lo := addrDecode[b2]
	return (hi << 6) | lo
}

// encodeBufferAddress encodes a screen position as a 2-byte 12-bit buffer
// address.
func encodeBufferAddress(addr int) [2]byte {
	hi := (addr >> 6) & 0x3F
	lo := addr & 0x3F
	return [2]byte{addrTable[hi], addrTable[lo]}
}

// getpos translates a (row, col) position to its 2-byte encoded buffer
// address.
func getpos(row, col int) [2]byte {
	return encodeBufferAddress(row*80 + col)
}
