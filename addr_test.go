// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "testing"

func TestEncodeBufferAddress(t *testing.T) {
	encoded := getpos(0, 0)
	if encoded[0] != 0x40 || encoded[1] != 0x40 {
		t.Error("Position (0, 0) not correctly encoded")
	}

	encoded = getpos(11, 39)
	if encoded[0] != 0x4e || encoded[1] != 0xd7 {
		t.Error("Position (11, 39) not correctly encoded")
	}
}

func TestDecodeBufferAddress12Bit(t *testing.T) {
	if got := decodeBufferAddress(0x40, 0x40); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}

	if got := decodeBufferAddress(0x4e, 0xd7); got != 919 {
		t.Errorf("expected 919, got %d", got)
	}
}

func TestDecodeBufferAddress14Bit(t *testing.T) {
	// Top two bits of the first byte are zero: 14-bit form.
	if got := decodeBufferAddress(0x00, 0x00); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}

	// addr=1000 -> b1 = (1000>>8)&0x3F = 3, b2 = 1000&0xFF = 232
	if got := decodeBufferAddress(0x03, 0xE8); got != 1000 {
		t.Errorf("expected 1000, got %d", got)
	}
}

func TestBufferAddressRoundTrip(t *testing.T) {
	for addr := 0; addr < screenSize; addr++ {
		enc := encodeBufferAddress(addr)
		got := decodeBufferAddress(enc[0], enc[1])
		if got != addr {
			t.Errorf("round trip failed for %d: got %d", addr, got)
		}
	}
}
