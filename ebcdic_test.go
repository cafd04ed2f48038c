// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "testing"

func TestE2ABasicLetters(t *testing.T) {
	cases := []struct {
		ebcdic byte
		ascii  byte
	}{
		{0xC1, 'A'},
		{0xC9, 'I'},
		{0x81, 'a'},
		{0x89, 'i'},
		{0xF0, '0'},
		{0xF9, '9'},
		{0x40, ' '},
	}
	for _, c := range cases {
		got := e2a([]byte{c.ebcdic})
		if got != string(c.ascii) {
			t.Errorf("e2a(%#02x) = %q, want %q", c.ebcdic, got, string(c.ascii))
		}
	}
}

func TestE2ANonPrintableBecomesSpace(t *testing.T) {
	got := e2a([]byte{0x00, 0x01, 0xFF})
	want := "   "
	if got != want {
		t.Errorf("e2a(control bytes) = %q, want %q", got, want)
	}
}

func TestA2EBasicLetters(t *testing.T) {
	got := a2e("AZ09 az")
	want := []byte{0xC1, 0xE9, 0xF0, 0xF9, 0x40, 0x81, 0xA9}
	if len(got) != len(want) {
		t.Fatalf("a2e length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("a2e(...)[%d] = %#02x, want %#02x", i, got[i], want[i])
		}
	}
}

func TestA2EUnmappedRuneSubstitutesSpace(t *testing.T) {
	got := a2e(string(rune(0x2603))) // snowman, not in CP037
	if len(got) != 1 || got[0] != 0x40 {
		t.Errorf("a2e(unmapped) = %v, want [0x40]", got)
	}
}

func TestRoundTripMappedASCII(t *testing.T) {
	// Every rune explicitly listed in the encode table round-trips through
	// a2e then e2a. Not all of ASCII 0x20-0x7E is covered (CP037 itself
	// has no slot for a few punctuation marks), so this only exercises the
	// characters the table actually supports.
	const supported = " .<(+|&!$*);-/,%_>?`:#@'=\"" +
		"abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789{}\\~"

	for _, r := range supported {
		e := a2e(string(r))
		back := e2a(e)
		if back != string(r) {
			t.Errorf("round trip of %q: a2e->e2a gave %q", string(r), back)
		}
	}
}
