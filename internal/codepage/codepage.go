// Package codepage provides the EBCDIC<->Unicode translation table this
// module runs on.
//
// Unlike the upstream go3270 package, which lets a caller swap in any of
// around thirty IBM code pages (and graphic-escape to CP310) at runtime,
// this package fixes itself to CP 037 (US/Canada) and nothing else. The host
// side of this protocol has no way to tell a client which page is in
// effect, so a runtime-selectable table buys nothing but surface area; one
// mainframe-era page, chosen once, is what every caller actually needs.
package codepage

// cp037 holds the fixed EBCDIC<->Unicode mapping for IBM code page 037.
type cp037 struct {
	// e2u maps an EBCDIC byte (0x00-0xFF) to its Unicode code point.
	e2u [256]rune

	// u2e maps a Unicode code point back to its EBCDIC byte. Code points
	// with no entry fall back to esub.
	u2e map[rune]byte

	// esub is the EBCDIC byte substituted for runes with no mapping.
	esub byte
}

// CP037 is the single code page this module supports.
var CP037 = &cp037{
	e2u: [256]rune{
		/*        x0    x1    x2    x3    x4    x5    x6    x7    x8    x9    xA    xB    xC    xD    xE    xF */
		/* 0x */ 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
		/* 1x */ 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F,
		/* 2x */ 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x2E, 0x2F,
		/* 3x */ 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E, 0x3F,
		/* 4x */ ' ', 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0xA2, '.', '<', '(', '+', '|',
		/* 5x */ '&', 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, '!', '$', '*', ')', ';', 0xAC,
		/* 6x */ '-', '/', 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69, '|', ',', '%', '_', '>', '?',
		/* 7x */ 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, '`', ':', '#', '@', '\'', '=', '"',
		/* 8x */ 0x80, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F,
		/* 9x */ 0x90, 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F,
		/* Ax */ 0xA0, '~', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF,
		/* Bx */ 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF,
		/* Cx */ '{', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 0xCA, 0xCB, 0xCC, 0xCD, 0xCE, 0xCF,
		/* Dx */ '}', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 0xDA, 0xDB, 0xDC, 0xDD, 0xDE, 0xDF,
		/* Ex */ '\\', 0xE1, 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 0xEA, 0xEB, 0xEC, 0xED, 0xEE, 0xEF,
		/* Fx */ '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 0xFA, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF,
	},
	u2e: map[rune]byte{
		' ': 0x40, '.': 0x4B, '<': 0x4C, '(': 0x4D, '+': 0x4E, '|': 0x4F,
		'&': 0x50, '!': 0x5A, '$': 0x5B, '*': 0x5C, ')': 0x5D, ';': 0x5E,
		'-': 0x60, '/': 0x61, ',': 0x6B, '%': 0x6C, '_': 0x6D, '>': 0x6E, '?': 0x6F,
		'`': 0x79, ':': 0x7A, '#': 0x7B, '@': 0x7C, '\'': 0x7D, '=': 0x7E, '"': 0x7F,
		'a': 0x81, 'b': 0x82, 'c': 0x83, 'd': 0x84, 'e': 0x85, 'f': 0x86, 'g': 0x87, 'h': 0x88, 'i': 0x89,
		'j': 0x91, 'k': 0x92, 'l': 0x93, 'm': 0x94, 'n': 0x95, 'o': 0x96, 'p': 0x97, 'q': 0x98, 'r': 0x99,
		'~': 0xA1, 's': 0xA2, 't': 0xA3, 'u': 0xA4, 'v': 0xA5, 'w': 0xA6, 'x': 0xA7, 'y': 0xA8, 'z': 0xA9,
		'{': 0xC0, 'A': 0xC1, 'B': 0xC2, 'C': 0xC3, 'D': 0xC4, 'E': 0xC5, 'F': 0xC6, 'G': 0xC7, 'H': 0xC8, 'I': 0xC9,
		'}': 0xD0, 'J': 0xD1, 'K': 0xD2, 'L': 0xD3, 'M': 0xD4, 'N': 0xD5, 'O': 0xD6, 'P': 0xD7, 'Q': 0xD8, 'R': 0xD9,
		'\\': 0xE0, 'S': 0xE2, 'T': 0xE3, 'U': 0xE4, 'V': 0xE5, 'W': 0xE6, 'X': 0xE7, 'Y': 0xE8, 'Z': 0xE9,
		'0': 0xF0, '1': 0xF1, '2': 0xF2, '3': 0xF3, '4': 0xF4, '5': 0xF5, '6': 0xF6, '7': 0xF7, '8': 0xF8, '9': 0xF9,
	},
	esub: 0x40,
}

// Decode converts a slice of EBCDIC bytes into a string. Any byte whose
// mapped code point falls outside printable ASCII (0x20-0x7E) becomes a
// space, matching how the protocol's own screen presentation treats
// non-printable positions.
func (cp *cp037) Decode(b []byte) string {
	out := make([]rune, len(b))
	for i, e := range b {
		r := cp.e2u[e]
		if r < 0x20 || r > 0x7E {
			r = ' '
		}
		out[i] = r
	}
	return string(out)
}

// Encode converts a string into EBCDIC bytes, substituting esub for any
// rune with no mapping.
func (cp *cp037) Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := cp.u2e[r]
		if !ok {
			b = cp.esub
		}
		out = append(out, b)
	}
	return out
}
