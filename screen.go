// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// Color is a 3270 presentation color.
type Color byte

const (
	ColorDefault Color = iota
	ColorBlue
	ColorRed
	ColorPink
	ColorGreen
	ColorTurquoise
	ColorYellow
	ColorWhite
)

// colorByCode maps the wire byte used by the SA/SFE color attribute to a
// Color.
var colorByCode = map[byte]Color{
	0xF0: ColorDefault,
	0xF1: ColorBlue,
	0xF2: ColorRed,
	0xF3: ColorPink,
	0xF4: ColorGreen,
	0xF5: ColorTurquoise,
	0xF6: ColorYellow,
	0xF7: ColorWhite,
}

// Highlight is a 3270 extended highlighting attribute.
type Highlight byte

const (
	HighlightNormal Highlight = iota
	HighlightBlink
	HighlightReverse
	HighlightUnderscore
)

// highlightByCode maps the wire byte used by the SA/SFE highlighting
// attribute to a Highlight.
var highlightByCode = map[byte]Highlight{
	0xF0: HighlightNormal,
	0xF1: HighlightBlink,
	0xF2: HighlightReverse,
	0xF4: HighlightUnderscore,
}

// defaultFieldColor returns the presentation color a field should use when
// no explicit SFE/SA foreground color was given, based on classic 3270
// protected/intensified combinations:
//
//	protected + intensified  = white
//	protected + normal       = blue
//	unprotected + intensified = red
//	unprotected + normal      = green
//
// A hidden field's color is irrelevant since it is never displayed; green
// is returned for it by convention.
func defaultFieldColor(attr byte) Color {
	protected := attr&fieldProtected != 0
	display := attr & fieldDisplayMsk
	intensified := display == 0x08
	hidden := display == 0x0C

	switch {
	case hidden:
		return ColorGreen
	case protected && intensified:
		return ColorWhite
	case protected:
		return ColorBlue
	case intensified:
		return ColorRed
	default:
		return ColorGreen
	}
}

// Cell is a single position on the 3270 display.
type Cell struct {
	Char        rune
	FieldStart  bool
	Protected   bool
	Numeric     bool
	Hidden      bool
	Intensified bool
	Color       Color
	Highlight   Highlight
}

// Field describes the attribute byte installed at a buffer position and the
// span of cells it governs, up to (but not including) the next field start.
type Field struct {
	StartPos    int
	AttrByte    byte
	Protected   bool
	Numeric     bool
	Hidden      bool
	Intensified bool
	Modified    bool
	Color       Color
	Highlight   Highlight
}

// Screen is a 24x80 3270 display buffer: cell contents, installed fields,
// cursor position, and the presentation state (current color/highlight)
// used by characters as they're written.
type Screen struct {
	Cells  [screenSize]Cell
	Fields []Field

	CursorPos int

	// TN3270E reports whether the most recently processed write record
	// carried a TN3270E header.
	TN3270E bool

	curColor     Color
	curHighlight Highlight
}

// NewScreen returns a cleared Screen ready to receive its first write.
func NewScreen() *Screen {
	s := &Screen{}
	s.Clear()
	return s
}

// Clear resets the screen to all blank, unformatted cells, removes every
// field, and returns the cursor to the home position.
func (s *Screen) Clear() {
	for i := range s.Cells {
		s.Cells[i] = Cell{Char: ' ', Color: ColorGreen}
	}
	s.Fields = nil
	s.CursorPos = 0
	s.curColor = ColorGreen
	s.curHighlight = HighlightNormal
}

// startField installs a basic (SF) field at pos, using the classic
// protected/intensified default color, and carries its attributes forward
// to the cells that follow until the next field start.
func (s *Screen) startField(pos int, attr byte) {
	f := Field{
		StartPos:    pos,
		AttrByte:    attr,
		Protected:   attr&fieldProtected != 0,
		Numeric:     attr&fieldNumeric != 0,
		Hidden:      attr&fieldDisplayMsk == 0x0C,
		Intensified: attr&fieldDisplayMsk == 0x08,
		Modified:    attr&fieldMDT != 0,
		Color:       defaultFieldColor(attr),
		Highlight:   HighlightNormal,
	}
	s.installField(pos, f)
}

// startFieldExtended installs an extended (SFE) field at pos with an
// explicitly given color and highlight.
func (s *Screen) startFieldExtended(pos int, attr byte, color Color, highlight Highlight) {
	f := Field{
		StartPos:    pos,
		AttrByte:    attr,
		Protected:   attr&fieldProtected != 0,
		Numeric:     attr&fieldNumeric != 0,
		Hidden:      attr&fieldDisplayMsk == 0x0C,
		Intensified: attr&fieldDisplayMsk == 0x08,
		Modified:    attr&fieldMDT != 0,
		Color:       color,
		Highlight:   highlight,
	}
	s.installField(pos, f)
}

func (s *Screen) installField(pos int, f Field) {
	s.Cells[pos].FieldStart = true
	s.Cells[pos].Char = ' '
	s.Cells[pos].Protected = f.Protected
	s.Cells[pos].Numeric = f.Numeric
	s.Cells[pos].Hidden = f.Hidden
	s.Cells[pos].Intensified = f.Intensified

	s.Fields = append(s.Fields, f)
	s.curColor = f.Color
	s.curHighlight = f.Highlight

	s.applyFieldAttributes(pos, f)
}

// applyFieldAttributes propagates a field's attributes to every cell after
// pos, up to (not including) the next field-start cell, wrapping at the end
// of the buffer.
func (s *Screen) applyFieldAttributes(pos int, f Field) {
	cur := (pos + 1) % screenSize
	for cur != pos {
		cell := &s.Cells[cur]
		if cell.FieldStart {
			break
		}
		cell.Protected = f.Protected
		cell.Numeric = f.Numeric
		cell.Hidden = f.Hidden
		cell.Intensified = f.Intensified
		cell.Color = f.Color
		cell.Highlight = f.Highlight
		cur = (cur + 1) % screenSize
	}
}

// eraseUnprotected blanks every unprotected, non-field-start cell.
func (s *Screen) eraseUnprotected() {
	for i := range s.Cells {
		if !s.Cells[i].Protected && !s.Cells[i].FieldStart {
			s.Cells[i].Char = ' '
		}
	}
	for i := range s.Fields {
		s.Fields[i].Modified = false
	}
}

// nextUnprotected returns the first cell position after pos (wrapping) that
// begins an unprotected field, advanced one past the field-start attribute
// cell. If none is found, pos is returned unchanged.
func (s *Screen) nextUnprotected(pos int) int {
	start := pos
	cur := (pos + 1) % screenSize
	for cur != start {
		if s.Cells[cur].FieldStart && !s.Cells[cur].Protected {
			return (cur + 1) % screenSize
		}
		cur = (cur + 1) % screenSize
	}
	return pos
}

// NextInput returns the position just after the next unprotected field
// start after pos, wrapping around the screen. If there is none, pos is
// returned unchanged.
func (s *Screen) NextInput(pos int) int {
	return s.nextUnprotected(pos)
}

// PrevInput returns the position just after the nearest unprotected field
// start before pos, wrapping around the screen.
func (s *Screen) PrevInput(pos int) int {
	start := pos
	cur := (pos - 1 + screenSize) % screenSize
	for cur != start {
		if s.Cells[cur].FieldStart && !s.Cells[cur].Protected {
			return (cur + 1) % screenSize
		}
		cur = (cur - 1 + screenSize) % screenSize
	}
	return pos
}

// FirstInput returns the position just after the first unprotected field
// start on the screen, or 0 if there is none.
func (s *Screen) FirstInput() int {
	for i := range s.Cells {
		if s.Cells[i].FieldStart && !s.Cells[i].Protected {
			return (i + 1) % screenSize
		}
	}
	return 0
}

// FieldAt returns the field that owns position pos: the field with the
// greatest StartPos <= pos. If every field starts after pos, ownership
// wraps to the last field on the screen (the one installed last). It
// returns nil if the screen has no fields (unformatted).
func (s *Screen) FieldAt(pos int) *Field {
	if len(s.Fields) == 0 {
		return nil
	}

	var result *Field
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.StartPos <= pos {
			result = f
		} else if result != nil {
			break
		}
	}
	if result == nil {
		result = &s.Fields[len(s.Fields)-1]
	}
	return result
}

// MarkModified sets the modified data tag on the field that owns pos. It's
// a no-op if pos falls outside any field.
func (s *Screen) MarkModified(pos int) {
	if f := s.FieldAt(pos); f != nil {
		f.Modified = true
	}
}

// ModifiedField is one field's worth of data, keyed by the buffer position
// immediately following its attribute byte.
type ModifiedField struct {
	StartPos int
	Data     string
}

// ModifiedFields returns the content of every modified, unprotected field,
// translated to ASCII, with trailing spaces trimmed. Fields that are empty
// after trimming are omitted.
func (s *Screen) ModifiedFields() []ModifiedField {
	var result []ModifiedField

	for _, f := range s.Fields {
		if !f.Modified || f.Protected {
			continue
		}

		start := (f.StartPos + 1) % screenSize
		var chars []rune
		pos := start
		for {
			if s.Cells[pos].FieldStart {
				break
			}
			chars = append(chars, s.Cells[pos].Char)
			pos = (pos + 1) % screenSize
			if pos == start {
				break
			}
		}

		content := trimTrailingSpace(string(chars))
		if content != "" {
			result = append(result, ModifiedField{StartPos: start, Data: content})
		}
	}

	return result
}

func trimTrailingSpace(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	return s[:i]
}

// ClearModifiedFlags clears the modified data tag on every field. Callers
// invoke this after transmitting an AID response, matching the protocol's
// own MDT reset semantics.
func (s *Screen) ClearModifiedFlags() {
	for i := range s.Fields {
		s.Fields[i].Modified = false
	}
}

// IsUnformatted reports whether the screen has no fields installed.
func (s *Screen) IsUnformatted() bool {
	return len(s.Fields) == 0
}

// UnformattedData returns the entire screen's character content with
// trailing spaces trimmed, for use when IsUnformatted is true.
func (s *Screen) UnformattedData() string {
	chars := make([]rune, screenSize)
	for i, c := range s.Cells {
		chars[i] = c.Char
	}
	return trimTrailingSpace(string(chars))
}
