package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontTall   = 0x01
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream for thermal printers.
// Column layout counts runes, not bytes.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for a printer with the given line width.
// A non-positive width falls back to 58mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width returns the line width in characters
func (d *Document) Width() int { return d.width }

// Feed sends n line feeds
func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// Align sets text alignment for the following lines
func (d *Document) Align(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// Bold toggles emphasized printing
func (d *Document) Bold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// Size sets the character size
func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Line writes s followed by a line feed
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// Wrapped writes s broken into lines no wider than the paper
func (d *Document) Wrapped(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.Line(line)
	}
	return d
}

// Title prints s centered, bold and double sized
func (d *Document) Title(s string) *Document {
	return d.Align(AlignCenter).Bold(true).Size(FontDouble).
		Line(s).
		Size(FontNormal).Bold(false).Align(AlignLeft)
}

// Rule prints a full-width line of char
func (d *Document) Rule(char rune) *Document {
	return d.Line(strings.Repeat(string(char), d.width))
}

// Pair prints key on the left and value on the right of one line.
// A key that does not fit is cut short.
func (d *Document) Pair(key, value string) *Document {
	room := d.width - utf8.RuneCountInString(value) - 1
	if room < 1 {
		return d.Line(value)
	}
	key = truncate(key, room)
	pad := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	return d.Line(key + strings.Repeat(" ", pad) + value)
}

// Item prints the item name, wrapped when long, followed by an indented
// "qty x price" line with the amount on the right.
func (d *Document) Item(name, qtyPrice, amount string) *Document {
	d.Wrapped(name)
	return d.Pair("  "+qtyPrice, amount)
}

// PartialCut feeds and cuts the paper leaving a small hinge
func (d *Document) PartialCut() *Document {
	d.Feed(3)
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated byte stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case current == "":
			current = w
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
