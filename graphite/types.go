// Package graphite implements the hot path of a SIL Graphite smart-font
// shaping engine: the slot graph, the rule stack machine, the Silf pass
// driver, and the segment lifecycle that ties them together.
//
// A host application supplies parsed font tables through a TableAccessor,
// builds a Face once per font file, derives a Font per pixel size, and
// then shapes runs of text into Segments.
package graphite

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

func ordMin[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func ordMax[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// GID identifies a glyph within a font. It matches the width used by the
// surrounding OpenType tables (cmap, hmtx, glyf) that a Graphite font is
// layered on top of.
type GID = uint32

// Tag is a four byte, big-endian packed table or script tag, e.g. the
// bytes 'S','i','l','f' packed into a uint32.
type Tag uint32

// NewTag packs four ASCII bytes into a Tag.
func NewTag(a, b, c, d byte) Tag {
	return Tag(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// spaceToZero follows the convention used by the original engine: an
// all-space script tag ("    ") is treated the same as a zero tag, both
// meaning "no specific script requested".
func spaceToZero(t Tag) Tag {
	if t == NewTag(' ', ' ', ' ', ' ') {
		return 0
	}
	return t
}

var (
	tagSilf = NewTag('S', 'i', 'l', 'f')
	tagGloc = NewTag('G', 'l', 'o', 'c')
	tagGlat = NewTag('G', 'l', 'a', 't')
	tagFeat = NewTag('F', 'e', 'a', 't')
	tagSill = NewTag('S', 'i', 'l', 'l')
)

// Position is a 2D coordinate or vector, expressed in pixels once scaled
// by a Font, or in font design units while still inside table data.
type Position struct {
	X, Y float32
}

func (p Position) add(o Position) Position { return Position{p.X + o.X, p.Y + o.Y} }
func (p Position) sub(o Position) Position { return Position{p.X - o.X, p.Y - o.Y} }
func (p Position) scale(s float32) Position { return Position{p.X * s, p.Y * s} }
func (p Position) neg() Position            { return Position{-p.X, -p.Y} }

// rect is an axis aligned bounding box, bl (bottom-left) <= tr (top-right).
type rect struct {
	bl, tr Position
}

func (r rect) translate(p Position) rect {
	return rect{bl: r.bl.add(p), tr: r.tr.add(p)}
}

func (r rect) union(o rect) rect {
	return rect{
		bl: Position{X: ordMin(r.bl.X, o.bl.X), Y: ordMin(r.bl.Y, o.bl.Y)},
		tr: Position{X: ordMax(r.tr.X, o.tr.X), Y: ordMax(r.tr.Y, o.tr.Y)},
	}
}

// Direction is the writing direction of a shaping run, matching the
// bit-packed convention of the original engine: bit0 selects RTL, bit2
// selects vertical text, bit6 tracks whether the segment's slot chain is
// currently held in visual (reversed) order.
type Direction int

const (
	DirLTR Direction = 0
	DirRTL Direction = 1
)

func (d Direction) String() string {
	if d&1 != 0 {
		return "rtl"
	}
	return "ltr"
}

// EncodingForm identifies a text encoding by its code unit width in
// bytes, matching §6 of the specification (1 = UTF-8, 2 = UTF-16, 4 =
// UTF-32).
type EncodingForm int

const (
	EncUTF8  EncodingForm = 1
	EncUTF16 EncodingForm = 2
	EncUTF32 EncodingForm = 4
)

func (e EncodingForm) String() string {
	switch e {
	case EncUTF8:
		return "utf8"
	case EncUTF16:
		return "utf16"
	case EncUTF32:
		return "utf32"
	default:
		return fmt.Sprintf("EncodingForm(%d)", int(e))
	}
}
