package main

import (
	"github.com/slunski/graphite/fonts"
	"github.com/slunski/graphite/graphite"
)

// demoTables backs a minimal, entirely synthetic Graphite font: no real
// Silf rules, just enough table structure for graphite.NewFace to
// accept it. It exists so the REPL has something to shape without
// requiring the user to supply a compiled font file, which this module
// never parses itself (§1 Non-goals).
type demoTables struct {
	silf []byte
}

func (d demoTables) GetTable(tag graphite.Tag) ([]byte, bool) {
	if tag == graphite.NewTag('S', 'i', 'l', 'f') {
		return d.silf, len(d.silf) > 0
	}
	return nil, false
}

// emptySilfTable declares a Silf table with zero sub-tables: version 1,
// numSub 0, reserved 0.
var emptySilfTable = []byte{0, 0, 0, 1, 0, 0, 0, 0}

// demoFace is a tiny fonts.Face stand-in: one glyph per rune of a small
// alphabet, each with a fixed advance and a square extent of that same
// size. It
// exists purely to give graphite.WithBaseFont something to compose
// with in this demo binary.
type demoFace struct {
	cmap    fonts.CmapSimple
	upem    uint16
	advance float32
}

func newDemoFace(alphabet string, advance float32) *demoFace {
	cmap := make(fonts.CmapSimple, len(alphabet))
	for i, r := range alphabet {
		cmap[r] = fonts.GID(i + 1)
	}
	return &demoFace{cmap: cmap, upem: 1000, advance: advance}
}

func (f *demoFace) Upem() uint16               { return f.upem }
func (f *demoFace) GlyphName(fonts.GID) string { return "" }
func (f *demoFace) PoscriptName() string       { return "" }

func (f *demoFace) PostscriptInfo() (fonts.PSInfo, bool) { return fonts.PSInfo{}, false }
func (f *demoFace) LoadSummary() (fonts.FontSummary, error) { return fonts.FontSummary{}, nil }
func (f *demoFace) LoadBitmaps() []fonts.BitmapSize          { return nil }

func (f *demoFace) LineMetric(fonts.LineMetric) (float32, bool)     { return 0, false }
func (f *demoFace) FontHExtents() (fonts.FontExtents, bool)         { return fonts.FontExtents{}, false }
func (f *demoFace) FontVExtents() (fonts.FontExtents, bool)         { return fonts.FontExtents{}, false }
func (f *demoFace) GlyphHOrigin(fonts.GID) (int32, int32, bool)     { return 0, 0, false }
func (f *demoFace) GlyphVOrigin(fonts.GID) (int32, int32, bool)     { return 0, 0, false }

func (f *demoFace) NominalGlyph(ch rune) (fonts.GID, bool) {
	gid, ok := f.cmap.Lookup(ch)
	return gid, ok
}

func (f *demoFace) HorizontalAdvance(fonts.GID) float32 { return f.advance }
func (f *demoFace) VerticalAdvance(fonts.GID) float32   { return f.advance }

func (f *demoFace) GlyphExtents(gid fonts.GID, xPpem, yPpem uint16) (fonts.GlyphExtents, bool) {
	return fonts.GlyphExtents{Width: f.advance, Height: f.advance}, true
}

func (f *demoFace) Cmap() (fonts.Cmap, fonts.CmapEncoding) {
	return f.cmap, fonts.EncUnicode
}
