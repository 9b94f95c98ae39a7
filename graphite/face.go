package graphite

import (
	"encoding/binary"

	"github.com/slunski/graphite/fonts"
	"github.com/slunski/graphite/language"
)

// TableAccessor is the capability a host application supplies to Face:
// a read-only, bounds-stable view over the tables of one font file.
// §4.1: "a pointer-stable, read-only view valid for the Face's
// lifetime." TTF/OTF directory parsing that produces a TableAccessor is
// an external collaborator (§1 Non-goals) — Face only ever calls
// GetTable.
type TableAccessor interface {
	GetTable(tag Tag) ([]byte, bool)
}

// Glyph metric codes understood by Face.getGlyphMetric and the
// push_glyph_metric opcode family.
const (
	metricLSB uint8 = iota
	metricRSB
	metricBBLeft
	metricBBRight
	metricBBTop
	metricBBBottom
	metricAdvWidth
	metricAdvHeight
	metricAscent
	metricDescent
	metricCapHeight
)

type glyphRecord struct {
	attrs    []uint16
	bbox     rect
	boxes    struct{ slant rect }
	hAdvance float32
}

func (g glyphRecord) attr(idx uint16) uint16 {
	if int(idx) >= len(g.attrs) {
		return 0
	}
	return g.attrs[idx]
}

// Face is the immutable, parsed view of a Graphite font's tables (§4.1).
// It is built once per font file and is safe to share, read-only, across
// goroutines shaping distinct Segments (§5).
type Face struct {
	silf       []silfSubtable
	featureMap FeatureMap
	sill       []sillEntry

	numAttrs  int
	glyphs    []glyphRecord
	cmap      fonts.Cmap
	base      fonts.Face // optional: the surrounding OpenType font, for cmap/hmtx/bbox

	tableCache map[Tag][]byte // memoizes GetTable, built once at construction (§5, §9)
}

type sillEntry struct {
	script    Tag
	lang      string // canonicalized BCP-47 tag, empty means "any language"
	overrides []featureSetting
}

// FaceOption configures NewFace.
type FaceOption func(*faceOptions)

type faceOptions struct {
	base fonts.Face
}

// WithBaseFont supplies the ordinary OpenType font that the Graphite
// tables are layered on top of, used for cmap lookup, for the advance
// and bounding box recorded with each Glat glyph, and for the advance of
// any glyph the Glat table does not cover.
// Real Graphite fonts are always also valid OpenType fonts; this is the
// composition point described in SPEC_FULL.md's domain-stack table.
func WithBaseFont(base fonts.Face) FaceOption {
	return func(o *faceOptions) { o.base = base }
}

// NewFace parses the Graphite tables (Silf, Gloc/Glat, Feat, Sill) out
// of get. Parsing is bounds-checked throughout; a malformed table fails
// construction with a typed error and no partially-built Face is
// returned (§4.1).
func NewFace(get TableAccessor, opts ...FaceOption) (*Face, error) {
	var o faceOptions
	for _, opt := range opts {
		opt(&o)
	}

	f := &Face{
		featureMap: newFeatureMap(),
		base:       o.base,
		tableCache: map[Tag][]byte{},
	}
	if o.base != nil {
		f.cmap, _ = o.base.Cmap()
	}

	for _, tag := range []Tag{tagSilf, tagGloc, tagGlat, tagFeat, tagSill} {
		data, ok := get.GetTable(tag)
		if ok {
			f.tableCache[tag] = data
		}
	}

	if data, ok := f.tableCache[tagSilf]; ok {
		subs, err := parseSilfTable(data)
		if err != nil {
			return nil, tableErrorf(tagSilf, ErrMalformedHeader, "%s", err)
		}
		f.silf = subs
	}

	if err := f.parseGlyphAttrs(); err != nil {
		return nil, err
	}

	if data, ok := f.tableCache[tagFeat]; ok {
		fm, err := parseFeatTable(data)
		if err != nil {
			return nil, tableErrorf(tagFeat, ErrMalformedHeader, "%s", err)
		}
		f.featureMap = fm
	}

	if data, ok := f.tableCache[tagSill]; ok {
		sill, err := parseSillTable(data)
		if err != nil {
			return nil, tableErrorf(tagSill, ErrMalformedHeader, "%s", err)
		}
		f.sill = sill
	}

	return f, nil
}

func (f *Face) parseGlyphAttrs() error {
	glocData, hasGloc := f.tableCache[tagGloc]
	glatData, hasGlat := f.tableCache[tagGlat]
	if !hasGloc || !hasGlat {
		return nil
	}
	if len(glocData) < 8 {
		return tableErrorf(tagGloc, ErrMalformedHeader, "too short")
	}
	numAttrs := int(binary.BigEndian.Uint16(glocData[4:]))
	numGlyphs := int(binary.BigEndian.Uint16(glocData[6:]))
	need := numGlyphs * numAttrs * 2
	if len(glatData) < need {
		return tableErrorf(tagGlat, ErrOffsetOutOfRange, "expected %d bytes, got %d", need, len(glatData))
	}

	f.numAttrs = numAttrs
	f.glyphs = make([]glyphRecord, numGlyphs)
	for gid := 0; gid < numGlyphs; gid++ {
		attrs := make([]uint16, numAttrs)
		for a := 0; a < numAttrs; a++ {
			attrs[a] = binary.BigEndian.Uint16(glatData[(gid*numAttrs+a)*2:])
		}
		rec := glyphRecord{attrs: attrs}
		if f.base != nil {
			rec.hAdvance = f.base.HorizontalAdvance(fonts.GID(gid))
			if ext, ok := f.base.GlyphExtents(fonts.GID(gid), f.base.Upem(), f.base.Upem()); ok {
				rec.bbox = rect{
					bl: Position{X: ext.XBearing, Y: ext.YBearing - ext.Height},
					tr: Position{X: ext.XBearing + ext.Width, Y: ext.YBearing},
				}
			}
		}
		f.glyphs[gid] = rec
	}
	return nil
}

func (f *Face) getGlyph(gid GID) *glyphRecord {
	if int(gid) >= len(f.glyphs) {
		return nil
	}
	return &f.glyphs[gid]
}

// glyphAttr reads one Glat attribute for gid, returning 0 for
// out-of-range glyphs or attribute indices (§4.1: glyphAttr).
func (f *Face) glyphAttr(gid GID, attr uint16) uint16 {
	g := f.getGlyph(gid)
	if g == nil {
		return 0
	}
	return g.attr(attr)
}

// getGlyphMetric implements §4.1's getGlyphMetric.
func (f *Face) getGlyphMetric(gid GID, metric uint8) int32 {
	g := f.getGlyph(gid)
	if g == nil {
		return 0
	}
	switch metric {
	case metricBBLeft:
		return int32(g.bbox.bl.X)
	case metricBBRight:
		return int32(g.bbox.tr.X)
	case metricBBBottom:
		return int32(g.bbox.bl.Y)
	case metricBBTop:
		return int32(g.bbox.tr.Y)
	case metricAdvWidth:
		return int32(g.hAdvance)
	case metricLSB:
		return int32(g.bbox.bl.X)
	case metricRSB:
		return int32(g.hAdvance - g.bbox.tr.X)
	case metricAscent, metricDescent:
		if f.base == nil {
			return 0
		}
		ext, ok := f.base.FontHExtents()
		if !ok {
			return 0
		}
		if metric == metricAscent {
			return int32(ext.Ascender)
		}
		return int32(ext.Descender)
	default:
		return 0
	}
}

// getAdvance implements §4.1's getAdvance: gid's advance scaled by
// scale (typically ppm/unitsPerEm, computed by Font).
func (f *Face) getAdvance(gid GID, scale float32) float32 {
	g := f.getGlyph(gid)
	if g == nil {
		if f.base != nil {
			return f.base.HorizontalAdvance(fonts.GID(gid)) * scale
		}
		return 0
	}
	return g.hAdvance * scale
}

// chooseSilf implements §4.1's chooseSilf: select the sub-table whose
// declared script coverage includes script, falling back to the first
// sub-table, matching the original engine's behavior when no exact
// match exists.
func (f *Face) chooseSilf(script Tag) *silfSubtable {
	script = spaceToZero(script)
	if script != 0 {
		for i := range f.silf {
			for _, s := range f.silf[i].scripts {
				if s == script {
					return &f.silf[i]
				}
			}
		}
	}
	if len(f.silf) != 0 {
		return &f.silf[0]
	}
	return &silfSubtable{}
}


// canonicalizeLanguageTag normalizes a BCP-47 language tag the way the
// Sill table's entries are keyed, reusing the textlayout-derived
// language package rather than hand rolling tag comparison.
func canonicalizeLanguageTag(lang string) string {
	return string(language.NewLanguage(lang))
}

// sillOverridesFor returns the Sill table's feature-default overrides
// for the given script/language pair, canonicalizing lang first (the
// language package wiring described in SPEC_FULL.md).
func (f *Face) sillOverridesFor(script Tag, lang string) FeaturesValue {
	canon := canonicalizeLanguageTag(lang)
	var out FeaturesValue
	for _, e := range f.sill {
		if e.script != 0 && e.script != script {
			continue
		}
		if e.lang != "" && canon != "" && e.lang != canon {
			continue
		}
		for _, ov := range e.overrides {
			out = append(out, ov)
		}
	}
	return out
}
