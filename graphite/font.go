package graphite

import "sync"

// AdvanceSource supplies a glyph's horizontal advance in font design
// units, in font units scaled later by Font. Most callers use
// AdvanceFromFace; AdvanceFromCallback exists for a host that hints
// advances itself (e.g. to apply its own rounding), matching the
// GrSimpleFont/GrHintedFont split documented in GrFontImp.h and
// SPEC_FULL.md's supplemented-features section.
type AdvanceSource struct {
	face     *Face
	callback func(GID) (float32, bool)
}

// AdvanceFromFace reads every glyph's advance straight from the Face's
// parsed Glat/hmtx data.
func AdvanceFromFace(face *Face) AdvanceSource { return AdvanceSource{face: face} }

// AdvanceFromCallback lets a host override individual glyph advances
// (e.g. a hinted rasterizer's rounded widths); gids the callback
// reports false for fall back to the Face's own advance.
func AdvanceFromCallback(face *Face, cb func(GID) (float32, bool)) AdvanceSource {
	return AdvanceSource{face: face, callback: cb}
}

func (a AdvanceSource) get(gid GID) float32 {
	if a.callback != nil {
		if v, ok := a.callback(gid); ok {
			return v
		}
	}
	if a.face == nil {
		return 0
	}
	return a.face.getAdvance(gid, 1)
}

// Font is a Face scaled to one pixels-per-em size, with a small
// monotonic cache of glyph advances at that size (§4.1 "Font").
// Building several Fonts from one Face is cheap; the Face itself is
// parsed once and shared.
type Font struct {
	face  *Face
	ppm   float32
	scale float32
	src   AdvanceSource

	mu       sync.Mutex
	advances map[GID]float32
}

// NewFont scales face to ppm pixels per em. unitsPerEm is the font's
// declared design grid (1000 or 2048 are typical); callers without a
// real OpenType font handy may pass 1000, the original engine's
// fallback.
func NewFont(face *Face, ppm float32, unitsPerEm uint16, src AdvanceSource) *Font {
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	return &Font{
		face:     face,
		ppm:      ppm,
		scale:    ppm / float32(unitsPerEm),
		src:      src,
		advances: make(map[GID]float32),
	}
}

// Advance returns gid's advance at this Font's size, computing and
// caching it on first use.
func (f *Font) Advance(gid GID) float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.advances[gid]; ok {
		return v
	}
	v := f.src.get(gid) * f.scale
	f.advances[gid] = v
	return v
}

// Shape runs seg's Silf passes and positions the result at this Font's
// size (§5: "Font + Segment shaping call").
func (f *Font) Shape(seg *Segment) Position {
	seg.scale = f.scale
	return seg.Shape(f)
}
