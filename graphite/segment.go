package graphite

// MaxSegGrowthFactor is a ratio of slots to input characters for one
// shaping call. Nothing in this package checks slot allocation against
// it: insert and copy_next allocate without a per-segment limit.
const MaxSegGrowthFactor = 64

// Segment holds the mutable, per-shaping-call state produced by
// running one run of text through a Face/Font: the CharInfo array, the
// live doubly linked Slot chain, and the bookkeeping the rule machine
// and positioning pass share while they run (§3, §5).
type Segment struct {
	face  *Face
	silf  *silfSubtable
	feats FeaturesValue

	First, Last *Slot
	charinfo    []CharInfo

	pool       *slotPool
	collisions []slotCollision

	dir       Direction
	numGlyphs int
	passBits  uint32
	scale     float32 // ppm / unitsPerEm, set by Font.Shape

	trace traceSink // nil unless logging is enabled
}

// traceSink is the narrow interface the Silf driver and machine use to
// emit a shaping trace; logging.go supplies the JSON implementation,
// keeping tracing a no-op everywhere else when it's nil (§7's "ambient
// logging must never affect shaping outcomes").
type traceSink interface {
	beginPass(idx int, seg *Segment)
	endPass(idx int, seg *Segment)
	ruleFired(r *silfRule, slot *Slot, seg *Segment)
}

// NewSegment builds a Segment from already-decoded text, choosing a
// Silf sub-table by script and mapping each rune to a glyph through the
// face's cmap (falling back to the sub-table's pseudo-glyph table for
// unmapped control characters), matching segment.newSegment in the
// lowercase teacher snapshot, generalized to the exported API the rest
// of this package now uses.
func NewSegment(face *Face, script Tag, lang string, dir Direction, features FeaturesValue, text []rune) *Segment {
	script = spaceToZero(script)

	for _, ov := range face.sillOverridesFor(script, lang) {
		features = features.WithValue(face.featureMap, ov.ID, ov.Value)
	}

	seg := &Segment{
		face:     face,
		silf:     face.chooseSilf(script),
		feats:    features,
		dir:      dir,
		pool:     newSlotPool(defaultSlotBlockSize),
		charinfo: make([]CharInfo, len(text)),
	}
	seg.numGlyphs = len(text)
	seg.collisions = make([]slotCollision, len(text))
	seg.processRunes(text)
	return seg
}

// currdir reports the segment's *current* reading direction, which can
// differ from its nominal direction while the chain is held in visual
// (reversed) order for positioning (§3).
func (seg *Segment) currdir() bool { return ((seg.dir>>6)^seg.dir)&1 != 0 }

func (seg *Segment) mergePassBits(val uint32) { seg.passBits &= val }

// featureValue looks up the active value of a feature by its id; used
// by the push_feat opcode (§4.4).
func (seg *Segment) featureValue(id Tag) int16 {
	if f, ok := seg.feats.findFeature(id); ok {
		return f.Value
	}
	return 0
}

func (seg *Segment) processRunes(text []rune) {
	for i, r := range text {
		var gid GID
		if seg.face.cmap != nil {
			g, _ := seg.face.cmap.Lookup(r)
			gid = GID(g)
		}
		if gid == 0 {
			gid = seg.silf.pseudoMap[r]
		}
		seg.appendSlot(i, r, gid)
	}
}

func (seg *Segment) newSlot() *Slot { return seg.pool.allocate(seg.silf.numUser()) }

// appendSlot grows the chain by one slot bound to CharInfo[index],
// mirroring the teacher's appendSlot but against the exported CharInfo
// and Face types.
func (seg *Segment) appendSlot(index int, r rune, gid GID) {
	s := seg.newSlot()

	info := &seg.charinfo[index]
	info.Char = r
	if g := seg.face.getGlyph(gid); g != nil {
		info.BreakWeight = int16(g.attr(uint16(seg.silf.attrBreakWeight)))
	}
	info.slot = s

	s.setGlyph(seg, gid)
	s.original, s.Before, s.After = index, index, index
	s.index = index

	if seg.Last != nil {
		seg.Last.next = s
	}
	s.prev = seg.Last
	seg.Last = s
	if seg.First == nil {
		seg.First = s
	}

	if skipAttr := uint16(seg.silf.attrSkipPasses); skipAttr != 0 {
		if g := seg.face.getGlyph(gid); g != nil {
			mask := uint32(g.attr(skipAttr))
			if len(seg.silf.passes) > 16 {
				mask |= uint32(g.attr(skipAttr+1)) << 16
			}
			seg.mergePassBits(mask)
		}
	}
}

// allSlots returns every slot currently in the chain, in chain order.
// It exists for bookkeeping (loop bounds, test assertions), not the
// shaping hot path.
func (seg *Segment) allSlots() []*Slot {
	out := make([]*Slot, 0, seg.numGlyphs)
	for s := seg.First; s != nil; s = s.next {
		out = append(out, s)
	}
	return out
}

// copySlot clones src's glyph and attachment-relevant fields into a
// freshly allocated slot, used by copy_next/temp_copy (§4.4).
func (seg *Segment) copySlot(src *Slot) *Slot {
	ns := seg.newSlot()
	ns.glyphID = src.glyphID
	ns.Advance = src.Advance
	ns.Position = src.Position
	ns.original = src.original
	ns.Before, ns.After = src.Before, src.After
	ns.bidiCls = src.bidiCls
	ns.copied = true
	ns.index = src.index
	return ns
}

// newInsertedSlot allocates a slot for the insert opcode, inheriting
// the anchoring CharInfo of the slot it will be spliced next to so that
// §3's before<=original<=after coverage invariant keeps holding.
func (seg *Segment) newInsertedSlot(near *Slot) *Slot {
	ns := seg.newSlot()
	ns.original = near.original
	ns.Before, ns.After = near.Before, near.After
	ns.inserted = true
	ns.index = near.index
	return ns
}

func (seg *Segment) insertSlotAfter(at, ns *Slot) {
	ns.prev = at
	ns.next = at.next
	if at.next != nil {
		at.next.prev = ns
	} else {
		seg.Last = ns
	}
	at.next = ns
}

func (seg *Segment) insertSlotBefore(at, ns *Slot) {
	ns.next = at
	ns.prev = at.prev
	if at.prev != nil {
		at.prev.next = ns
	} else {
		seg.First = ns
	}
	at.prev = ns
}

// deleteSlot unlinks s from the chain and returns it to the pool. Its
// CharInfo keeps pointing at whichever neighbor inherits coverage, so
// getCharInfo(s.original) is never left dangling (§3 "deletion never
// breaks character coverage").
func (seg *Segment) deleteSlot(s *Slot) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		seg.First = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		seg.Last = s.prev
	}
	s.detachFromParent()
	for c := s.child; c != nil; {
		next := c.sibling
		c.parent = nil
		c.sibling = nil
		c = next
	}
	if ci := seg.getCharInfo(s.original); ci != nil && ci.slot == s {
		if s.next != nil {
			ci.slot = s.next
		} else {
			ci.slot = s.prev
		}
	}
	seg.pool.release(s)
}

// reverseSlots flips the chain's visual order while keeping each
// diacritic immediately after the base it is attached to, matching the
// teacher's reverseSlots verbatim in structure (§3 "RTL runs keep
// clusters intact").
func (seg *Segment) reverseSlots() {
	seg.dir = seg.dir ^ 64
	if seg.First == seg.Last {
		return
	}

	var t, tlast, tfirst, out *Slot
	curr := seg.First

	for curr != nil && seg.getSlotBidiClass(curr) == 16 {
		curr = curr.next
	}
	if curr == nil {
		return
	}
	tfirst = curr.prev
	tlast = curr

	for curr != nil {
		if seg.getSlotBidiClass(curr) == 16 {
			d := curr.next
			for d != nil && seg.getSlotBidiClass(d) == 16 {
				d = d.next
			}
			if d != nil {
				d = d.prev
			} else {
				d = seg.Last
			}
			p := out.next
			if p != nil {
				p.prev = d
			} else {
				tlast = d
			}
			t = d.next
			d.next = p
			curr.prev = out
			out.next = curr
		} else {
			if out != nil {
				out.prev = curr
			}
			t = curr.next
			curr.next = out
			out = curr
		}
		curr = t
	}
	out.prev = tfirst
	if tfirst != nil {
		tfirst.next = out
	} else {
		seg.First = out
	}
	seg.Last = tlast
}

// doMirror substitutes each slot's glyph for its declared mirror-image
// glyph (the Glat "mirror" attribute), used for RTL runs over fonts
// that draw directional punctuation as distinct glyphs (§4.1, §4.5).
func (seg *Segment) doMirror(mirrorAttr uint16) {
	for s := seg.First; s != nil; s = s.next {
		g := GID(seg.face.glyphAttr(s.glyphID, mirrorAttr))
		if g != 0 && (seg.dir&4 == 0 || seg.face.glyphAttr(s.glyphID, mirrorAttr+1) == 0) {
			s.setGlyph(seg, g)
		}
	}
}

func (seg *Segment) getSlotBidiClass(s *Slot) int8 {
	if s.bidiCls != -1 {
		return s.bidiCls
	}
	res := int8(seg.face.glyphAttr(s.glyphID, uint16(seg.silf.attrDirectionality)))
	s.bidiCls = res
	return res
}

// getCharInfo returns the CharInfo at index, or nil when index is out
// of range — every caller in this package treats that as "no
// information available" rather than an error (§4.1).
func (seg *Segment) getCharInfo(index int) *CharInfo {
	if index >= 0 && index < len(seg.charinfo) {
		return &seg.charinfo[index]
	}
	return nil
}

func (seg *Segment) getCollisionInfo(s *Slot) *slotCollision {
	if s.index >= 0 && s.index < len(seg.collisions) {
		return &seg.collisions[s.index]
	}
	return nil
}

// Shape runs every pass of the segment's chosen Silf sub-table, then
// positions the result. It is the single entry point a caller uses
// after NewSegment (§5).
func (seg *Segment) Shape(font *Font) Position {
	if err := seg.silf.runPasses(seg); err != nil {
		return Position{}
	}
	isRtl := seg.dir&1 != 0
	return seg.positionSlots(font, nil, nil, isRtl, true)
}

// SetScope narrows shaping to the half-open CharInfo range [start,end),
// splicing a sub-chain out of the segment for an isolated re-run — the
// segment-splicing feature described in SPEC_FULL.md, grounded on
// GrSegmentImp.h's SegmentScopeState/setScope/removeScope. It returns
// the saved endpoints RemoveScope needs to restore the full chain.
func (seg *Segment) SetScope(start, end int) (savedFirst, savedLast *Slot) {
	savedFirst, savedLast = seg.First, seg.Last
	var first, last *Slot
	for s := seg.First; s != nil; s = s.next {
		if s.original >= start && first == nil {
			first = s
		}
		if s.original < end {
			last = s
		}
	}
	if first == nil {
		first = seg.First
	}
	if last == nil {
		last = seg.Last
	}
	seg.First, seg.Last = first, last
	return savedFirst, savedLast
}

// RemoveScope restores the full chain saved by a prior SetScope call.
func (seg *Segment) RemoveScope(savedFirst, savedLast *Slot) {
	seg.First, seg.Last = savedFirst, savedLast
}
