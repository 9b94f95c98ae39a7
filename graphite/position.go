package graphite

// positionSlots walks the slot chain from iStart to iEnd (the whole
// chain when either is nil) laying out each base cluster and its
// attached children, returning the whole segment's advance. It mirrors
// segment.positionSlots from the teacher snapshot, generalized to the
// exported Slot/Segment types and to the attachment-anchor resolution
// this module adds (§4.1 "Positioning pass").
func (seg *Segment) positionSlots(font *Font, iStart, iEnd *Slot, isRtl, isFinal bool) Position {
	var currpos Position
	reorder := seg.currdir() != isRtl

	if reorder {
		seg.reverseSlots()
		iStart, iEnd = iEnd, iStart
	}
	if iStart == nil {
		iStart = seg.First
	}
	if iEnd == nil {
		iEnd = seg.Last
	}
	if iStart == nil || iEnd == nil {
		return currpos
	}

	if isRtl {
		for s, end := iEnd, iStart.prev; s != nil && s != end; s = s.prev {
			if s.isBase() {
				currpos = seg.positionCluster(font, s, currpos, isRtl)
			}
		}
	} else {
		for s, end := iStart, iEnd.next; s != nil && s != end; s = s.next {
			if s.isBase() {
				currpos = seg.positionCluster(font, s, currpos, isRtl)
			}
		}
	}

	if reorder {
		seg.reverseSlots()
	}
	return currpos
}

// positionCluster places one base slot at pen (plus its own rule-applied
// shift), positions every slot attached to it, and returns the pen
// position advanced past the base's glyph.
func (seg *Segment) positionCluster(font *Font, base *Slot, pen Position, isRtl bool) Position {
	base.Position = pen.add(base.shift)
	seg.positionChildren(base, isRtl)

	adv := base.Advance
	if font != nil {
		adv.X = font.Advance(base.glyphID)
	} else if seg.scale != 0 {
		adv = adv.scale(seg.scale)
	}
	return pen.add(adv)
}

// positionChildren resolves every child attached to parent using the
// glyph's declared attachment-point attributes, then recurses so a
// multi-level attachment forest (e.g. a base with a stacked vowel sign
// that itself carries a tone mark) positions correctly (§3 "Attachment
// forest").
func (seg *Segment) positionChildren(parent *Slot, isRtl bool) {
	for c := parent.child; c != nil; c = c.sibling {
		parentAnchor := seg.resolveAttachPoint(parent, c.with)
		childAnchor := seg.resolveAttachPoint(c, c.attachAt)
		c.withPos = parentAnchor
		c.attachPos = childAnchor
		c.Position = parent.Position.add(parentAnchor).sub(childAnchor).add(c.shift)
		seg.positionChildren(c, isRtl)
	}
}

// resolveAttachPoint reads an attachment point's (x, y) font-unit
// coordinates from a pair of consecutive Glat glyph attributes, the
// convention Graphite fonts use to store named anchor points (§4.1:
// glyphAttr). The result is scaled into the same units as Position.
func (seg *Segment) resolveAttachPoint(s *Slot, attrIdx uint16) Position {
	p := Position{
		X: float32(int16(seg.face.glyphAttr(s.glyphID, attrIdx))),
		Y: float32(int16(seg.face.glyphAttr(s.glyphID, attrIdx+1))),
	}
	if seg.scale != 0 {
		p = p.scale(seg.scale)
	}
	return p
}
