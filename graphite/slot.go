package graphite

// attrCode enumerates the slot and glyph attributes the rule machine can
// read and write. The numbering is this module's own, and it is what
// bytecode carries: an attribute operand is one byte holding one of
// these values, decoded by the Code loader.
type attrCode uint8

const (
	acAdvX attrCode = iota
	acAdvY
	acAttTo
	acAttX
	acAttY
	acAttXOff
	acAttYOff
	acAttWithX
	acAttWithY
	acAttWithXOff
	acAttWithYOff
	acAttLevel
	acBreak
	acCompRef
	acDir
	acInsert
	acPosX
	acPosY
	acShiftX
	acShiftY
	acMeasureSol
	acMeasureEol
	acJStretch
	acJShrink
	acJStep
	acJWeight
	acJWidth
	acSegSplit
	acUserDefn // base; acUserDefn+n addresses userAttrs[n]
)

// slotJustify carries the small set of justification parameters a rule
// may tune per slot (§1 notes caret/justification metrics are limited to
// what slot attributes already expose).
type slotJustify struct {
	stretch, shrink, step, weight float32
}

// Slot is one shaping unit: a node in the Segment's mutable doubly
// linked chain, per §3.
type Slot struct {
	glyphID GID

	Position Position // resolved origin, relative to segment start
	Advance  Position
	shift    Position // rule-applied positional nudge (acShiftX/Y)

	parent         *Slot
	child          *Slot  // first child
	sibling        *Slot  // next child of the same parent
	attachAt, with uint16 // glyph-attribute indices naming the anchor points

	// attachPos and withPos are the resolved positions of, respectively,
	// this slot's attachAt point and its parent's with point. They are
	// filled in during positioning (position.go) and read back by the
	// attr_* opcodes and the JSON trace dump.
	attachPos, withPos Position

	prev, next *Slot // chain order

	Before, After int // inclusive CharInfo index range this slot covers
	original      int // CharInfo index this slot was born from; stable under deletion

	just      slotJustify
	bidiLevel uint8
	bidiCls   int8 // cached bidi class; -1 means "not yet resolved"

	userAttrs []int16 // width fixed by the active Silf sub-table

	deleted, inserted, copied bool

	index int // position in the segment's collision-info table
}

// GlyphID returns the glyph this slot currently carries, the one a host
// should actually draw.
func (s *Slot) GlyphID() GID { return s.glyphID }

// Origin returns the slot's resolved position, relative to the
// segment's start, after Font.Shape has run.
func (s *Slot) Origin() Position { return s.Position }

// Next returns the following slot in reading order, or nil at the end
// of the chain.
func (s *Slot) Next() *Slot { return s.next }

func (s *Slot) isBase() bool { return s.parent == nil }

// isCopied reports whether this slot was produced by Segment.copySlot
// (copy_next/temp_copy); the flag is never cleared. objectID in
// logging.go uses it to tag the slot's debug id.
func (s *Slot) isCopied() bool { return s.copied }

// CanInsertBefore reports whether a cursor positioned at this slot may
// have new slots spliced in before it (acInsert).
func (s *Slot) CanInsertBefore() bool { return !s.inserted }

func (s *Slot) setGlyph(seg *Segment, gid GID) {
	s.glyphID = gid
	s.bidiCls = -1
	if seg == nil || seg.face == nil {
		return
	}
	if g := seg.face.getGlyph(gid); g != nil {
		s.Advance = Position{X: g.hAdvance}
	}
}

// attachTo links s as a child of parent, adding it to the head of the
// parent's child list. The Code loader does no attachment cycle check;
// this method keeps the forest acyclic (§3 Invariants: Attachment) by
// leaving s unattached when parent is s or one of s's descendants.
func (s *Slot) attachTo(parent *Slot) {
	for p := parent; p != nil; p = p.parent {
		if p == s {
			return
		}
	}
	s.parent = parent
	s.sibling = parent.child
	parent.child = s
}

func (s *Slot) detachFromParent() {
	if s.parent == nil {
		return
	}
	p := s.parent
	if p.child == s {
		p.child = s.sibling
	} else {
		for c := p.child; c != nil; c = c.sibling {
			if c.sibling == s {
				c.sibling = s.sibling
				break
			}
		}
	}
	s.parent = nil
	s.sibling = nil
}

// root walks the attachment chain to the unattached ancestor of is,
// matching findRoot in the original engine.
func root(is *Slot) *Slot {
	s := is
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// attachDepth returns the number of attachment levels between s and its
// root ancestor (0 for a base slot).
func (s *Slot) attachDepth() int32 {
	var depth int32
	for p := s.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// getAttr implements the slot-attribute read side of the attr_* and
// push_*attr opcode family (§4.4).
func (s *Slot) getAttr(seg *Segment, slat attrCode, idx uint8) int32 {
	switch slat {
	case acAdvX:
		return int32(s.Advance.X)
	case acAdvY:
		return int32(s.Advance.Y)
	case acAttTo:
		if s.parent == nil {
			return 0
		}
		return 1
	case acAttX:
		return int32(s.attachPos.X)
	case acAttY:
		return int32(s.attachPos.Y)
	case acAttWithX:
		return int32(s.withPos.X)
	case acAttWithY:
		return int32(s.withPos.Y)
	case acAttLevel:
		return s.attachDepth()
	case acBreak:
		if seg == nil {
			return 0
		}
		if ci := seg.getCharInfo(s.original); ci != nil {
			return int32(ci.BreakWeight)
		}
		return 0
	case acDir:
		if seg == nil {
			return 0
		}
		return int32(boolToInt32(seg.currdir()))
	case acInsert:
		return boolToInt32(s.inserted)
	case acPosX:
		return int32(s.Position.X)
	case acPosY:
		return int32(s.Position.Y)
	case acShiftX:
		return int32(s.shift.X)
	case acShiftY:
		return int32(s.shift.Y)
	case acJStretch:
		return int32(s.just.stretch)
	case acJShrink:
		return int32(s.just.shrink)
	case acJStep:
		return int32(s.just.step)
	case acJWeight:
		return int32(s.just.weight)
	default:
		if slat >= acUserDefn {
			i := int(slat-acUserDefn) + int(idx)
			if i >= 0 && i < len(s.userAttrs) {
				return int32(s.userAttrs[i])
			}
		}
		return 0
	}
}

// setAttr implements the write side; it is only ever invoked from a
// rule whose Code is not a constraint program (the loader rejects
// mutation opcodes in constraint programs, per §4.3).
func (s *Slot) setAttr(seg *Segment, slat attrCode, idx uint8, val int32) {
	switch slat {
	case acAdvX:
		s.Advance.X = float32(val)
	case acAdvY:
		s.Advance.Y = float32(val)
	case acShiftX:
		s.shift.X = float32(val)
	case acShiftY:
		s.shift.Y = float32(val)
	case acPosX:
		s.Position.X = float32(val)
	case acPosY:
		s.Position.Y = float32(val)
	case acInsert:
		s.inserted = val != 0
	case acSegSplit:
		if seg != nil {
			if ci := seg.getCharInfo(s.original); ci != nil {
				if val != 0 {
					ci.addFlags(charInfoSegSplit)
				}
			}
		}
	case acJStretch:
		s.just.stretch = float32(val)
	case acJShrink:
		s.just.shrink = float32(val)
	case acJStep:
		s.just.step = float32(val)
	case acJWeight:
		s.just.weight = float32(val)
	default:
		if slat >= acUserDefn {
			i := int(slat-acUserDefn) + int(idx)
			if i >= 0 && i < len(s.userAttrs) {
				s.userAttrs[i] = int16(val)
			}
		}
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// clusterMetric serves push_glyph_metric/push_att_to_glyph_metric. It
// returns the Face metric of the glyph at the root of s's attachment
// tree (s itself when unattached). attrLevel and rtl are not consulted:
// no whole-cluster extent is computed.
func (s *Slot) clusterMetric(seg *Segment, metric uint8, attrLevel uint8, rtl bool) int32 {
	base := root(s)
	switch metric {
	case metricAscent, metricDescent, metricCapHeight:
		return seg.face.getGlyphMetric(base.glyphID, metric)
	default:
		return seg.face.getGlyphMetric(base.glyphID, metric)
	}
}

func (s *Slot) objectID() string {
	if s == nil {
		return ""
	}
	if s.isCopied() {
		return hexPtr(s) + "(copy)"
	}
	return hexPtr(s)
}
