package graphite

// slotCollision is the small per-slot record the collision-avoidance
// pass keeps in Segment.collisions. Field names follow the Glat
// attribute names the original engine exposes. The single-axis resolver
// below writes only offset and flags; no opcode and no part of the JSON
// trace reads these records.
type slotCollision struct {
	offset, limit Position
	flags         uint16
	margin        float32
	marginWt      float32

	exclGlyph  GID
	exclOffset Position

	seqClass      uint16
	seqProxClass  uint16
	seqOrder      uint16
	seqAboveXoff  float32
	seqAboveWt    float32
	seqBelowXlim  float32
	seqBelowWt    float32
	seqValignHt   float32
	seqValignWt   float32
}

const (
	collFlagColl uint16 = 1 << iota
	collFlagFixed
)

// exclusion is one forbidden interval a collider must route a glyph's
// shift around, kept in the shape the original engine's shiftCollider
// debug output names (x, xm: interval bounds; sm, smx: slope-limited
// sub-bounds; c: a classification code).
type exclusion struct {
	x, xm, sm, smx, c float32
}

type collisionRange struct {
	pos, posm  float32
	exclusions []exclusion
}

// shiftCollider resolves a single glyph's horizontal collision against
// its immediate neighbor, one axis at a time — a deliberate
// simplification of the original engine's full multi-pass exclusion
// zone solver, which shares its internal state (ranges, target,
// origin) across every glyph in a cluster. Collision avoidance is not
// named as a core component in this module's component table, so only
// the original's field shape survives; the JSON trace does not include
// collider state.
type shiftCollider struct {
	target    *Slot
	limit     rect
	origin    Position
	currShift Position
	ranges    [2]collisionRange
}

func newShiftCollider(target *Slot, origin Position) *shiftCollider {
	return &shiftCollider{target: target, origin: origin}
}

// resolve nudges c.target along the X axis until its bounding box no
// longer overlaps prevBox, recording the exclusion interval it routed
// around in c.ranges.
func (c *shiftCollider) resolve(prevBox, ownBox rect) Position {
	overlap := prevBox.tr.X - ownBox.bl.X
	if overlap <= 0 {
		return Position{}
	}
	c.ranges[0].exclusions = append(c.ranges[0].exclusions, exclusion{
		x: ownBox.bl.X, xm: prevBox.tr.X, sm: 0, smx: overlap, c: 0,
	})
	c.currShift = Position{X: overlap}
	return c.currShift
}

// zoneDebug is one collider's resolution, recorded in a zones record.
type zoneDebug struct {
	slot   *Slot
	shift  Position
	ranges [2]collisionRange
}

// zones accumulates one zoneDebug per slot the collision pass touched
// during a single pass run. resolveCollisions returns it; the Silf
// driver discards it, and logging.go's passJSON has no field for it.
type zones struct {
	debugs []zoneDebug
}

// resolveCollisions runs the single-axis collider across the whole
// chain, left to right, shifting each base glyph clear of its
// predecessor's bounding box. It is invoked by the Silf driver only for
// passes whose collisionFixup flag is set (§4.5).
func (seg *Segment) resolveCollisions() *zones {
	z := &zones{}
	var prevBox rect
	havePrev := false

	for s := seg.First; s != nil; s = s.next {
		if !s.isBase() {
			continue
		}
		own := seg.glyphBox(s)
		if havePrev {
			col := newShiftCollider(s, s.Position)
			shift := col.resolve(prevBox, own)
			if shift.X != 0 {
				s.shift.X += shift.X
				s.Position.X += shift.X
				own = own.translate(shift)
				if ci := seg.getCollisionInfo(s); ci != nil {
					ci.offset = shift
					ci.flags |= collFlagColl
				}
			}
			z.debugs = append(z.debugs, zoneDebug{slot: s, shift: shift, ranges: col.ranges})
		}
		prevBox, havePrev = own, true
	}
	return z
}

// glyphBox returns s's own bounding box unioned with every attached
// child's box, so a base glyph collides as the full cluster it anchors
// rather than leaving its diacritics to overlap a neighbor unnoticed.
func (seg *Segment) glyphBox(s *Slot) rect {
	box := seg.ownGlyphBox(s)
	for c := s.child; c != nil; c = c.sibling {
		box = box.union(seg.glyphBox(c))
	}
	return box
}

func (seg *Segment) ownGlyphBox(s *Slot) rect {
	g := seg.face.getGlyph(s.glyphID)
	if g == nil {
		return rect{}
	}
	return g.bbox.translate(s.Position)
}
