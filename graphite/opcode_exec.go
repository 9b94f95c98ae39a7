package graphite

// exec dispatches one decoded instruction. Arithmetic and stack
// opcodes mirror the original engine's stack_entry operations
// (code_operations.go's add/sub/mul/div_/min_/max_/neg/trunc8/trunc16/
// cond/and_/or_/not_/equal/not_eq_/less/gtr/less_eq/gtr_eq, the one
// family that survived intact in that source); slot/glyph attribute
// opcodes are this module's own completion of the stubbed-out
// remainder, grounded in §4.4's attribute table.
func (m *machine) exec(instr instruction) {
	op, a := instr.op, instr.args
	switch op {
	case opNop:

	case opPushByte, opPushByteU, opPushShort, opPushShortU, opPushLong:
		m.push(a[0])

	case opAdd:
		b, x := m.pop(), m.pop()
		m.push(x + b)
	case opSub:
		b, x := m.pop(), m.pop()
		m.push(x - b)
	case opMul:
		b, x := m.pop(), m.pop()
		m.push(x * b)
	case opDiv:
		b, x := m.pop(), m.pop()
		if b == 0 {
			m.status = MachineDivByZero
			return
		}
		m.push(x / b)
	case opMin:
		b, x := m.pop(), m.pop()
		if x < b {
			m.push(x)
		} else {
			m.push(b)
		}
	case opMax:
		b, x := m.pop(), m.pop()
		if x > b {
			m.push(x)
		} else {
			m.push(b)
		}
	case opNeg:
		m.push(-m.pop())
	case opTrunc8:
		m.push(int32(int8(m.pop())))
	case opTrunc16:
		m.push(int32(int16(m.pop())))
	case opCond:
		elseV, thenV, cond := m.pop(), m.pop(), m.pop()
		if cond != 0 {
			m.push(thenV)
		} else {
			m.push(elseV)
		}
	case opAnd:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x != 0 && b != 0))
	case opOr:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x != 0 || b != 0))
	case opNot:
		m.push(boolToInt32(m.pop() == 0))
	case opEqual:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x == b))
	case opNotEq:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x != b))
	case opLess:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x < b))
	case opGtr:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x > b))
	case opLessEq:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x <= b))
	case opGtrEq:
		b, x := m.pop(), m.pop()
		m.push(boolToInt32(x >= b))
	case opBand:
		b, x := m.pop(), m.pop()
		m.push(x & b)
	case opBor:
		b, x := m.pop(), m.pop()
		m.push(x | b)
	case opBnot:
		m.push(^m.pop())

	case opNext:
		m.cur = m.slotAt(1)
		if m.cur == nil {
			m.status = MachineSlotOffsetOutOfBounds
		}
	case opCopyNext:
		ns := m.seg.copySlot(m.cur)
		m.seg.insertSlotAfter(m.cur, ns)
		m.cur = ns

	case opPutGlyph8bitObs:
		m.cur.setGlyph(m.seg, GID(a[0]))
	case opPutGlyph:
		m.cur.setGlyph(m.seg, GID(a[0]))
	case opPutSubs8bitObs, opPutSubs:
		slot := m.slotAt(a[0])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.cur.setGlyph(m.seg, slot.glyphID)
	case opPutCopy:
		src := m.slotAt(a[0])
		if src == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.cur.setGlyph(m.seg, src.glyphID)
	case opTempCopy:
		m.tempCopy = m.seg.copySlot(m.cur)

	case opInsert:
		if !m.cur.CanInsertBefore() {
			return
		}
		ns := m.seg.newInsertedSlot(m.cur)
		m.seg.insertSlotBefore(m.cur, ns)
	case opDelete:
		m.seg.deleteSlot(m.cur)

	case opAssoc:
		// a[0] is the count, a[1:] the slot offsets it associated with;
		// association only affects collision/debug bookkeeping, which
		// this module's simplified collider does not consume.

	case opCntxtItem:
		// a[0] is the context item this instruction's body belongs to;
		// a[1] is the instruction index to resume at (resolved by the
		// loader from the program's declared forward byte jump). If the
		// machine isn't currently on that item, skip its body and report
		// the skip as a true result, per §4.4.
		is := m.ctxIndex
		m.ctxIndex++
		if is != a[0] {
			m.ip = int(a[1])
			m.push(1)
		}

	case opAttrSet:
		m.cur.setAttr(m.seg, attrCode(a[0]), 0, m.pop())
	case opAttrAdd:
		cur := m.cur.getAttr(m.seg, attrCode(a[0]), 0)
		m.cur.setAttr(m.seg, attrCode(a[0]), 0, cur+m.pop())
	case opAttrSub:
		cur := m.cur.getAttr(m.seg, attrCode(a[0]), 0)
		m.cur.setAttr(m.seg, attrCode(a[0]), 0, cur-m.pop())
	case opAttrSetSlot:
		val := m.pop()
		slot := m.slotAt(val)
		if attrCode(a[0]) == acAttTo {
			if slot != nil {
				m.cur.detachFromParent()
				m.cur.attachTo(slot)
			}
		}
	case opIAttrSetSlot:
		off := m.slotAt(a[2])
		if off == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		off.setAttr(m.seg, attrCode(a[0]), uint8(a[1]), m.pop())

	case opIAttrSet:
		m.cur.setAttr(m.seg, attrCode(a[0]), uint8(a[1]), m.pop())
	case opIAttrAdd:
		cur := m.cur.getAttr(m.seg, attrCode(a[0]), uint8(a[1]))
		m.cur.setAttr(m.seg, attrCode(a[0]), uint8(a[1]), cur+m.pop())
	case opIAttrSub:
		cur := m.cur.getAttr(m.seg, attrCode(a[0]), uint8(a[1]))
		m.cur.setAttr(m.seg, attrCode(a[0]), uint8(a[1]), cur-m.pop())

	case opPushSlotAttr:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.push(slot.getAttr(m.seg, attrCode(a[0]), 0))
	case opPushIslotAttr:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.push(slot.getAttr(m.seg, attrCode(a[0]), uint8(a[2])))
	case opPushGlyphAttrObs, opPushGlyphAttr:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.push(int32(m.seg.face.glyphAttr(slot.glyphID, uint16(a[0]))))
	case opPushAttToGattrObs, opPushAttToGlyphAttr:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		base := root(slot)
		m.push(int32(m.seg.face.glyphAttr(base.glyphID, uint16(a[0]))))
	case opPushGlyphMetric:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.push(slot.clusterMetric(m.seg, uint8(a[0]), uint8(a[2]), m.seg.currdir()))
	case opPushAttToGlyphMetric:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		base := root(slot)
		m.push(base.clusterMetric(m.seg, uint8(a[0]), uint8(a[2]), m.seg.currdir()))
	case opPushFeat:
		slot := m.slotAt(a[1])
		if slot == nil {
			m.status = MachineSlotOffsetOutOfBounds
			return
		}
		m.push(int32(m.seg.featureValue(Tag(a[0]))))
	case opPushProcState:
		m.push(a[0])
	case opPushVersion:
		m.push(engineVersion)

	case opPopRet:
		m.push(m.pop())
	case opRetZero:
		m.push(0)
	case opRetTrue:
		m.push(1)

	case opSetBits:
		// a[0] is a bitmask, a[1] the value to set within it. Slots carry
		// no flag word for it to apply to, so the operands are decoded
		// and the mutation is dropped.

	case opSetFeat:
		// set_feat changes a feature value mid-run (e.g. tracking the
		// current rendering direction feature); this module treats the
		// segment's feature set as fixed for the lifetime of a shaping
		// call and intentionally drops the mutation, matching the
		// simplified feature model documented in DESIGN.md.

	default:
		m.status = MachineStackUnderflow // unreachable: loader already rejected invalid/unimplemented opcodes
	}
}

// engineVersion is the bytecode-visible engine version number read by
// push_version; rule tables that branch on it expect a value of at
// least 3, the version the original engine's Face/Silf pair requires.
const engineVersion = 0x00030000
