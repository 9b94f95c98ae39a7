package graphite

// instruction is one decoded step of a loaded Rule Code program: an
// opcode plus its already-decoded immediate operands. Decoding once at
// load time, rather than re-parsing raw bytes on every run, is what
// lets machine.run stay a tight interpreter loop (§4.3, grounded in
// Code.h's _code/_data split).
type instruction struct {
	op   opcode
	args []int32
}

// Code is one loaded, validated bytecode program: either a rule's
// match constraint or its action. A Code whose Status is not
// StatusLoaded is inert — running it is a no-op that reports
// MachineFinished immediately, matching Code::operator bool() in the
// original engine.
type Code struct {
	instrs       []instruction
	Status       CodeStatus
	isConstraint bool
	modifies     bool
	deletes      bool
	maxRef       int8 // largest absolute slot offset any instruction references
}

// IsLoaded reports whether the program passed validation and may be
// run.
func (c *Code) IsLoaded() bool { return c.Status == StatusLoaded }

// Immutable reports whether the program contains no slot-mutating
// opcodes, matching Code::immutable() (§4.3's "constraint programs
// never mutate" invariant is enforced at load time below, not by this
// query alone).
func (c *Code) Immutable() bool { return !c.modifies && !c.deletes }

// MaxRef returns the largest slot offset, positive or negative, that
// this program addresses relative to its starting slot.
func (c *Code) MaxRef() int8 { return c.maxRef }

type decodeField uint8

const (
	fByte  decodeField = iota // signed 8-bit
	fByteU                    // unsigned 8-bit
	fShort                    // signed 16-bit
	fShortU                   // unsigned 16-bit
	fLong                     // signed 32-bit
	fSlot                     // signed 8-bit slot offset; tracked for MaxRef
)

// decodeSpec lists the immediate fields an opcode's encoding carries,
// in order. Opcodes absent from this map, with no declared paramBytes,
// take no immediate operand.
var decodeSpec = map[opcode][]decodeField{
	opPushByte:             {fByte},
	opPushByteU:            {fByteU},
	opPushShort:            {fShort},
	opPushShortU:           {fShortU},
	opPushLong:             {fLong},
	opNextN:                {fByteU},
	opCntxtItem:            {fSlot, fByteU},
	opPutGlyph8bitObs:      {fByteU},
	opPutSubs8bitObs:       {fSlot, fByteU, fByteU},
	opPutCopy:              {fSlot},
	opAttrSet:              {fByteU},
	opAttrAdd:              {fByteU},
	opAttrSub:              {fByteU},
	opAttrSetSlot:          {fByteU},
	opIAttrSetSlot:         {fByteU, fByteU, fSlot},
	opPushSlotAttr:         {fByteU, fSlot},
	opPushGlyphAttrObs:     {fByteU, fSlot},
	opPushGlyphMetric:      {fByteU, fSlot, fByte},
	opPushFeat:             {fByteU, fSlot},
	opPushAttToGattrObs:    {fByteU, fSlot},
	opPushAttToGlyphMetric: {fByteU, fSlot, fByte},
	opPushIslotAttr:        {fByteU, fSlot, fByteU},
	opPushIglyphAttr:       {fByteU, fSlot, fByteU},
	opIAttrSet:             {fByteU, fByteU},
	opIAttrAdd:             {fByteU, fByteU},
	opIAttrSub:             {fByteU, fByteU},
	opPushProcState:        {fByteU},
	opPutSubs:              {fSlot, fByteU, fByteU, fByteU},
	opPutGlyph:             {fShortU},
	opPushGlyphAttr:        {fShortU, fSlot},
	opPushAttToGlyphAttr:   {fShortU, fSlot},
	opSetBits:              {fShortU, fShortU},
	opSetFeat:              {fShortU},
}

// variableLength marks the handful of opcodes whose encoding carries a
// leading count byte followed by that many further slot-offset bytes,
// per the original engine's assoc and the two put_subs variants it
// never finished (put_subs2/3, kept here as declared-unimplemented).
var variableLength = map[opcode]bool{
	opAssoc:    true,
	opPutSubs2: true,
	opPutSubs3: true,
}

// mutatingOpcodes is the set an action program may use but a
// constraint program may never contain, per §4.3: "the loader rejects
// mutation opcodes in constraint programs."
var mutatingOpcodes = map[opcode]bool{
	opCopyNext: true, opPutGlyph8bitObs: true, opPutSubs8bitObs: true,
	opPutCopy: true, opInsert: true, opDelete: true, opAttrSet: true,
	opAttrAdd: true, opAttrSub: true, opAttrSetSlot: true, opIAttrSetSlot: true,
	opIAttrSet: true, opIAttrAdd: true, opIAttrSub: true, opPutSubs: true,
	opPutSubs2: true, opPutSubs3: true, opPutGlyph: true, opTempCopy: true,
	opSetFeat: true, opSetBits: true, opAssoc: true,
}

// loadCode decodes raw bytecode into a validated Code. preContext and
// matchLength bound the slot offsets a rule may legally reference
// (max_ref), matching Code(bool, byte*, byte*, uint8, uint16, Silf&,
// Face&) in the original engine.
func loadCode(isConstraint bool, raw []byte, preContext uint8, matchLength uint16) Code {
	c := Code{isConstraint: isConstraint}
	if len(raw) == 0 {
		c.Status = StatusLoaded
		return c
	}

	minRef := -int(preContext)
	maxRefBound := int(matchLength)

	// instrStart[k] is the byte offset of c.instrs[k]'s opcode byte; it's
	// what a cntxt_item jump target must land on exactly for the loader
	// to accept it as "an opcode boundary within the program" (§4.3).
	var instrStart []int
	var jumps []pendingJump

	i := 0
	for i < len(raw) {
		start := i
		op := opcode(raw[i])
		i++
		if !op.valid() {
			c.Status = StatusInvalidOpcode
			return c
		}
		info := op.info()
		if info.unimplemented {
			c.Status = StatusUnimplementedOpcode
			return c
		}
		if isConstraint && mutatingOpcodes[op] {
			c.Status = StatusInvalidOpcode
			return c
		}

		var args []int32
		if variableLength[op] {
			if i >= len(raw) {
				c.Status = StatusArgumentsExhausted
				return c
			}
			n := int(raw[i])
			i++
			args = append(args, int32(n))
			for k := 0; k < n; k++ {
				if i >= len(raw) {
					c.Status = StatusArgumentsExhausted
					return c
				}
				off := int32(int8(raw[i]))
				i++
				args = append(args, off)
				if tracked, ok := trackRef(off, &c.maxRef, minRef, maxRefBound); ok && !tracked {
					c.Status = StatusOutOfRangeData
					return c
				}
			}
		} else {
			fields := decodeSpec[op]
			for _, f := range fields {
				width := fieldWidth(f)
				if i+width > len(raw) {
					c.Status = StatusArgumentsExhausted
					return c
				}
				v := decodeFieldValue(f, raw[i:i+width])
				i += width
				if f == fSlot {
					if ok, valid := trackRef(v, &c.maxRef, minRef, maxRefBound); ok && !valid {
						c.Status = StatusOutOfRangeData
						return c
					}
				}
				args = append(args, v)
			}
		}

		if op == opCntxtItem {
			// args[1] is still the raw forward byte count here; it is
			// resolved to a target instruction index below, once every
			// instruction's start offset has been recorded.
			jumps = append(jumps, pendingJump{instrIndex: len(c.instrs), base: i, n: int(args[1])})
		}

		if mutatingOpcodes[op] {
			if op == opDelete {
				c.deletes = true
			} else {
				c.modifies = true
			}
		}

		instrStart = append(instrStart, start)
		c.instrs = append(c.instrs, instruction{op: op, args: args})
	}

	for _, j := range jumps {
		target := j.base + j.n
		idx := indexOf(instrStart, target)
		if idx < 0 {
			c.Status = StatusJumpPastEnd
			return c
		}
		c.instrs[j.instrIndex].args[1] = int32(idx)
	}

	if !isConstraint && !endsInReturn(c.instrs) {
		c.Status = StatusMissingReturn
		return c
	}

	c.Status = StatusLoaded
	return c
}

// pendingJump records one cntxt_item instruction's declared forward
// byte jump, deferred until the full instruction stream is known so its
// target can be checked against every instruction's start offset.
type pendingJump struct {
	instrIndex int // index into c.instrs of the cntxt_item itself
	base       int // raw byte offset right after its operands
	n          int // declared forward jump distance, in bytes
}

func indexOf(offsets []int, target int) int {
	for k, off := range offsets {
		if off == target {
			return k
		}
	}
	return -1
}

func endsInReturn(instrs []instruction) bool {
	if len(instrs) == 0 {
		return false
	}
	switch instrs[len(instrs)-1].op {
	case opPopRet, opRetZero, opRetTrue:
		return true
	default:
		return false
	}
}

// trackRef folds a newly seen slot offset into maxRef, rejecting
// offsets outside [minRef, maxRefBound] the way the loader enforces
// "a rule cannot reference slots outside its declared context window."
// The second return value is only meaningful when the first is true.
func trackRef(off int32, maxRef *int8, minRef, maxRefBound int) (checked, valid bool) {
	if int(off) < minRef || int(off) > maxRefBound {
		return true, false
	}
	abs := off
	if abs < 0 {
		abs = -abs
	}
	if int8(abs) > *maxRef {
		*maxRef = int8(abs)
	}
	return true, true
}

func fieldWidth(f decodeField) int {
	switch f {
	case fByte, fByteU, fSlot:
		return 1
	case fShort, fShortU:
		return 2
	case fLong:
		return 4
	default:
		return 0
	}
}

func decodeFieldValue(f decodeField, raw []byte) int32 {
	switch f {
	case fByte:
		return int32(int8(raw[0]))
	case fByteU:
		return int32(raw[0])
	case fSlot:
		return int32(int8(raw[0]))
	case fShort:
		return int32(int16(uint16(raw[0])<<8 | uint16(raw[1])))
	case fShortU:
		return int32(uint16(raw[0])<<8 | uint16(raw[1]))
	case fLong:
		return int32(uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3]))
	default:
		return 0
	}
}
