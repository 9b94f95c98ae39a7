package graphite

// opcode identifies one instruction in a Rule Code program. The numeric
// values follow the original engine's bytecode encoding; they are what
// the compiled Silf table's constraint and action programs actually
// contain, so they cannot be renumbered.
type opcode uint8

const (
	opNop opcode = iota
	opPushByte
	opPushByteU
	opPushShort
	opPushShortU
	opPushLong
	opAdd
	opSub
	opMul
	opDiv
	opMin
	opMax
	opNeg
	opTrunc8
	opTrunc16
	opCond
	opAnd
	opOr
	opNot
	opEqual
	opNotEq
	opLess
	opGtr
	opLessEq
	opGtrEq
	opNext
	opNextN
	opCopyNext
	opPutGlyph8bitObs
	opPutSubs8bitObs
	opPutCopy
	opInsert
	opDelete
	opAssoc
	opCntxtItem
	opAttrSet
	opAttrAdd
	opAttrSub
	opAttrSetSlot
	opIAttrSetSlot
	opPushSlotAttr
	opPushGlyphAttrObs
	opPushGlyphMetric
	opPushFeat
	opPushAttToGattrObs
	opPushAttToGlyphMetric
	opPushIslotAttr
	opPushIglyphAttr
	opPopRet
	opRetZero
	opRetTrue
	opIAttrSet
	opIAttrAdd
	opIAttrSub
	opPushProcState
	opPushVersion
	opPutSubs
	opPutSubs2
	opPutSubs3
	opPutGlyph
	opPushGlyphAttr
	opPushAttToGlyphAttr
	opTempCopy
	opBand
	opBor
	opBnot
	opSetBits
	opSetFeat
	opMax_ // sentinel: one past the highest valid opcode
)

// opcodeInfo describes one opcode's static shape: how many parameter
// bytes it consumes from the instruction's immediate operand, whether
// it is a recognized-but-unimplemented placeholder (next_n,
// push_iglyph_attr, put_subs2 and put_subs3), and whether it is only
// legal inside an action program (never a constraint).
type opcodeInfo struct {
	name          string
	paramBytes    int // -1 means "variable, determined by the first param byte"
	unimplemented bool
	actionOnly    bool
}

var opcodeTable = [opMax_]opcodeInfo{
	opNop:                   {name: "nop"},
	opPushByte:              {name: "push_byte", paramBytes: 1},
	opPushByteU:             {name: "push_byte_u", paramBytes: 1},
	opPushShort:             {name: "push_short", paramBytes: 2},
	opPushShortU:            {name: "push_short_u", paramBytes: 2},
	opPushLong:              {name: "push_long", paramBytes: 4},
	opAdd:                   {name: "add"},
	opSub:                   {name: "sub"},
	opMul:                   {name: "mul"},
	opDiv:                   {name: "div"},
	opMin:                   {name: "min"},
	opMax:                   {name: "max"},
	opNeg:                   {name: "neg"},
	opTrunc8:                {name: "trunc8"},
	opTrunc16:               {name: "trunc16"},
	opCond:                  {name: "cond"},
	opAnd:                   {name: "and"},
	opOr:                    {name: "or"},
	opNot:                   {name: "not"},
	opEqual:                 {name: "equal"},
	opNotEq:                 {name: "not_eq"},
	opLess:                  {name: "less"},
	opGtr:                   {name: "gtr"},
	opLessEq:                {name: "less_eq"},
	opGtrEq:                 {name: "gtr_eq"},
	opNext:                  {name: "next"},
	opNextN:                 {name: "next_n", paramBytes: 1, unimplemented: true},
	opCopyNext:              {name: "copy_next", actionOnly: true},
	opPutGlyph8bitObs:       {name: "put_glyph_8bit_obs", paramBytes: 1, actionOnly: true},
	opPutSubs8bitObs:        {name: "put_subs_8bit_obs", paramBytes: 3, actionOnly: true},
	opPutCopy:               {name: "put_copy", paramBytes: 1, actionOnly: true},
	opInsert:                {name: "insert", actionOnly: true},
	opDelete:                {name: "delete", actionOnly: true},
	opAssoc:                 {name: "assoc", paramBytes: -1, actionOnly: true},
	opCntxtItem:             {name: "cntxt_item", paramBytes: 2},
	opAttrSet:               {name: "attr_set", paramBytes: 1, actionOnly: true},
	opAttrAdd:               {name: "attr_add", paramBytes: 1, actionOnly: true},
	opAttrSub:               {name: "attr_sub", paramBytes: 1, actionOnly: true},
	opAttrSetSlot:           {name: "attr_set_slot", paramBytes: 1, actionOnly: true},
	opIAttrSetSlot:          {name: "iattr_set_slot", paramBytes: 3, actionOnly: true},
	opPushSlotAttr:          {name: "push_slot_attr", paramBytes: 2},
	opPushGlyphAttrObs:      {name: "push_glyph_attr_obs", paramBytes: 2},
	opPushGlyphMetric:       {name: "push_glyph_metric", paramBytes: 3},
	opPushFeat:              {name: "push_feat", paramBytes: 2},
	opPushAttToGattrObs:     {name: "push_att_to_gattr_obs", paramBytes: 2},
	opPushAttToGlyphMetric:  {name: "push_att_to_glyph_metric", paramBytes: 3},
	opPushIslotAttr:         {name: "push_islot_attr", paramBytes: 3},
	opPushIglyphAttr:        {name: "push_iglyph_attr", paramBytes: 3, unimplemented: true},
	opPopRet:                {name: "pop_ret"},
	opRetZero:               {name: "ret_zero"},
	opRetTrue:               {name: "ret_true"},
	opIAttrSet:              {name: "iattr_set", paramBytes: 2, actionOnly: true},
	opIAttrAdd:              {name: "iattr_add", paramBytes: 2, actionOnly: true},
	opIAttrSub:              {name: "iattr_sub", paramBytes: 2, actionOnly: true},
	opPushProcState:         {name: "push_proc_state", paramBytes: 1},
	opPushVersion:           {name: "push_version"},
	opPutSubs:               {name: "put_subs", paramBytes: 4, actionOnly: true},
	opPutSubs2:              {name: "put_subs2", paramBytes: -1, unimplemented: true, actionOnly: true},
	opPutSubs3:              {name: "put_subs3", paramBytes: -1, unimplemented: true, actionOnly: true},
	opPutGlyph:              {name: "put_glyph", paramBytes: 2, actionOnly: true},
	opPushGlyphAttr:         {name: "push_glyph_attr", paramBytes: 3},
	opPushAttToGlyphAttr:    {name: "push_att_to_glyph_attr", paramBytes: 3},
	opTempCopy:              {name: "temp_copy", actionOnly: true},
	opBand:                  {name: "band"},
	opBor:                   {name: "bor"},
	opBnot:                  {name: "bnot"},
	opSetBits:               {name: "set_bits", paramBytes: 4, actionOnly: true},
	opSetFeat:               {name: "set_feat", paramBytes: 2, actionOnly: true},
}

func (o opcode) valid() bool { return o < opMax_ }

func (o opcode) info() opcodeInfo {
	if !o.valid() {
		return opcodeInfo{name: "invalid"}
	}
	return opcodeTable[o]
}

func (o opcode) String() string { return o.info().name }
