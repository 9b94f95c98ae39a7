package graphite

// CharInfo is the per-input-character record described in §3: one
// Unicode scalar value, its byte offset in the original encoded input,
// its line-break weight, and the feature-set it was shaped with. The
// array of CharInfo is fixed at decode time and never resized.
type CharInfo struct {
	Char        rune
	ByteOffset  int
	BreakWeight int16
	FeatureSet  uint8

	// slot is the live Slot currently anchoring this character; the
	// Segment keeps it consistent across substitution, insertion and
	// deletion (§3 "Invariants: Character coverage").
	slot *Slot

	// flags carries line/segment split bits copied from the original
	// C++ CharInfo::flags(); bit 0 marks a segment-split opportunity.
	flags uint8
}

func (ci *CharInfo) addFlags(val uint8) { ci.flags |= val }

const charInfoSegSplit uint8 = 1

// CanSplitSegment reports whether a line breaker may split a segment
// immediately before this character.
func (ci *CharInfo) CanSplitSegment() bool { return ci.flags&charInfoSegSplit != 0 }
