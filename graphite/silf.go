package graphite

// rulePass is one Silf pass: an ordered list of rules applied left to
// right (or right to left, for isReverseDirection passes) across the
// slot chain, per §4.5.
type rulePass struct {
	isReverseDirection bool
	collisionFixup     bool
	constraint         Code
	rules              []silfRule
	maxRuleLoop        int
	minRulePreContext  uint8
	maxRulePreContext  uint8
}

// silfRule is one entry of a pass's rule table: a pattern width (how
// many slots of left-hand context it inspects), a match constraint
// program, and an action program that runs when the constraint holds
// (§4.3, §4.5).
type silfRule struct {
	id           uint16
	preContext   uint8
	sortKey      uint16
	matchLength  uint8
	constraint   Code
	action       Code
}

// silfSubtable is one parsed Silf sub-table: the scripts it claims,
// its pass list, and the small per-font constants the rule machine
// needs (attribute widths, pseudo-glyph substitutions).
type silfSubtable struct {
	scripts          []Tag
	passes           []rulePass
	numJustLevels    uint8
	attrBreakWeight  uint8
	attrDirectionality uint8
	attrSkipPasses   uint8
	numUserAttrs     uint8
	pseudoMap        map[rune]GID
}

func (s *silfSubtable) numUser() int { return int(s.numUserAttrs) }

// runPasses executes every pass of s against seg's slot chain in
// order, matching §4.5's top level: "a Silf sub-table applies its
// passes to the slot array in declared order."
func (s *silfSubtable) runPasses(seg *Segment) error {
	for i := range s.passes {
		if err := s.runPass(seg, &s.passes[i], i); err != nil {
			return err
		}
	}
	return nil
}

// runPass applies one pass's rules to every position of the slot
// chain, left to right unless the pass is marked reverse. At each
// position it scans the rule list in declared order and fires the
// first rule whose constraint is satisfied (§4.5's "first match wins"
// simplification over the original's full finite state matcher —
// documented in DESIGN.md).
func (s *silfSubtable) runPass(seg *Segment, pass *rulePass, passIndex int) error {
	trace := seg.trace
	if trace != nil {
		trace.beginPass(passIndex, seg)
	}

	if pass.constraint.IsLoaded() && seg.First != nil {
		m := newMachine(seg, seg.First)
		if ok, status := m.runConstraint(&pass.constraint); !status.IsFatal() && !ok {
			if trace != nil {
				trace.endPass(passIndex, seg)
			}
			return nil
		}
	}

	start := seg.First
	if pass.isReverseDirection {
		start = seg.Last
	}

	slot := start
	loops := 0
	maxLoops := pass.maxRuleLoop
	if maxLoops <= 0 {
		maxLoops = len(seg.allSlots()) + 1
	}

	for slot != nil && loops < maxLoops {
		loops++
		matched, advanceTo, err := s.tryRulesAt(seg, pass, slot)
		if err != nil {
			return err
		}
		if matched != nil {
			slot = advanceTo
			continue
		}
		if pass.isReverseDirection {
			slot = slot.prev
		} else {
			slot = slot.next
		}
	}

	if pass.collisionFixup {
		seg.resolveCollisions()
	}

	if trace != nil {
		trace.endPass(passIndex, seg)
	}
	return nil
}

// tryRulesAt scans pass.rules in order, running each candidate's
// constraint program with the machine positioned at slot; the first
// one that reports true runs its action and the new cursor position is
// returned (§4.3: "a rule's constraint runs before the rule commits").
func (s *silfSubtable) tryRulesAt(seg *Segment, pass *rulePass, slot *Slot) (*silfRule, *Slot, error) {
	for i := range pass.rules {
		r := &pass.rules[i]
		if !r.constraint.IsLoaded() {
			continue
		}
		m := newMachine(seg, slot)
		ok, status := m.runConstraint(&r.constraint)
		if status.IsFatal() {
			continue
		}
		if !ok {
			continue
		}
		next, status := m.runAction(&r.action)
		if status.IsFatal() {
			continue
		}
		if seg.trace != nil {
			seg.trace.ruleFired(r, slot, seg)
		}
		return r, next, nil
	}
	return nil, nil, nil
}
