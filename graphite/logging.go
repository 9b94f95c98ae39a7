package graphite

import (
	"encoding/json"
	"fmt"
	"os"
)

// traceOutput is a JSON shaping trace, one per Segment.Shape call,
// following the teacher snapshot's plain encoding/json dump rather than
// a structured logging library — tracing here is a diagnostic artifact
// a host asks for explicitly, not routine operational logging (§7).
type traceOutput struct {
	Passes  []passJSON `json:"passes"`
	Output  []slotJSON `json:"output"`
	Advance Position   `json:"advance"`
	Chars   []charJSON `json:"chars"`
	ID      string     `json:"id"`
}

// NewTracer returns a traceSink that records every pass and rule fired
// during the next Shape call. Attach it with Segment.EnableTrace before
// calling Shape, then Dump it to a file.
func NewTracer() *traceOutput { return &traceOutput{} }

func (t *traceOutput) reset() { *t = traceOutput{} }

// Dump writes the trace as indented JSON to filename.
func (t *traceOutput) Dump(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	return enc.Encode(t)
}

// EnableTrace attaches a tracer to seg; subsequent Shape calls on seg
// record into it. Passing nil disables tracing again.
func (seg *Segment) EnableTrace(t *traceOutput) { seg.trace = t }

type passJSON struct {
	ID       int        `json:"id"`
	Slotsdir string     `json:"slots-dir"`
	Passdir  string     `json:"pass-dir"`
	Slots    []slotJSON `json:"slots"`
	Rules    []ruleJSON `json:"rules"`
}

type ruleJSON struct {
	RuleID int    `json:"ruleid"`
	Slot   string `json:"slot"`
}

type slotJSON struct {
	ID         string  `json:"id"`
	GID        GID     `json:"gid"`
	OriginX    float32 `json:"origin-x"`
	OriginY    float32 `json:"origin-y"`
	Before     int     `json:"before"`
	After      int     `json:"after"`
	Parent     string  `json:"parent,omitempty"`
	Attachedto string  `json:"attached-to,omitempty"`
}

type charJSON struct {
	Char   string `json:"char"`
	Offset int    `json:"offset"`
}

// hexPtr formats a slot's address as a short stable id for trace
// output and test assertions, the way a debugger would name an
// otherwise-anonymous heap object.
func hexPtr(s *Slot) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%p", s)
}

// slotsJSON renders the current chain for inclusion in a pass trace.
func (seg *Segment) slotsJSON() []slotJSON {
	out := make([]slotJSON, 0, seg.numGlyphs)
	for s := seg.First; s != nil; s = s.next {
		sj := slotJSON{
			ID:      s.objectID(),
			GID:     s.glyphID,
			OriginX: s.Position.X,
			OriginY: s.Position.Y,
			Before:  s.Before,
			After:   s.After,
		}
		if s.parent != nil {
			sj.Attachedto = s.parent.objectID()
		}
		out = append(out, sj)
	}
	return out
}

func (seg *Segment) charsJSON() []charJSON {
	out := make([]charJSON, 0, len(seg.charinfo))
	for _, ci := range seg.charinfo {
		out = append(out, charJSON{Char: fmt.Sprintf("%U", ci.Char), Offset: ci.ByteOffset})
	}
	return out
}

func (t *traceOutput) beginPass(idx int, seg *Segment) {
	if t == nil {
		return
	}
	if idx == 0 {
		t.reset()
		t.Chars = seg.charsJSON()
	}
	sd, pd := "ltr", "ltr"
	if seg.currdir() {
		sd = "rtl"
	}
	if idx < len(seg.silf.passes) && seg.silf.passes[idx].isReverseDirection {
		pd = "rtl"
	}
	t.Passes = append(t.Passes, passJSON{
		ID:       idx + 1,
		Slotsdir: sd,
		Passdir:  pd,
	})
}

func (t *traceOutput) endPass(idx int, seg *Segment) {
	if t == nil || idx >= len(t.Passes) {
		return
	}
	t.Passes[idx].Slots = seg.slotsJSON()
}

func (t *traceOutput) ruleFired(r *silfRule, slot *Slot, seg *Segment) {
	if t == nil || len(t.Passes) == 0 {
		return
	}
	last := &t.Passes[len(t.Passes)-1]
	last.Rules = append(last.Rules, ruleJSON{RuleID: int(r.id), Slot: slot.objectID()})
}
