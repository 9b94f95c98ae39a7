package graphite

import (
	"testing"

	"github.com/slunski/graphite/fonts"
	"github.com/stretchr/testify/require"
)

type fakeTableAccessor map[Tag][]byte

func (f fakeTableAccessor) GetTable(tag Tag) ([]byte, bool) {
	b, ok := f[tag]
	return b, ok
}

// emptySilfTable encodes a Silf table header declaring zero sub-tables,
// enough for NewFace to succeed without a real font's compiled rules.
var emptySilfTable = []byte{0, 0, 0, 1, 0, 0, 0, 0}

func newTestFace(t *testing.T) *Face {
	t.Helper()
	face, err := NewFace(fakeTableAccessor{tagSilf: emptySilfTable})
	require.NoError(t, err)
	face.cmap = fonts.CmapSimple{'a': 1, 'b': 2, 'c': 3}
	return face
}

func TestNewSegmentMapsRunesThroughCmap(t *testing.T) {
	face := newTestFace(t)
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune("abc"))

	require.NotNil(t, seg.First)
	require.NotNil(t, seg.Last)

	var gids []GID
	for s := seg.First; s != nil; s = s.next {
		gids = append(gids, s.glyphID)
	}
	require.Equal(t, []GID{1, 2, 3}, gids)
}

func TestNewSegmentFallsBackToPseudoGlyph(t *testing.T) {
	face := newTestFace(t)
	face.silf = []silfSubtable{{pseudoMap: map[rune]GID{'\t': 99}}}
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune{'\t'})
	require.Equal(t, GID(99), seg.First.glyphID)
}

func TestSegmentCharInfoCoverageInvariant(t *testing.T) {
	face := newTestFace(t)
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune("abc"))

	for i, ci := range seg.charinfo {
		require.NotNil(t, ci.slot)
		require.LessOrEqual(t, ci.slot.Before, i)
		require.GreaterOrEqual(t, ci.slot.After, i)
	}
}

func TestSegmentDeleteSlotKeepsCharInfoCoverage(t *testing.T) {
	face := newTestFace(t)
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune("abc"))

	mid := seg.First.next
	require.NotNil(t, mid)
	deletedOriginal := mid.original
	seg.deleteSlot(mid)

	ci := seg.getCharInfo(deletedOriginal)
	require.NotNil(t, ci.slot)
	require.NotEqual(t, mid, ci.slot)
	require.False(t, ci.slot.deleted)
}

func TestSegmentInsertAndAttachNeverCycles(t *testing.T) {
	face := newTestFace(t)
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune("ab"))

	child := seg.newInsertedSlot(seg.First)
	seg.insertSlotAfter(seg.First, child)
	child.attachTo(seg.First)

	require.Same(t, seg.First, child.parent)
	require.Equal(t, int32(1), child.attachDepth())
	require.Same(t, seg.First, root(child))
}

func TestReverseSlotsIsItsOwnInverse(t *testing.T) {
	face := newTestFace(t)
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune("abc"))

	var forward []GID
	for s := seg.First; s != nil; s = s.next {
		forward = append(forward, s.glyphID)
	}

	seg.reverseSlots()
	seg.reverseSlots()

	var after []GID
	for s := seg.First; s != nil; s = s.next {
		after = append(after, s.glyphID)
	}
	require.Equal(t, forward, after)
}

func TestSegmentSetScopeAndRemoveScope(t *testing.T) {
	face := newTestFace(t)
	seg := NewSegment(face, 0, "", DirLTR, nil, []rune("abcd"))

	fullFirst, fullLast := seg.First, seg.Last
	savedFirst, savedLast := seg.SetScope(1, 3)
	require.Equal(t, fullFirst, savedFirst)
	require.Equal(t, fullLast, savedLast)
	require.Equal(t, 1, seg.First.original)

	seg.RemoveScope(savedFirst, savedLast)
	require.Same(t, fullFirst, seg.First)
	require.Same(t, fullLast, seg.Last)
}
