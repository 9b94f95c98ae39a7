package graphite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMachineArithmetic(t *testing.T) {
	seg := NewSegment(newTestFace(t), 0, "", DirLTR, nil, []rune("a"))
	m := newMachine(seg, seg.First)

	// push 7; push 3; sub leaves 4 on the stack; ret_true then pushes 1
	// on top of it to satisfy the action program's "ends in return"
	// requirement, so the final top-of-stack value run() reports is 1.
	code := loadCode(false, []byte{
		byte(opPushByte), 7,
		byte(opPushByte), 3,
		byte(opSub),
		byte(opRetTrue),
	}, 0, 0)
	require.True(t, code.IsLoaded())

	v, status := m.run(&code)
	require.Equal(t, MachineFinished, status)
	require.EqualValues(t, 1, v) // ret_true's pushed 1 is what's left on top
}

func TestMachineConstraintReadsSlotAttribute(t *testing.T) {
	seg := NewSegment(newTestFace(t), 0, "", DirLTR, nil, []rune("ab"))
	seg.First.Advance.X = 12

	code := loadCode(true, []byte{
		byte(opPushSlotAttr), byte(acAdvX), 0,
	}, 0, 0)
	require.True(t, code.IsLoaded())

	m := newMachine(seg, seg.First)
	ok, status := m.runConstraint(&code)
	require.Equal(t, MachineFinished, status)
	require.True(t, ok) // 12 != 0
}

func TestMachineSlotOffsetOutOfBoundsIsFatal(t *testing.T) {
	seg := NewSegment(newTestFace(t), 0, "", DirLTR, nil, []rune("a"))
	m := newMachine(seg, seg.First)

	code := loadCode(true, []byte{byte(opPushSlotAttr), byte(acAdvX), 0}, 0, 0)
	require.True(t, code.IsLoaded())

	// move the machine's cursor off the end of the one-slot chain
	m.cur = nil
	_, status := m.runConstraint(&code)
	require.Equal(t, MachineSlotOffsetOutOfBounds, status)
}

func TestMachineDeleteOpcodeRemovesSlot(t *testing.T) {
	seg := NewSegment(newTestFace(t), 0, "", DirLTR, nil, []rune("ab"))
	target := seg.First
	survivor := seg.Last

	code := loadCode(false, []byte{byte(opDelete), byte(opRetTrue)}, 0, 0)
	require.True(t, code.IsLoaded())

	m := newMachine(seg, target)
	_, status := m.runAction(&code)
	require.Equal(t, MachineFinished, status)
	require.True(t, target.deleted)
	require.Same(t, survivor, seg.First)
	require.Nil(t, survivor.prev)
}
