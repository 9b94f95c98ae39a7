package graphite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCodeValidActionProgram(t *testing.T) {
	raw := []byte{byte(opPushByte), 5, byte(opRetTrue)}
	c := loadCode(false, raw, 0, 0)
	require.Equal(t, StatusLoaded, c.Status)
	require.True(t, c.IsLoaded())
	require.Len(t, c.instrs, 2)
}

func TestLoadCodeMissingReturn(t *testing.T) {
	raw := []byte{byte(opPushByte), 5}
	c := loadCode(false, raw, 0, 0)
	require.Equal(t, StatusMissingReturn, c.Status)
	require.False(t, c.IsLoaded())
}

func TestLoadCodeInvalidOpcode(t *testing.T) {
	c := loadCode(false, []byte{0xFF}, 0, 0)
	require.Equal(t, StatusInvalidOpcode, c.Status)
}

func TestLoadCodeUnimplementedOpcode(t *testing.T) {
	c := loadCode(false, []byte{byte(opNextN), 1, byte(opRetTrue)}, 0, 0)
	require.Equal(t, StatusUnimplementedOpcode, c.Status)
}

func TestLoadCodeRejectsOutOfRangeSlotOffset(t *testing.T) {
	raw := []byte{byte(opPushSlotAttr), byte(acAdvX), 5, byte(opRetTrue)}
	c := loadCode(false, raw, 0, 0)
	require.Equal(t, StatusOutOfRangeData, c.Status)
}

func TestLoadCodeAcceptsSlotOffsetWithinContext(t *testing.T) {
	raw := []byte{byte(opPushSlotAttr), byte(acAdvX), 2, byte(opRetTrue)}
	c := loadCode(false, raw, 0, 3)
	require.Equal(t, StatusLoaded, c.Status)
	require.EqualValues(t, 2, c.MaxRef())
}

func TestLoadCodeRejectsMutationInConstraint(t *testing.T) {
	c := loadCode(true, []byte{byte(opInsert)}, 0, 0)
	require.Equal(t, StatusInvalidOpcode, c.Status)
}

func TestLoadCodeEmptyIsLoaded(t *testing.T) {
	c := loadCode(true, nil, 0, 0)
	require.True(t, c.IsLoaded())
	require.True(t, c.Immutable())
}

func TestLoadCodeTruncatedOperandIsArgumentsExhausted(t *testing.T) {
	c := loadCode(false, []byte{byte(opPushShort), 0x01}, 0, 0)
	require.Equal(t, StatusArgumentsExhausted, c.Status)
}

func TestLoadCodeCntxtItemJumpMustLandOnOpcodeBoundary(t *testing.T) {
	// cntxt_item declares a 1-byte forward jump, which lands one byte
	// into push_byte's own operand rather than on push_byte's opcode
	// byte or ret_true's.
	raw := []byte{byte(opCntxtItem), 0, 1, byte(opPushByte), 5, byte(opRetTrue)}
	c := loadCode(false, raw, 0, 0)
	require.Equal(t, StatusJumpPastEnd, c.Status)
}

func TestLoadCodeCntxtItemJumpToOpcodeBoundaryLoads(t *testing.T) {
	// A 0-byte jump lands exactly on push_byte's opcode byte, the
	// instruction immediately following cntxt_item's own operands.
	raw := []byte{byte(opCntxtItem), 0, 0, byte(opPushByte), 5, byte(opRetTrue)}
	c := loadCode(false, raw, 0, 0)
	require.Equal(t, StatusLoaded, c.Status)
	require.Len(t, c.instrs, 3)
	require.EqualValues(t, 1, c.instrs[0].args[1])
}
