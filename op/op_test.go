package op_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/op"
)

func TestStringReturnsMnemonic(t *testing.T) {
	require.Equal(t, "ADD", op.Add.String())
	require.Equal(t, "JUMP_IF_FALSE", op.JumpIfFalse.String())
}

func TestStringFallsBackToUnknown(t *testing.T) {
	require.Equal(t, "UNKNOWN", op.Code(255).String())
}

func TestOperandCountsCoverJumpsAndCalls(t *testing.T) {
	require.Equal(t, 2, op.OperandCounts[op.Jump])
	require.Equal(t, 2, op.OperandCounts[op.Call])
	require.Equal(t, 1, op.OperandCounts[op.LoadLocal])
	require.Equal(t, 0, op.OperandCounts[op.Add], "opcodes absent from the map take no operand constants")
}
