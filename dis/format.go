package dis

import (
	"fmt"

	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/value"
)

// formatConst renders a constant value.Value the way a disassembly
// listing's INFO column should show it: quoted strings, bare numbers.
func formatConst(v value.Value) string {
	if v.Kind() == value.KindString {
		return fmt.Sprintf("%q", v.StringValue())
	}
	return v.ToString()
}

// infoFor summarizes the operand constants of an operand-bearing opcode
// (everything but LoadConstant and AssertWithMessage, which are handled
// directly in Disassemble).
func infoFor(code op.Code, operands []int64) string {
	switch code {
	case op.Jump, op.JumpIfFalse:
		if len(operands) == 2 {
			return fmt.Sprintf("-> const %d, op %d", operands[0], operands[1])
		}
	case op.Call, op.NativeCall:
		if len(operands) == 2 {
			return fmt.Sprintf("hash=%d argc=%d", operands[0], operands[1])
		}
	case op.CheckType:
		if len(operands) == 1 {
			return typeTagName(operands[0])
		}
	case op.CreateList, op.CreateRepeatingList:
		if len(operands) == 1 {
			return fmt.Sprintf("count=%d", operands[0])
		}
	case op.AssignLocal, op.LoadLocal:
		if len(operands) == 1 {
			return fmt.Sprintf("slot=%d", operands[0])
		}
	case op.Dup:
		if len(operands) == 1 {
			return fmt.Sprintf("count=%d", operands[0])
		}
	}
	return ""
}

func typeTagName(tag int64) string {
	switch op.BinaryOpType(tag) {
	case op.TypeBool:
		return "Bool"
	case op.TypeChar:
		return "Char"
	case op.TypeFloat:
		return "Float"
	case op.TypeInt:
		return "Int"
	case op.TypeNull:
		return "Null"
	case op.TypeString:
		return "String"
	case op.TypeList:
		return "List"
	default:
		return fmt.Sprintf("tag=%d", tag)
	}
}
