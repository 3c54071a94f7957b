// Package dis renders a compiled function's bytecode as a human-readable
// listing, for the `grace dis` subcommand (spec.md §6).
package dis

import (
	"fmt"

	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/table"
)

// Line is one disassembled instruction: its offset within the function's
// own op list, the opcode, the raw operand constants it consumed from the
// constant stream (in emission order), and a human-readable summary of
// those operands.
type Line struct {
	Offset   int
	Op       op.Code
	Operands []int64
	Info     string
}

// Disassemble walks fn's flat op list and constant stream in lock-step,
// the same way the VM's dispatch loop does, and produces one Line per
// instruction. Returns an error if the constant stream runs out before
// every operand-bearing opcode has consumed what it expects, which
// indicates a malformed function (a compiler bug, not a user error).
func Disassemble(fn *table.Function) ([]Line, error) {
	lines := make([]Line, 0, len(fn.Ops))
	constCur := 0

	for i, ol := range fn.Ops {
		line := Line{Offset: i, Op: ol.Op}

		// LoadConstant's constant is the value it pushes and
		// AssertWithMessage's is the message string; neither is a numeric
		// operand, so both are shown as the constant itself.
		if ol.Op == op.LoadConstant || ol.Op == op.AssertWithMessage {
			if constCur >= len(fn.Consts) {
				return nil, fmt.Errorf("dis: %s: constant stream exhausted at op offset %d", fn.Name, i)
			}
			c := fn.Consts[constCur]
			constCur++
			line.Info = formatConst(c)
			lines = append(lines, line)
			continue
		}

		n := op.OperandCounts[ol.Op]
		operands := make([]int64, 0, n)
		for k := 0; k < n; k++ {
			if constCur >= len(fn.Consts) {
				return nil, fmt.Errorf("dis: %s: constant stream exhausted at op offset %d", fn.Name, i)
			}
			c := fn.Consts[constCur]
			constCur++
			operands = append(operands, c.IntValue())
		}
		line.Operands = operands
		line.Info = infoFor(ol.Op, operands)
		lines = append(lines, line)
	}
	return lines, nil
}
