// Package vm implements the Grace stack-based bytecode interpreter: the
// link step that concatenates a table.FunctionTable's per-function op
// and constant streams into one flat program, and the instruction loop
// that executes it (spec.md §4.5, §5, §6, §7).
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/lgtm-migrator/grace/internal/rlog"
	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/table"
	"github.com/lgtm-migrator/grace/value"
)

// RunResult is the terminal status of a Run call.
type RunResult int

const (
	RuntimeOk RunResult = iota
	RuntimeError
	RuntimeAssertionFailed
)

func (r RunResult) String() string {
	switch r {
	case RuntimeOk:
		return "RuntimeOk"
	case RuntimeAssertionFailed:
		return "RuntimeAssertionFailed"
	default:
		return "RuntimeError"
	}
}

// VirtualMachine executes the linked output of a table.FunctionTable.
// One VirtualMachine runs exactly one program to completion or failure;
// per spec.md §5's resource-cleanup note, a VM that returns
// RuntimeError/RuntimeAssertionFailed clears its locals and must not be
// reused.
type VirtualMachine struct {
	ops       []table.OpLine
	consts    []value.Value
	functions *table.FunctionTable

	natives      []NativeFunction
	nativeByName map[string]int

	opCur, constCur int
	opOffsets       []int
	constOffsets    []int
	localsOffsets   []int

	valueStack []value.Value
	locals     []value.Value
	callStack  []CallFrame

	currentFuncHash int64
	fileHash        int64
	fileName        string

	showFullCallStack  bool
	maxCallStackFrames int
	color              bool
	verbose            bool

	stdout     io.Writer
	stderr     io.Writer
	codeAtLine func(line int) string

	log rlog.Logger
}

// New links ft (via table.FunctionTable.Combine) and prepares a
// VirtualMachine ready to Run. Returns an error if ft has no `main`.
func New(ft *table.FunctionTable, opts ...Option) (*VirtualMachine, error) {
	ops, consts, err := ft.Combine()
	if err != nil {
		return nil, err
	}
	vm := &VirtualMachine{
		ops:          ops,
		consts:       consts,
		functions:    ft,
		nativeByName: map[string]int{},
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		color:        isatty.IsTerminal(os.Stderr.Fd()),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.fileHash = table.HashName(vm.fileName)
	vm.log = rlog.New("vm", vm.verbose)
	return vm, nil
}

func (vm *VirtualMachine) push(v value.Value) {
	vm.valueStack = append(vm.valueStack, v)
}

func (vm *VirtualMachine) pop() value.Value {
	n := len(vm.valueStack) - 1
	v := vm.valueStack[n]
	vm.valueStack = vm.valueStack[:n]
	return v
}

func (vm *VirtualMachine) peek() value.Value {
	return vm.valueStack[len(vm.valueStack)-1]
}

// nextConst returns the constant at const_cur and advances it, the
// shared primitive every operand-bearing opcode and LoadConstant build
// on (spec.md §4.5: "every opcode that consumes operand constants
// increments const_cur").
func (vm *VirtualMachine) nextConst() value.Value {
	v := vm.consts[vm.constCur]
	vm.constCur++
	return v
}

func (vm *VirtualMachine) nextConstInt() int64 {
	return vm.nextConst().IntValue()
}

func (vm *VirtualMachine) localBase() int {
	return vm.localsOffsets[len(vm.localsOffsets)-1]
}

// Run links nothing further (New already did) and executes the program
// starting at main's entry point until it halts normally (Exit, or
// op_cur reaching the end of the global op array) or a runtime error or
// failed assertion stops it. On failure, a fully rendered call-stack
// trace (spec.md §6) is written to the VM's configured stderr.
func (vm *VirtualMachine) Run(args []value.Value) (RunResult, error) {
	main, ok := vm.functions.LookupName("main")
	if !ok {
		return RuntimeError, &RuntimeFailure{Kind: "FunctionNotFound", Message: "main-not-found: no function named \"main\" is defined"}
	}

	vm.opCur = main.OpStart
	vm.constCur = main.ConstStart
	vm.opOffsets = []int{main.OpStart}
	vm.constOffsets = []int{main.ConstStart}
	vm.localsOffsets = []int{0}
	vm.currentFuncHash = main.NameHash
	vm.callStack = []CallFrame{{CallerHash: vm.fileHash, CalleeHash: main.NameHash, Line: 1}}

	if len(args) != main.Arity {
		err := &RuntimeFailure{Kind: string(value.IncorrectArgCount), Message: formatArgCount("main", main.Arity, len(args)), Line: main.DeclaredLine}
		io.WriteString(vm.stderr, vm.renderTrace(err.Kind, err.Message, err.Line))
		return RuntimeError, err
	}
	vm.locals = append(vm.locals, args...)

	for vm.opCur < len(vm.ops) {
		ol := vm.ops[vm.opCur]
		vm.opCur++

		halt, rerr := vm.dispatch(ol.Op, ol.Line)
		if rerr != nil {
			vm.locals = nil
			trace := vm.renderTrace(rerr.Kind, rerr.Message, ol.Line)
			io.WriteString(vm.stderr, trace)
			result := RuntimeError
			if rerr.Kind == string(value.AssertionFailed) {
				result = RuntimeAssertionFailed
			}
			return result, rerr
		}
		if halt {
			return RuntimeOk, nil
		}
	}
	return RuntimeOk, nil
}

// dispatch executes exactly one instruction. halt reports normal
// termination (the Exit opcode); rerr is non-nil on any runtime error.
func (vm *VirtualMachine) dispatch(code op.Code, line int) (halt bool, rerr *RuntimeFailure) {
	vm.log.Trace("dispatch", "op", code.String(), "line", line, "opCur", vm.opCur, "constCur", vm.constCur)

	switch code {
	case op.Add, op.Subtract, op.Multiply, op.Divide, op.Mod, op.Pow:
		return false, vm.binaryArith(code, line)
	case op.And:
		b, a := vm.pop(), vm.pop()
		vm.push(value.Bool(a.AsBool() && b.AsBool()))
	case op.Or:
		b, a := vm.pop(), vm.pop()
		vm.push(value.Bool(a.AsBool() || b.AsBool()))
	case op.Equal:
		b, a := vm.pop(), vm.pop()
		vm.push(value.Bool(a.Equals(b)))
	case op.NotEqual:
		b, a := vm.pop(), vm.pop()
		vm.push(value.Bool(!a.Equals(b)))
	case op.Greater, op.GreaterEqual, op.Less, op.LessEqual:
		return false, vm.compare(code, line)
	case op.Negate:
		v, err := value.Negate(vm.pop())
		if err != nil {
			return false, opErr(err, line)
		}
		vm.push(v)
	case op.Not:
		vm.push(value.Not(vm.pop()))

	case op.LoadConstant:
		vm.push(vm.nextConst())
	case op.LoadLocal:
		slot := vm.nextConstInt()
		vm.push(vm.locals[vm.localBase()+int(slot)])
	case op.Pop:
		vm.pop()
	case op.PopLocal:
		vm.locals = vm.locals[:len(vm.locals)-1]
	case op.DeclareLocal:
		vm.locals = append(vm.locals, value.Null)
	case op.AssignLocal:
		slot := vm.nextConstInt()
		vm.locals[vm.localBase()+int(slot)] = vm.pop()
	case op.Dup:
		count := vm.nextConstInt()
		top := vm.peek()
		for i := int64(0); i < count; i++ {
			vm.push(top)
		}

	case op.Jump:
		cIdx, oIdx := vm.nextConstInt(), vm.nextConstInt()
		vm.jumpTo(cIdx, oIdx)
	case op.JumpIfFalse:
		cIdx, oIdx := vm.nextConstInt(), vm.nextConstInt()
		if !vm.pop().AsBool() {
			vm.jumpTo(cIdx, oIdx)
		}
	case op.Return:
		vm.doReturn()
	case op.Exit:
		vm.opCur = len(vm.ops)
		return true, nil

	case op.Call:
		return false, vm.doCall(line)
	case op.NativeCall:
		return false, vm.doNativeCall(line)

	case op.CastAsInt:
		v, err := vm.pop().AsInt()
		if err != nil {
			return false, opErr(err, line)
		}
		vm.push(v)
	case op.CastAsFloat:
		v, err := vm.pop().AsFloat()
		if err != nil {
			return false, opErr(err, line)
		}
		vm.push(v)
	case op.CastAsBool:
		vm.push(vm.pop().AsBoolCast())
	case op.CastAsString:
		vm.push(vm.pop().AsStringCast())
	case op.CastAsChar:
		v, err := vm.pop().AsChar()
		if err != nil {
			return false, opErr(err, line)
		}
		vm.push(v)
	case op.CastAsList:
		vm.push(vm.pop().AsList())
	case op.CheckType:
		tag := vm.nextConstInt()
		vm.push(value.Bool(vm.pop().InstanceOf(int(tag))))

	case op.Print:
		vm.pop().Print(vm.stdout)
	case op.PrintLn:
		vm.pop().Print(vm.stdout)
		io.WriteString(vm.stdout, "\n")
	case op.PrintEmptyLine:
		io.WriteString(vm.stdout, "\n")
	case op.PrintTab:
		io.WriteString(vm.stdout, "\t")

	case op.CreateList:
		n := vm.nextConstInt()
		items := make([]value.Value, n)
		for i := n - 1; i >= 0; i-- {
			items[i] = vm.pop()
		}
		vm.push(value.FromObject(value.NewList(items)))
	case op.CreateEmptyList:
		vm.push(value.FromObject(value.NewEmptyList()))
	case op.CreateRepeatingList:
		n := vm.nextConstInt()
		fill := vm.pop()
		vm.push(value.FromObject(value.NewRepeatingList(fill, int(n))))

	case op.Assert:
		if !vm.pop().AsBool() {
			return false, &RuntimeFailure{Kind: string(value.AssertionFailed), Message: "assertion failed", Line: line}
		}
	case op.AssertWithMessage:
		msg := vm.nextConst().StringValue()
		if !vm.pop().AsBool() {
			return false, &RuntimeFailure{Kind: string(value.AssertionFailed), Message: msg, Line: line}
		}

	default:
		return false, &RuntimeFailure{Kind: string(value.InvalidOperand), Message: "unknown opcode " + code.String(), Line: line}
	}
	return false, nil
}

func (vm *VirtualMachine) binaryArith(code op.Code, line int) *RuntimeFailure {
	b, a := vm.pop(), vm.pop()
	var v value.Value
	var err error
	switch code {
	case op.Add:
		v, err = value.Add(a, b)
	case op.Subtract:
		v, err = value.Subtract(a, b)
	case op.Multiply:
		v, err = value.Multiply(a, b)
	case op.Divide:
		v, err = value.Divide(a, b)
	case op.Mod:
		v, err = value.Mod(a, b)
	case op.Pow:
		v, err = value.Pow(a, b)
	}
	if err != nil {
		return opErr(err, line)
	}
	vm.push(v)
	return nil
}

func (vm *VirtualMachine) compare(code op.Code, line int) *RuntimeFailure {
	b, a := vm.pop(), vm.pop()
	var cmp value.CompareOp
	switch code {
	case op.Greater:
		cmp = value.CmpGreater
	case op.GreaterEqual:
		cmp = value.CmpGreaterEqual
	case op.Less:
		cmp = value.CmpLess
	case op.LessEqual:
		cmp = value.CmpLessEqual
	}
	v, err := value.Compare(cmp, a, b)
	if err != nil {
		return opErr(err, line)
	}
	vm.push(v)
	return nil
}

// jumpTo computes an absolute position from a jump's function-relative
// operands and the active frame's segment offsets (spec.md §4.5 "Jump
// semantics").
func (vm *VirtualMachine) jumpTo(cIdx, oIdx int64) {
	vm.opCur = int(oIdx) + vm.opOffsets[len(vm.opOffsets)-1]
	vm.constCur = int(cIdx) + vm.constOffsets[len(vm.constOffsets)-1]
}

// doCall implements the Call opcode exactly as spec.md §4.5 describes.
func (vm *VirtualMachine) doCall(line int) *RuntimeFailure {
	nameHash := vm.nextConstInt()
	nargs := vm.nextConstInt()

	fn, ok := vm.functions.Lookup(nameHash)
	if !ok {
		return &RuntimeFailure{Kind: string(value.FunctionNotFound), Message: "function not found", Line: line}
	}
	if int64(fn.Arity) != nargs {
		return &RuntimeFailure{Kind: string(value.IncorrectArgCount), Message: formatArgCount(fn.Name, fn.Arity, int(nargs)), Line: line}
	}

	base := len(vm.locals)
	vm.localsOffsets = append(vm.localsOffsets, base)
	vm.locals = append(vm.locals, make([]value.Value, fn.Arity)...)
	for i := int64(0); i < nargs; i++ {
		vm.locals[base+int(nargs-i-1)] = vm.pop()
	}

	vm.push(value.Int(int64(vm.opCur)))
	vm.push(value.Int(int64(vm.constCur)))
	vm.callStack = append(vm.callStack, CallFrame{CallerHash: vm.currentFuncHash, CalleeHash: fn.NameHash, Line: line})

	vm.opOffsets = append(vm.opOffsets, fn.OpStart)
	vm.constOffsets = append(vm.constOffsets, fn.ConstStart)
	vm.opCur = fn.OpStart
	vm.constCur = fn.ConstStart
	vm.currentFuncHash = fn.NameHash
	return nil
}

// doNativeCall implements the NativeCall opcode: same argument-popping
// discipline as Call, but the callee is a VM-owned Go function with no
// bytecode segment to enter — no call_stack/op_offsets frame is pushed.
func (vm *VirtualMachine) doNativeCall(line int) *RuntimeFailure {
	idx := vm.nextConstInt()
	nargs := vm.nextConstInt()

	if idx < 0 || int(idx) >= len(vm.natives) {
		return &RuntimeFailure{Kind: string(value.FunctionNotFound), Message: "native function not found", Line: line}
	}
	native := vm.natives[idx]
	if int64(native.Arity) != nargs {
		return &RuntimeFailure{Kind: string(value.IncorrectArgCount), Message: formatArgCount(native.Name, native.Arity, int(nargs)), Line: line}
	}

	args := make([]value.Value, nargs)
	for i := int64(0); i < nargs; i++ {
		args[nargs-i-1] = vm.pop()
	}
	result, err := native.Fn(args)
	if err != nil {
		return opErr(err, line)
	}
	vm.push(result)
	return nil
}

// doReturn implements the Return opcode exactly as spec.md §4.5
// describes, including the deliberate choice not to truncate locals:
// the compiler's per-block PopLocal emission is what actually shrinks
// it, so a callee's locals remain addressable (though unreachable) in
// the array until its caller's own block exits pop them.
func (vm *VirtualMachine) doReturn() {
	retVal := vm.pop()
	callerHash := vm.callStack[len(vm.callStack)-1].CallerHash
	vm.callStack = vm.callStack[:len(vm.callStack)-1]
	vm.currentFuncHash = callerHash

	savedConstCur := vm.pop().IntValue()
	savedOpCur := vm.pop().IntValue()
	vm.push(retVal)

	vm.localsOffsets = vm.localsOffsets[:len(vm.localsOffsets)-1]
	vm.opOffsets = vm.opOffsets[:len(vm.opOffsets)-1]
	vm.constOffsets = vm.constOffsets[:len(vm.constOffsets)-1]

	vm.opCur = int(savedOpCur)
	vm.constCur = int(savedConstCur)
}

func opErr(err error, line int) *RuntimeFailure {
	if oe, ok := err.(*value.OpError); ok {
		return &RuntimeFailure{Kind: string(oe.Kind), Message: oe.Message, Line: line}
	}
	return &RuntimeFailure{Kind: string(value.InvalidOperand), Message: err.Error(), Line: line}
}

func formatArgCount(name string, want, got int) string {
	return fmt.Sprintf("function %s expects %d argument(s), got %d", name, want, got)
}
