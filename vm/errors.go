package vm

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// defaultMaxCallStackFrames is the default call-stack trace truncation
// depth (spec.md §6); SHOW_FULL_CALLSTACK, or WithShowFullCallStack,
// disables truncation outright. WithMaxCallStackFrames overrides the
// depth itself, for internal/config's max_callstack_frames setting.
const defaultMaxCallStackFrames = 15

// CallFrame records one entry of call_stack: the function that made a
// call, the callee it invoked, and the source line of the call site
// (spec.md §4.5). The VM seeds call_stack with
// {CallerHash: fileHash, CalleeHash: mainHash, Line: 1} before the first
// instruction runs.
type CallFrame struct {
	CallerHash int64
	CalleeHash int64
	Line       int
}

// RuntimeFailure is the error returned by Run on any failed instruction: a
// tagged kind, message, the line it occurred on, and the call stack at
// the moment of failure, pre-formatted the way spec.md §6 describes.
type RuntimeFailure struct {
	Kind    string
	Message string
	Line    int
	Trace   string
}

func (e *RuntimeFailure) Error() string {
	return fmt.Sprintf("[line %d] %s: %s", e.Line, e.Kind, e.Message)
}

// renderTrace builds the "Call stack (most recent call last):" block
// followed by the final "ERROR: ..." line, per spec.md §6's exact
// format. Frame i's displayed name is call_stack[i]'s callee (the
// function actually running at that depth); its displayed line is the
// line at which that function was itself suspended — the call site
// recorded in the *next* frame, or the live error line for the
// innermost/current frame.
func (vm *VirtualMachine) renderTrace(kind, message string, line int) string {
	var b strings.Builder

	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	if !vm.color {
		bold.DisableColor()
		red.DisableColor()
	}

	max := vm.maxCallStackFrames
	if max <= 0 {
		max = defaultMaxCallStackFrames
	}
	frames := vm.callStack
	elided := 0
	if !vm.showFullCallStack && len(frames) > max {
		elided = len(frames) - max
		frames = frames[elided:]
	}

	bold.Fprintln(&b, "Call stack (most recent call last):")
	if elided > 0 {
		fmt.Fprintf(&b, "  ... %d earlier frame(s) omitted (set SHOW_FULL_CALLSTACK to see all) ...\n", elided)
	}
	for i, frame := range frames {
		name := vm.functionName(frame.CalleeHash)
		frameLine := line
		if next := i + 1; next < len(frames) {
			frameLine = frames[next].Line
		}
		fmt.Fprintf(&b, "line %d, in %s:\n", frameLine, name)
		fmt.Fprintf(&b, "   %s\n", vm.sourceLine(frameLine))
	}

	red.Fprint(&b, "ERROR: ")
	fmt.Fprintf(&b, "[line %d] %s: %s. Stopping execution.\n", line, kind, message)
	return b.String()
}

func (vm *VirtualMachine) functionName(hash int64) string {
	if fn, ok := vm.functions.Lookup(hash); ok {
		return fn.Name
	}
	return "<unknown>"
}

func (vm *VirtualMachine) sourceLine(line int) string {
	if vm.codeAtLine == nil {
		return ""
	}
	return vm.codeAtLine(line)
}
