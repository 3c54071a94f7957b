package compiler

import "github.com/lgtm-migrator/grace/op"

// localInfo records one entry of a CompilerLocalMap (spec.md §3): whether
// the binding is final, and its slot (insertion order among currently
// active locals in the enclosing function).
type localInfo struct {
	isFinal bool
	slot    int64
}

// scopeMark remembers the names declared inside one block, so that the
// block's exit can emit PopLocal for each and remove them from the
// function's CompilerLocalMap (spec.md §4.2 "Scopes").
type scopeMark struct {
	names []string
}

// pushScope begins tracking a new block-local scope.
func (fc *funcCompiler) pushScope() {
	fc.scopes = append(fc.scopes, scopeMark{})
}

// declareLocal inserts name into the CompilerLocalMap at the next slot
// (the current count of active locals) and records it in the innermost
// open scope for later removal. Returns the assigned slot.
func (fc *funcCompiler) declareLocal(name string, isFinal bool) int64 {
	slot := int64(len(fc.locals))
	fc.locals[name] = localInfo{isFinal: isFinal, slot: slot}
	if n := len(fc.scopes); n > 0 {
		fc.scopes[n-1].names = append(fc.scopes[n-1].names, name)
	}
	return slot
}

// popScope closes the innermost open scope, emitting one PopLocal per
// local declared inside it and removing those names from the
// CompilerLocalMap. Locals declared in mutually exclusive branches (e.g.
// separate if/else bodies) reuse the same slot numbers because each
// branch's scope is fully popped before the other is compiled.
func (fc *funcCompiler) popScope(line int) {
	n := len(fc.scopes)
	if n == 0 {
		return
	}
	mark := fc.scopes[n-1]
	fc.scopes = fc.scopes[:n-1]
	for i := len(mark.names) - 1; i >= 0; i-- {
		delete(fc.locals, mark.names[i])
		fc.emit(op.PopLocal, line)
	}
}

// lookupLocal resolves name in the current function's CompilerLocalMap.
func (fc *funcCompiler) lookupLocal(name string) (localInfo, bool) {
	info, ok := fc.locals[name]
	return info, ok
}
