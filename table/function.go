// Package table holds the Grace function table: the compiler's output
// and the VM's link-time input (spec.md §3, §4.5).
package table

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/value"
)

// OpLine pairs a single opcode with the source line it was compiled
// from, used for runtime error traces.
type OpLine struct {
	Op   op.Code
	Line int
}

// Function is a single compiled Grace function: its own flat op list and
// constant list, plus the absolute offsets filled in by the link step
// (Combine) once every function has been compiled.
type Function struct {
	Name         string
	NameHash     int64
	Arity        int
	DeclaredLine int
	Ops          []OpLine
	Consts       []value.Value

	// OpStart/ConstStart are absolute offsets into the VM's concatenated
	// arrays, filled in by FunctionTable.Combine.
	OpStart    int
	ConstStart int

	// BuildID is cosmetic correlation metadata, included in the
	// compiler's verbose "declared function" trace, for telling
	// incremental recompiles within one process apart; it has no effect
	// on compilation or execution semantics.
	BuildID string
}

// NewFunction creates a Function ready for the compiler to emit into.
func NewFunction(name string, nameHash int64, arity int, declaredLine int) *Function {
	return &Function{
		Name:         name,
		NameHash:     nameHash,
		Arity:        arity,
		DeclaredLine: declaredLine,
		BuildID:      uuid.NewString(),
	}
}

// HashName computes the stable name hash used as the function table key
// and as the Call opcode's callee operand. Uses FNV-1a, a fixed
// well-known non-cryptographic hash so that hashes are stable across
// runs (required since Call operands, including recursive calls, are
// compile-time-computed hashes that must match link-time table keys).
func HashName(name string) int64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= 1099511628211
	}
	return int64(h)
}

// FunctionTable owns every compiled Function, keyed by name hash.
// Function names must be unique across the table; a duplicate
// registration is a compile error (spec.md §3 invariant).
type FunctionTable struct {
	byHash map[int64]*Function
	order  []*Function
}

// NewFunctionTable creates an empty function table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{byHash: map[int64]*Function{}}
}

// Declare registers a new function by name, returning an error if the
// name hash collides with an already-registered function.
func (t *FunctionTable) Declare(name string, arity int, declaredLine int) (*Function, error) {
	hash := HashName(name)
	if existing, ok := t.byHash[hash]; ok {
		return nil, fmt.Errorf("function %q redefined (conflicts with %q)", name, existing.Name)
	}
	fn := NewFunction(name, hash, arity, declaredLine)
	t.byHash[hash] = fn
	t.order = append(t.order, fn)
	return fn, nil
}

// Lookup returns the function registered under the given name hash.
func (t *FunctionTable) Lookup(nameHash int64) (*Function, bool) {
	fn, ok := t.byHash[nameHash]
	return fn, ok
}

// LookupName returns the function registered under the given name.
func (t *FunctionTable) LookupName(name string) (*Function, bool) {
	return t.Lookup(HashName(name))
}

// Functions returns every registered function in declaration order.
func (t *FunctionTable) Functions() []*Function {
	return t.order
}

// Combine implements the link step (spec.md §4.5): concatenates `main`'s
// op/constant lists first, then every other function in table order,
// recording each function's OpStart/ConstStart as the accumulated
// lengths before it is appended. Returns a fatal error if `main` is not
// present.
func (t *FunctionTable) Combine() ([]OpLine, []value.Value, error) {
	main, ok := t.LookupName("main")
	if !ok {
		return nil, nil, fmt.Errorf("main-not-found: no function named \"main\" is defined")
	}

	var ops []OpLine
	var consts []value.Value

	appendFn := func(fn *Function) {
		fn.OpStart = len(ops)
		fn.ConstStart = len(consts)
		ops = append(ops, fn.Ops...)
		consts = append(consts, fn.Consts...)
	}

	appendFn(main)
	for _, fn := range t.order {
		if fn == main {
			continue
		}
		appendFn(fn)
	}
	return ops, consts, nil
}
