package vm

import "github.com/lgtm-migrator/grace/value"

// NativeFunction is one entry of the VM-owned native function table
// (spec.md §4.5 "Native call semantics"). Concrete native implementations
// are out of scope for this core; the registration table itself is the
// in-scope surface so that a host embedding the VM can extend it.
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(args []value.Value) (value.Value, error)
}

// RegisterNative adds fn to the VM's native function table, returning the
// index a NativeCall opcode must reference. New registers no natives;
// callers register them with this method after New returns. Panics on a
// duplicate name.
func (vm *VirtualMachine) RegisterNative(fn NativeFunction) int {
	if _, exists := vm.nativeByName[fn.Name]; exists {
		panic("vm: native function " + fn.Name + " already registered")
	}
	idx := len(vm.natives)
	vm.natives = append(vm.natives, fn)
	vm.nativeByName[fn.Name] = idx
	return idx
}

// NativeIndex returns the table index of a previously registered native
// function, for callers (e.g. a compiler extension) that need to emit a
// NativeCall by name rather than by index.
func (vm *VirtualMachine) NativeIndex(name string) (int, bool) {
	idx, ok := vm.nativeByName[name]
	return idx, ok
}
