package value

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// List is the Grace ordered-sequence heap object. Lists are shared by
// reference: Clone returns the same *List (same backing data) with
// the refcount incremented, matching the original implementation's
// reference-counted object model (spec.md §3). This implementation relies
// on the Go garbage collector for reclamation; refCount is retained as
// observable bookkeeping only, so a re-implementer targeting a
// non-GC'd host can see exactly where a free-on-zero would need to hook
// in. Reference cycles through lists are a known, accepted limitation
// (spec.md Non-goals).
type List struct {
	items    []Value
	refCount *int32
}

// NewList creates a List object wrapping items. The slice is taken by
// reference, not copied.
func NewList(items []Value) *List {
	rc := int32(1)
	return &List{items: items, refCount: &rc}
}

// NewEmptyList creates an empty List object.
func NewEmptyList() *List {
	return NewList(nil)
}

// NewRepeatingList creates a List of n copies of fill.
func NewRepeatingList(fill Value, n int) *List {
	items := make([]Value, n)
	for i := range items {
		items[i] = fill
	}
	return NewList(items)
}

// Clone returns this same *List, sharing its backing storage, after
// incrementing the reference count.
func (l *List) Clone() *List {
	atomic.AddInt32(l.refCount, 1)
	return l
}

// Release decrements the reference count. Returns the count after
// decrementing.
func (l *List) Release() int32 {
	return atomic.AddInt32(l.refCount, -1)
}

// RefCount returns the current reference count.
func (l *List) RefCount() int32 {
	return atomic.LoadInt32(l.refCount)
}

// Len returns the number of elements in the list.
func (l *List) Len() int { return len(l.items) }

// At returns the element at index i.
func (l *List) At(i int) Value { return l.items[i] }

// Set assigns the element at index i.
func (l *List) Set(i int, v Value) { l.items[i] = v }

// Append adds v to the end of the list.
func (l *List) Append(v Value) { l.items = append(l.items, v) }

// Items returns the underlying slice. Callers must not retain it across
// mutations without understanding the list is shared.
func (l *List) Items() []Value { return l.items }

// TypeName implements Object.
func (l *List) TypeName() string { return "List" }

// AsBool implements Object: a list is truthy iff it is non-empty.
func (l *List) AsBool() bool { return len(l.items) > 0 }

// ToString implements Object.
func (l *List) ToString() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		if item.Kind() == KindString {
			fmt.Fprintf(&b, "%q", item.StringValue())
		} else {
			b.WriteString(item.ToString())
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Print implements Object.
func (l *List) Print(w io.Writer) {
	io.WriteString(w, l.ToString())
}

// Equals implements Object: lists are equal iff same length and every
// element is equal in order.
func (l *List) Equals(other Object) bool {
	o, ok := other.(*List)
	if !ok {
		return false
	}
	if len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equals(o.items[i]) {
			return false
		}
	}
	return true
}
