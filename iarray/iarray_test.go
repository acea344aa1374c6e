// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iarray

import (
	"hash/maphash"
	"slices"
	"testing"
)

func TestNewEmpty(t *testing.T) {
	a := New[byte, [8]byte]()
	if !a.IsEmpty() {
		t.Fatalf("new array should be empty, got len %d", a.Len())
	}
	if got := a.Cap(); got != 8 {
		t.Fatalf("inline cap = %d, want 8", got)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	a := New[int, [4]int]()
	before := a.Len()
	a.Push(42)
	v, ok := a.Pop()
	if !ok || v != 42 {
		t.Fatalf("pop = (%v, %v), want (42, true)", v, ok)
	}
	if a.Len() != before {
		t.Fatalf("len after push/pop = %d, want %d", a.Len(), before)
	}
}

func TestPopEmpty(t *testing.T) {
	a := New[int, [4]int]()
	if _, ok := a.Pop(); ok {
		t.Fatalf("pop of empty array should return ok=false")
	}
}

func TestSpillAndGrowth(t *testing.T) {
	a := New[byte, [4]byte]()
	for i := 0; i < 4; i++ {
		a.Push(byte(i))
	}
	if a.spilled() {
		t.Fatalf("array should still be inline at exactly N elements")
	}
	a.Push(4)
	if !a.spilled() {
		t.Fatalf("array should have spilled after exceeding N")
	}
	if got, want := a.Len(), 5; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}
	if got := a.Cap(); got < 5 {
		t.Fatalf("cap = %d, should be >= len", got)
	}
	want := []byte{0, 1, 2, 3, 4}
	if !slices.Equal(a.Slice(), want) {
		t.Fatalf("slice = %v, want %v", a.Slice(), want)
	}
}

func TestExtendFromSliceEquivalence(t *testing.T) {
	a := New[byte, [8]byte]()
	a.Push('A')
	a.Push('B')
	tail := []byte("CDEF")
	prior := slices.Clone(a.Slice())
	a.ExtendFromSlice(tail)
	want := append(prior, tail...)
	if !slices.Equal(a.Slice(), want) {
		t.Fatalf("after extend: %v, want %v", a.Slice(), want)
	}
}

func TestEqualityAcrossInlineCapacities(t *testing.T) {
	var x IArray[byte, [32]byte]
	x.ExtendFromSlice([]byte("AVeryGoodKeyspaceName"))

	var y IArray[byte, [64]byte]
	for _, c := range []byte("AVeryGoodKeyspaceName") {
		y.Push(c)
	}

	if !Equal(&x, &y) {
		t.Fatalf("IArray[_,32] and IArray[_,64] with equal contents should be Equal")
	}
}

func TestHashMatchesAcrossInlineCapacities(t *testing.T) {
	seed := maphash.MakeSeed()
	var x IArray[byte, [16]byte]
	x.ExtendFromSlice([]byte("hello world"))
	var y IArray[byte, [4]byte] // forces a spill
	y.ExtendFromSlice([]byte("hello world"))

	if Hash(&x, seed) != Hash(&y, seed) {
		t.Fatalf("hash should depend only on contents, not inline capacity")
	}
}

func TestShrinkBackToInline(t *testing.T) {
	a := New[byte, [4]byte]()
	a.ExtendFromSlice([]byte{1, 2, 3, 4, 5, 6})
	a.Truncate(2)
	if !a.spilled() {
		t.Fatalf("precondition: array should still be spilled before Shrink")
	}
	a.Shrink()
	if a.spilled() {
		t.Fatalf("array should have moved back inline after Shrink")
	}
	if want := []byte{1, 2}; !slices.Equal(a.Slice(), want) {
		t.Fatalf("slice after shrink = %v, want %v", a.Slice(), want)
	}

	// idempotent
	a.Shrink()
	if a.spilled() || !slices.Equal(a.Slice(), []byte{1, 2}) {
		t.Fatalf("second Shrink changed state: spilled=%v slice=%v", a.spilled(), a.Slice())
	}
}

func TestInsertSliceAtIndex(t *testing.T) {
	a := FromSlice[byte, [8]byte]([]byte("ACE"))
	a.InsertSliceAtIndex([]byte("BD"), 1)
	// "A" + "BD" + "CE" -- shifting the suffix [1,3) right by 2.
	want := []byte("ABDCE")
	if !slices.Equal(a.Slice(), want) {
		t.Fatalf("insert = %q, want %q", a.Slice(), want)
	}
}

func TestInsertSliceAtIndexOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range index")
		}
	}()
	a := New[byte, [4]byte]()
	a.InsertSliceAtIndex([]byte("x"), 5)
}

func TestExtendPanicSafety(t *testing.T) {
	type boom struct{}
	a := New[int, [8]int]()

	produced := []int{1, 2, 3}
	seq := func(yield func(int) bool) {
		for _, v := range produced {
			if !yield(v) {
				return
			}
		}
		panic(boom{})
	}

	func() {
		defer func() {
			recover()
		}()
		a.Extend(seq)
	}()

	if got := a.Len(); got != len(produced) {
		t.Fatalf("len after panicking Extend = %d, want %d", got, len(produced))
	}
	if !slices.Equal(a.Slice(), produced) {
		t.Fatalf("slice after panicking Extend = %v, want %v", a.Slice(), produced)
	}
}

func TestExtendSpillsWhenNeeded(t *testing.T) {
	a := New[byte, [4]byte]()
	seq := func(yield func(byte) bool) {
		for _, c := range []byte("abcdefgh") {
			if !yield(c) {
				return
			}
		}
	}
	a.Extend(seq)
	if !slices.Equal(a.Slice(), []byte("abcdefgh")) {
		t.Fatalf("extend result = %q", a.Slice())
	}
}

func TestZeroSizedElement(t *testing.T) {
	type unit struct{}
	a := New[unit, [2]unit]()
	for i := 0; i < 1000; i++ {
		a.Push(unit{})
	}
	if a.spilled() {
		t.Fatalf("zero-sized element array must never spill")
	}
	if got := a.Len(); got != 1000 {
		t.Fatalf("len = %d, want 1000", got)
	}
	a.Truncate(3)
	if got := a.Len(); got != 3 {
		t.Fatalf("len after truncate = %d, want 3", got)
	}
}

func TestFromOwnedSequenceAdoptsLargeCapacity(t *testing.T) {
	src := make([]int, 2, 100)
	src[0], src[1] = 7, 8
	a := FromOwnedSequence[int, [4]int](src)
	if !a.spilled() {
		t.Fatalf("owned sequence with cap > N should adopt heap storage directly")
	}
	if got := a.Cap(); got != 100 {
		t.Fatalf("cap = %d, want 100 (adopted verbatim)", got)
	}
}

func TestFromOwnedSequenceCopiesSmallCapacity(t *testing.T) {
	src := make([]byte, 2, 3)
	src[0], src[1] = 'x', 'y'
	a := FromOwnedSequence[byte, [8]byte](src)
	if a.spilled() {
		t.Fatalf("owned sequence fitting within N should stay inline")
	}
	if !slices.Equal(a.Slice(), []byte{'x', 'y'}) {
		t.Fatalf("slice = %v", a.Slice())
	}
}

func TestCompareOrdersLikeFlatSlice(t *testing.T) {
	var a IArray[byte, [4]byte]
	a.ExtendFromSlice([]byte("abc"))
	var b IArray[byte, [8]byte]
	b.ExtendFromSlice([]byte("abd"))
	if Compare(&a, &b) >= 0 {
		t.Fatalf("expected a < b")
	}
}

func TestClearIsTruncateZero(t *testing.T) {
	a := New[byte, [4]byte]()
	a.ExtendFromSlice([]byte("ab"))
	a.Clear()
	if !a.IsEmpty() {
		t.Fatalf("array should be empty after Clear")
	}
}

func TestSetLenOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range SetLen")
		}
	}()
	a := New[byte, [4]byte]()
	a.SetLen(100)
}
