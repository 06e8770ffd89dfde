// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package position computes relative-position sequences with respect to an
// entity span.
package position

// Positions returns, for each index of a sequence of the given length, its
// signed distance to the nearest edge of the inclusive span [start, end]:
// negative before the span, zero inside it and positive after it.
func Positions(start, end, length int) []int {
	positions := make([]int, length)
	for i := range positions {
		switch {
		case i < start:
			positions[i] = i - start
		case i > end:
			positions[i] = i - end
		}
	}
	return positions
}

// Valid reports whether [start, end] is a non-empty span inside a sequence
// of the given length.
func Valid(start, end, length int) bool {
	return start >= 0 && start <= end && end < length
}
