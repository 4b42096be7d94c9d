// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package util

// Magic FNV Base constant as suitable for a FNV-64 hash.
const fnvBase = uint64(14695981039346656037)
const fnvPrime = 1099511628211

// FNV64Init returns the initial state of an FNV-64 hash.
func FNV64Init() uint64 {
	return fnvBase
}

// FNV64AddToHash mixes a 32-bit value into the hash state.
func FNV64AddToHash(s0 uint64, c int32) uint64 {
	s0 *= fnvPrime
	s0 ^= uint64(c)
	return s0
}

// FNV64AddUint64 mixes a 64-bit value into the hash state. The value is mixed
// in two halves so that the high bits influence the result as much as the low
// bits do. Mixing is order-sensitive: adding a then b differs from b then a.
func FNV64AddUint64(s0 uint64, v uint64) uint64 {
	s0 = FNV64AddToHash(s0, int32(uint32(v)))
	return FNV64AddToHash(s0, int32(uint32(v>>32)))
}

// FNV64AddBool mixes a boolean into the hash state.
func FNV64AddBool(s0 uint64, b bool) uint64 {
	if b {
		return FNV64AddToHash(s0, 1)
	}
	return FNV64AddToHash(s0, 0)
}
