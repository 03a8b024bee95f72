// Package hash computes the hash keys stored in Ziggurat index components.
package hash

import "hash/fnv"

// Signed returns the 64-bit FNV-1a hash of data reinterpreted as a signed
// two's-complement integer. Hash keys share the signed int64 lane of index
// components, so the unsigned digest is bit-cast rather than truncated.
func Signed(data []byte) int64 {
	h := fnv.New64a()
	h.Write(data) //nolint:errcheck // never fails per hash.Hash contract

	return int64(h.Sum64())
}

// SignedString is Signed for a string without forcing a []byte conversion at
// every call site.
func SignedString(s string) int64 {
	return Signed([]byte(s))
}
