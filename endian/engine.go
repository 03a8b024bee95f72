// Package endian provides byte order utilities for binary encoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces from the standard
// encoding/binary package into a single EndianEngine interface so encoders can
// hold one value for both in-place and append-style writes.
//
// The Ziggurat container format is defined as little-endian; encoders obtain
// their engine from GetLittleEndianEngine. The big-endian engine exists for
// tooling that needs to inspect foreign byte orders.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian,
// so any standard library byte order value can be used directly.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	littleEndianEngine EndianEngine = binary.LittleEndian
	bigEndianEngine    EndianEngine = binary.BigEndian
)

// GetLittleEndianEngine returns the little-endian engine.
// This is the byte order of all multi-byte integers in Ziggurat containers.
func GetLittleEndianEngine() EndianEngine {
	return littleEndianEngine
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return bigEndianEngine
}

// AppendInt64 appends v to buf using the engine's byte order.
// Signed values are stored in two's-complement form.
func AppendInt64(engine EndianEngine, buf []byte, v int64) []byte {
	return engine.AppendUint64(buf, uint64(v))
}

// Int64 reads a signed 64-bit integer from b using the engine's byte order.
func Int64(engine EndianEngine, b []byte) int64 {
	return int64(engine.Uint64(b))
}
