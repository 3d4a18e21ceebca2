// Package endian provides the byte order plumbing for the Ogg wire format.
//
// Every multi-byte integer in an Ogg page and in the comment-block packet is
// little-endian, so virtually all callers use GetLittleEndianEngine(). The
// EndianEngine interface combines ByteOrder and AppendByteOrder from
// encoding/binary so serializers can both patch fixed offsets and append to
// growing buffers through one value.
//
// # Thread Safety
//
// The returned engines are the immutable binary.LittleEndian and
// binary.BigEndian values and are safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for byte order operations.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian, so values of
// this type interoperate with any code built on the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. This is the byte
// order of the Ogg container and of the comment-block packet format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. It is not used by the
// container format itself; payload codecs that need network byte order can
// share the same engine plumbing.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
