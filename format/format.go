// Package format defines the wire-level constants of the Ogg page layout.
//
// Every multi-byte integer in the format is little-endian. A page is a fixed
// 27-byte header, a segment-size table of up to 255 one-byte entries, and the
// concatenated segment contents:
//
//	offset 0  (4 bytes)  capture pattern "OggS"
//	offset 4  (1 byte)   format version (always 0)
//	offset 5  (1 byte)   header type flags
//	offset 6  (8 bytes)  granule position
//	offset 14 (4 bytes)  serial number
//	offset 18 (4 bytes)  page sequence number
//	offset 22 (4 bytes)  CRC32 checksum (zeroed during its own computation)
//	offset 26 (1 byte)   segment count N
//	offset 27 (N bytes)  segment sizes, one byte each
//	offset 27+N          segment contents, in table order
package format

// CapturePattern is the fixed 4-byte marker identifying the start of a page.
const CapturePattern = "OggS"

// Version is the only page format version this module reads or writes.
const Version byte = 0

// Header type flag bits, packed into the byte at offset 5.
const (
	// FlagContinuation marks a page whose first segment continues a packet
	// started on the previous page.
	FlagContinuation byte = 0x01

	// FlagBeginningOfStream marks the first page of a logical bitstream.
	FlagBeginningOfStream byte = 0x02

	// FlagEndOfStream marks the last page of a logical bitstream.
	FlagEndOfStream byte = 0x04
)

const (
	// HeaderSize is the fixed portion of the page header, before the
	// segment-size table.
	HeaderSize = 27

	// MaxSegments is the maximum number of segments per page; the segment
	// count is stored in a single byte.
	MaxSegments = 255

	// MaxSegmentSize is the maximum content length of one segment. A segment
	// of exactly this size signals that its packet continues in the next
	// segment (or page).
	MaxSegmentSize = 255

	// MaxPageSize is the largest possible serialized page.
	MaxPageSize = HeaderSize + MaxSegments + MaxSegments*MaxSegmentSize
)

// Byte offsets of the fixed header fields.
const (
	CapturePatternOffset  = 0
	VersionOffset         = 4
	HeaderTypeOffset      = 5
	GranulePositionOffset = 6
	SerialNumberOffset    = 14
	PageNumberOffset      = 18
	ChecksumOffset        = 22
	SegmentCountOffset    = 26
	SegmentTableOffset    = 27
)
