// Package page implements the physical framing unit of the Ogg container:
// a checksummed, capture-pattern-delimited page carrying a bounded table of
// packet segments, plus the packet type and the lacing rules that split
// packets across segments and pages.
package page

import (
	"io"

	"github.com/arloliu/oggcore/crc"
	"github.com/arloliu/oggcore/endian"
	"github.com/arloliu/oggcore/errs"
	"github.com/arloliu/oggcore/format"
	"github.com/arloliu/oggcore/internal/pool"
)

// Page represents one physical frame of the container byte stream.
//
// A page under construction is owned exclusively by its builder. The four
// scalar header fields (granule position, serial number, page number,
// checksum) track whether they have been set; serialization fails with
// errs.ErrInvalidPageState until the required ones are.
//
// The segment table holds at most 255 segments of at most 255 bytes each.
// The page owns copies of all admitted segment content.
type Page struct {
	continuation      bool
	beginningOfStream bool
	endOfStream       bool

	granulePosition uint64
	serialNumber    uint32
	pageNumber      uint32
	checksum        uint32

	granuleSet  bool
	serialSet   bool
	pageNumSet  bool
	checksumSet bool

	segments         [][]byte
	totalSegmentSize int
	lastSegmentSize  int
}

// NewPage creates an empty page with no fields set.
func NewPage() *Page {
	return &Page{
		segments: make([][]byte, 0, 16),
	}
}

// Continuation reports whether this page continues a packet started on the
// previous page.
func (pg *Page) Continuation() bool { return pg.continuation }

// SetContinuation changes the continuation flag.
func (pg *Page) SetContinuation(v bool) { pg.continuation = v }

// BeginningOfStream reports whether this page is the first of its logical
// bitstream.
func (pg *Page) BeginningOfStream() bool { return pg.beginningOfStream }

// SetBeginningOfStream changes the beginning-of-stream flag.
func (pg *Page) SetBeginningOfStream(v bool) { pg.beginningOfStream = v }

// EndOfStream reports whether this page is the last of its logical
// bitstream.
func (pg *Page) EndOfStream() bool { return pg.endOfStream }

// SetEndOfStream changes the end-of-stream flag.
func (pg *Page) SetEndOfStream(v bool) { pg.endOfStream = v }

// HeaderType packs the three flags into the header-type byte: bit 0 is
// continuation, bit 1 beginning of stream, bit 2 end of stream.
func (pg *Page) HeaderType() byte {
	var ht byte
	if pg.continuation {
		ht |= format.FlagContinuation
	}
	if pg.beginningOfStream {
		ht |= format.FlagBeginningOfStream
	}
	if pg.endOfStream {
		ht |= format.FlagEndOfStream
	}

	return ht
}

// SetHeaderType unpacks the header-type byte into the three flags.
func (pg *Page) SetHeaderType(ht byte) {
	pg.continuation = ht&format.FlagContinuation != 0
	pg.beginningOfStream = ht&format.FlagBeginningOfStream != 0
	pg.endOfStream = ht&format.FlagEndOfStream != 0
}

// GranulePosition returns the stream-defined position marker.
func (pg *Page) GranulePosition() uint64 { return pg.granulePosition }

// SetGranulePosition sets the position marker and marks it as set.
func (pg *Page) SetGranulePosition(v uint64) {
	pg.granulePosition = v
	pg.granuleSet = true
}

// SerialNumber returns the logical stream identifier of this page.
func (pg *Page) SerialNumber() uint32 { return pg.serialNumber }

// SetSerialNumber sets the logical stream identifier and marks it as set.
func (pg *Page) SetSerialNumber(v uint32) {
	pg.serialNumber = v
	pg.serialSet = true
}

// PageNumber returns the page sequence number.
func (pg *Page) PageNumber() uint32 { return pg.pageNumber }

// SetPageNumber sets the page sequence number and marks it as set.
func (pg *Page) SetPageNumber(v uint32) {
	pg.pageNumber = v
	pg.pageNumSet = true
}

// Checksum returns the stored CRC checksum.
func (pg *Page) Checksum() uint32 { return pg.checksum }

// SetChecksum stores a checksum value and marks it as set. Most callers use
// ComputeAndSetChecksum instead; this setter exists for deserialization and
// for tests that construct corrupt pages.
func (pg *Page) SetChecksum(v uint32) {
	pg.checksum = v
	pg.checksumSet = true
}

// SegmentCount returns the number of segments in the table.
func (pg *Page) SegmentCount() int { return len(pg.segments) }

// TotalSegmentSize returns the sum of all segment content sizes.
func (pg *Page) TotalSegmentSize() int { return pg.totalSegmentSize }

// Size returns the serialized page size in bytes.
func (pg *Page) Size() int {
	return format.HeaderSize + len(pg.segments) + pg.totalSegmentSize
}

// SegmentTable returns the ordered segments of this page. The returned
// content slices are owned by the page and must not be modified.
func (pg *Page) SegmentTable() [][]byte {
	return append([][]byte(nil), pg.segments...)
}

// Segment returns the content of segment i without copying the table.
// The returned slice is owned by the page and must not be modified.
func (pg *Page) Segment(i int) []byte {
	return pg.segments[i]
}

// ContentContinuesInNextPage reports whether the most recently added segment
// has length exactly 255, meaning the last packet on this page is not
// complete. When writing, a true result means the page must be closed and
// the remainder resubmitted to a new page; when reading, it means the next
// page must be consumed before any packet is emitted.
func (pg *Page) ContentContinuesInNextPage() bool {
	return pg.lastSegmentSize == format.MaxSegmentSize
}

// AddSegment adds one segment to the table. It returns false with a nil
// error once 255 segments are present — the soft "page full" signal telling
// the caller to start a new page — without mutating the table. Segments over
// 255 bytes are rejected with errs.ErrInvalidSegment. The page keeps its own
// copy of the content.
func (pg *Page) AddSegment(segment []byte) (bool, error) {
	if len(segment) > format.MaxSegmentSize {
		return false, errs.ErrInvalidSegment
	}
	if len(pg.segments) == format.MaxSegments {
		return false, nil
	}

	owned := make([]byte, len(segment))
	copy(owned, segment)

	pg.segments = append(pg.segments, owned)
	pg.totalSegmentSize += len(owned)
	pg.lastSegmentSize = len(owned)

	return true, nil
}

// AddPacket feeds the packet's segments into the table in order. Once the
// page is full, every not-yet-added segment is returned as overplus: the
// exact remaining content that must be carried into a new page, typically
// via NewPacketFromSegments. A nil overplus means everything fit.
//
// The packet must report IsValid; otherwise errs.ErrInvalidPacket is
// returned and the table is untouched.
func (pg *Page) AddPacket(packet Packable) ([][]byte, error) {
	if packet == nil || !packet.IsValid() {
		return nil, errs.ErrInvalidPacket
	}

	var overplus [][]byte
	full := false
	for _, seg := range packet.ToPacket().Segments() {
		if !full {
			added, err := pg.AddSegment(seg)
			if err != nil {
				return nil, err
			}
			full = !added
		}
		if full {
			overplus = append(overplus, seg)
		}
	}

	return overplus, nil
}

// AddPackets applies AddPacket to each packet in order. Overplus groups from
// multiple packets are concatenated preserving both the relative order of
// packets and of segments within each packet.
func (pg *Page) AddPackets(packets ...Packable) ([][]byte, error) {
	var overplus [][]byte
	for _, packet := range packets {
		op, err := pg.AddPacket(packet)
		if err != nil {
			return nil, err
		}
		overplus = append(overplus, op...)
	}

	return overplus, nil
}

// checkState verifies the scalar fields required for serialization.
func (pg *Page) checkState(includeChecksum bool) error {
	if !pg.granuleSet || !pg.serialSet || !pg.pageNumSet {
		return errs.ErrInvalidPageState
	}
	if includeChecksum && !pg.checksumSet {
		return errs.ErrInvalidPageState
	}

	return nil
}

// appendTo appends the serialized page to b. When includeChecksum is false
// the checksum field is written as zero, which is the layout the checksum
// itself is computed over.
func (pg *Page) appendTo(b []byte, includeChecksum bool) []byte {
	engine := endian.GetLittleEndianEngine()

	b = append(b, format.CapturePattern...)
	b = append(b, format.Version)
	b = append(b, pg.HeaderType())
	b = engine.AppendUint64(b, pg.granulePosition)
	b = engine.AppendUint32(b, pg.serialNumber)
	b = engine.AppendUint32(b, pg.pageNumber)
	if includeChecksum {
		b = engine.AppendUint32(b, pg.checksum)
	} else {
		b = append(b, 0, 0, 0, 0)
	}
	b = append(b, byte(len(pg.segments)))
	for _, seg := range pg.segments {
		b = append(b, byte(len(seg)))
	}
	for _, seg := range pg.segments {
		b = append(b, seg...)
	}

	return b
}

// Bytes serializes the page. It fails with errs.ErrInvalidPageState if the
// granule position, serial number, page number or checksum has not been set.
func (pg *Page) Bytes() ([]byte, error) {
	if err := pg.checkState(true); err != nil {
		return nil, err
	}

	return pg.appendTo(make([]byte, 0, pg.Size()), true), nil
}

// WriteTo serializes the page and writes it to w.
func (pg *Page) WriteTo(w io.Writer) (int64, error) {
	b, err := pg.Bytes()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(b)

	return int64(n), err
}

// ComputeChecksum computes the CRC over the serialized page layout with the
// checksum field zeroed. The granule position, serial number and page number
// must already be set.
func (pg *Page) ComputeChecksum() (uint32, error) {
	if err := pg.checkState(false); err != nil {
		return 0, err
	}

	bb := pool.GetPageBuffer()
	defer pool.PutPageBuffer(bb)

	return crc.Checksum(pg.appendTo(bb.Bytes(), false)), nil
}

// ComputeAndSetChecksum seals the page: it computes the checksum over the
// current layout and stores it in the checksum field.
func (pg *Page) ComputeAndSetChecksum() error {
	sum, err := pg.ComputeChecksum()
	if err != nil {
		return err
	}
	pg.SetChecksum(sum)

	return nil
}

// ChecksumValid reports whether the stored checksum matches the checksum
// recomputed over the page's current layout.
func (pg *Page) ChecksumValid() bool {
	if !pg.checksumSet {
		return false
	}

	sum, err := pg.ComputeChecksum()

	return err == nil && sum == pg.checksum
}

// Parse deserializes one page from the beginning of data, returning the page
// and the number of bytes consumed.
//
// It fails with errs.ErrNotAPage if the capture pattern or version byte
// mismatch, errs.ErrUnexpectedEndOfData if data ends mid-structure, and
// errs.ErrCorruptedPage if the recomputed checksum disagrees with the stored
// one.
func Parse(data []byte) (*Page, int, error) {
	if len(data) < len(format.CapturePattern) {
		return nil, 0, errs.ErrUnexpectedEndOfData
	}
	if string(data[:len(format.CapturePattern)]) != format.CapturePattern {
		return nil, 0, errs.ErrNotAPage
	}
	if len(data) < format.HeaderSize {
		return nil, 0, errs.ErrUnexpectedEndOfData
	}
	if data[format.VersionOffset] != format.Version {
		return nil, 0, errs.ErrNotAPage
	}

	engine := endian.GetLittleEndianEngine()

	pg := NewPage()
	pg.SetHeaderType(data[format.HeaderTypeOffset])
	pg.SetGranulePosition(engine.Uint64(data[format.GranulePositionOffset:format.SerialNumberOffset]))
	pg.SetSerialNumber(engine.Uint32(data[format.SerialNumberOffset:format.PageNumberOffset]))
	pg.SetPageNumber(engine.Uint32(data[format.PageNumberOffset:format.ChecksumOffset]))
	stored := engine.Uint32(data[format.ChecksumOffset:format.SegmentCountOffset])

	segmentCount := int(data[format.SegmentCountOffset])
	tableEnd := format.SegmentTableOffset + segmentCount
	if len(data) < tableEnd {
		return nil, 0, errs.ErrUnexpectedEndOfData
	}

	offset := tableEnd
	for i := range segmentCount {
		size := int(data[format.SegmentTableOffset+i])
		if len(data) < offset+size {
			return nil, 0, errs.ErrUnexpectedEndOfData
		}
		if _, err := pg.AddSegment(data[offset : offset+size]); err != nil {
			return nil, 0, err
		}
		offset += size
	}

	pg.SetChecksum(stored)
	if !pg.ChecksumValid() {
		return nil, 0, errs.ErrCorruptedPage
	}

	return pg, offset, nil
}
