package page

import "github.com/arloliu/oggcore/format"

// Packet is one logical unit of payload or metadata: an owned byte sequence
// of arbitrary length. A packet is immutable once constructed; it is either
// built directly from content (write direction) or reassembled from the
// segments of one or more pages (read direction).
type Packet struct {
	content []byte
}

// NewPacket creates a packet owning the given content. A nil slice is
// treated as empty content; an empty packet is valid and occupies exactly
// one zero-length segment on a page.
func NewPacket(content []byte) *Packet {
	if content == nil {
		content = []byte{}
	}

	return &Packet{content: content}
}

// NewPacketFromSegments creates a packet by concatenating segments in order.
// This is the read-direction constructor, and also rebuilds the carry-over
// packet from the overplus returned by Page.AddPacket.
func NewPacketFromSegments(segments ...[]byte) *Packet {
	total := 0
	for _, seg := range segments {
		total += len(seg)
	}

	content := make([]byte, 0, total)
	for _, seg := range segments {
		content = append(content, seg...)
	}

	return &Packet{content: content}
}

// Content returns the packet content. The caller must not modify it.
func (p *Packet) Content() []byte {
	return p.content
}

// Size returns the packet content size in bytes.
func (p *Packet) Size() int {
	return len(p.content)
}

// IsValid reports whether the packet holds owned content. It implements the
// Packable admission check used by Page.AddPacket.
func (p *Packet) IsValid() bool {
	return p != nil && p.content != nil
}

// ToPacket implements Packable by returning the packet itself.
func (p *Packet) ToPacket() *Packet {
	return p
}

// HeaderMatches reports whether the packet content begins with the given
// literal header. Payload providers use it to sniff the packet kind before
// committing to a full parse.
func (p *Packet) HeaderMatches(header string) bool {
	if len(p.content) < len(header) {
		return false
	}

	return string(p.content[:len(header)]) == header
}

// Segments computes the lacing breakdown of the packet content: full
// 255-byte segments followed by the remainder. A remainder of exactly 255
// bytes gets a trailing zero-length segment, which is how a decoder tells
// "packet ends here" from "packet continues"; a segment shorter than 255
// bytes always terminates a packet. Empty content yields one zero-length
// segment.
//
// The returned slices alias the packet content and must not be modified.
func (p *Packet) Segments() [][]byte {
	content := p.content
	segments := make([][]byte, 0, len(content)/format.MaxSegmentSize+2)

	for len(content) > format.MaxSegmentSize {
		segments = append(segments, content[:format.MaxSegmentSize])
		content = content[format.MaxSegmentSize:]
	}
	segments = append(segments, content)

	if len(content) == format.MaxSegmentSize {
		segments = append(segments, []byte{})
	}

	return segments
}

// Packable is implemented by types that can present themselves as a packet
// for admission to a page. Tags implements it on the encode side; *Packet
// implements it trivially.
type Packable interface {
	// IsValid reports whether the value can produce a structurally valid
	// packet. Page.AddPacket rejects invalid values.
	IsValid() bool

	// ToPacket returns the packet representation of the value.
	ToPacket() *Packet
}
