// Package oggcore implements the Ogg container format: packet lacing,
// page framing with CRC validation, stream synchronization, and the
// comment-block metadata codec.
//
// The container is payload-agnostic. Callers hand over opaque packets;
// oggcore splits them into 255-byte lacing segments, frames the segments
// onto checksummed pages, and reassembles them on the way back, including
// packets that continue across page boundaries.
//
// # Basic Usage
//
// Writing packets to a stream:
//
//	import "github.com/arloliu/oggcore"
//
//	serial := oggcore.SerialID("my.audio.stream")
//	_, err := oggcore.WritePackets(w, serial, 0,
//	    page.NewPacket(firstPacket),
//	    page.NewPacket(secondPacket),
//	)
//
// Reading them back:
//
//	packets, err := oggcore.ReadPackets(r)
//	for _, p := range packets {
//	    process(p.Content())
//	}
//
// Attaching comment metadata:
//
//	tg, _ := tags.New(tags.WithVendor("encoder v1.2"))
//	tg.Add(tags.KeyTitle, "Some Song")
//	_, err := oggcore.WritePackets(w, serial, 0, tg)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the page and
// stream packages, covering the common aligned read/write cases. For
// resynchronizing reads over damaged or embedded streams, page skipping,
// and last-page seeks, use the stream package directly; for fine-grained
// page construction, use the page package.
package oggcore

import (
	"errors"
	"io"
	"math/rand/v2"

	"github.com/arloliu/oggcore/internal/hash"
	"github.com/arloliu/oggcore/page"
	"github.com/arloliu/oggcore/stream"
)

// SerialID derives a stable 32-bit stream serial number from a logical
// stream name. The same name always yields the same serial, letting
// callers address logical streams by name while the wire carries numbers.
func SerialID(name string) uint32 {
	return hash.SerialID(name)
}

// NewSerial returns a random stream serial number, for callers that have
// no meaningful name to derive one from. Uniqueness among the streams
// multiplexed into one physical stream is the caller's responsibility.
func NewSerial() uint32 {
	return rand.Uint32()
}

// WritePackets frames packets into pages for the given stream serial,
// numbering pages sequentially from firstPageNumber, and writes the pages
// to w. It returns the total number of bytes written.
func WritePackets(w io.Writer, serialNumber, firstPageNumber uint32, packets ...page.Packable) (int64, error) {
	pages, err := page.BuildPages(serialNumber, firstPageNumber, packets...)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, pg := range pages {
		n, err := pg.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// ReadPackets reads pages strictly from r until the source is exhausted
// and reassembles them into packets, following continuation chains across
// page boundaries. The input must start at a page boundary, which the
// output of WritePackets always does; for inputs with leading garbage or
// embedded pages, use stream.Reader's resynchronizing reads instead.
func ReadPackets(r io.Reader) ([]*page.Packet, error) {
	sr, err := stream.NewReader(r)
	if err != nil {
		return nil, err
	}

	var packets []*page.Packet
	for {
		group, err := sr.ReadPackets(false)
		if errors.Is(err, io.EOF) {
			return packets, nil
		}
		if err != nil {
			return nil, err
		}
		packets = append(packets, group...)
	}
}
