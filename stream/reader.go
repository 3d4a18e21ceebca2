package stream

import (
	"errors"
	"io"

	"github.com/arloliu/oggcore/errs"
	"github.com/arloliu/oggcore/format"
	"github.com/arloliu/oggcore/internal/options"
	"github.com/arloliu/oggcore/internal/pool"
	"github.com/arloliu/oggcore/page"
)

// Reader reads validated pages from a byte source.
//
// Two read modes exist. ReadPage is strict: the next bytes must be the
// capture pattern, used when alignment is already guaranteed (immediately
// after a previously parsed page). ReadNextPage resynchronizes: it slides a
// 4-byte window forward one byte at a time until the capture pattern is
// found, recovering from garbage prefixes, corruption, or a container
// embedded inside other data.
type Reader struct {
	src           Source
	maxResyncScan int
}

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption = options.Option[*Reader]

// WithMaxResyncScan limits how many bytes a resynchronizing read may skip
// before giving up with errs.ErrNotAPage. Zero (the default) scans until the
// source is exhausted.
func WithMaxResyncScan(n int) ReaderOption {
	return options.NoError(func(r *Reader) {
		r.maxResyncScan = n
	})
}

// NewReader creates a Reader over a forward-only byte stream.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	return NewReaderFromSource(NewSource(r), opts...)
}

// NewSeekReader creates a Reader over random-access data, enabling
// SeekLastPage in addition to the sequential operations.
func NewSeekReader(r io.ReadSeeker, opts ...ReaderOption) (*Reader, error) {
	return NewReaderFromSource(NewSeekSource(r), opts...)
}

// NewReaderFromSource creates a Reader over an existing source.
func NewReaderFromSource(src Source, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{src: src}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// eod maps end-of-source conditions hit mid-structure to the spec error.
func eod(err error) error {
	if errors.Is(err, io.EOF) {
		return errs.ErrUnexpectedEndOfData
	}

	return err
}

// ReadPage reads one page in strict mode. The next four bytes must be the
// capture pattern and the following byte the supported version, otherwise
// errs.ErrNotAPage is returned. A source exhausted exactly at a page
// boundary yields io.EOF; one exhausted mid-page yields
// errs.ErrUnexpectedEndOfData.
func (r *Reader) ReadPage() (*page.Page, error) {
	var capture [4]byte
	if err := r.src.ReadFull(capture[:]); err != nil {
		return nil, err
	}
	if string(capture[:]) != format.CapturePattern {
		return nil, errs.ErrNotAPage
	}

	return r.readVersionAndBody()
}

// ReadNextPage reads one page in resynchronizing mode: it scans forward one
// byte at a time until the capture pattern is found, then parses strictly
// from there. Exhausting the source before a pattern is found yields
// errs.ErrUnexpectedEndOfData.
func (r *Reader) ReadNextPage() (*page.Page, error) {
	if err := r.resync(); err != nil {
		return nil, err
	}

	return r.readVersionAndBody()
}

// resync consumes bytes up to and including the next capture pattern.
func (r *Reader) resync() error {
	var window [4]byte
	if err := r.src.ReadFull(window[:]); err != nil {
		return eod(err)
	}

	skipped := 0
	for string(window[:]) != format.CapturePattern {
		if r.maxResyncScan > 0 && skipped >= r.maxResyncScan {
			return errs.ErrNotAPage
		}

		b, err := r.src.ReadByte()
		if err != nil {
			return eod(err)
		}
		copy(window[:3], window[1:])
		window[3] = b
		skipped++
	}

	return nil
}

// readVersionAndBody parses the rest of a page after its capture pattern
// has been consumed.
func (r *Reader) readVersionAndBody() (*page.Page, error) {
	version, err := r.src.ReadByte()
	if err != nil {
		return nil, eod(err)
	}
	if version != format.Version {
		return nil, errs.ErrNotAPage
	}

	bb := pool.GetPageBuffer()
	defer pool.PutPageBuffer(bb)

	// Rebuild the full serialized layout so page.Parse validates the CRC
	// over exactly the bytes that were on the wire.
	bb.ExtendOrGrow(format.HeaderSize)
	buf := bb.Bytes()
	copy(buf, format.CapturePattern)
	buf[format.VersionOffset] = format.Version
	if err := r.src.ReadFull(buf[format.HeaderTypeOffset:format.HeaderSize]); err != nil {
		return nil, eod(err)
	}

	segmentCount := int(buf[format.SegmentCountOffset])
	bb.ExtendOrGrow(segmentCount)
	buf = bb.Bytes()
	if segmentCount > 0 {
		if err := r.src.ReadFull(buf[format.HeaderSize:]); err != nil {
			return nil, eod(err)
		}
	}

	total := 0
	for _, size := range buf[format.SegmentTableOffset : format.SegmentTableOffset+segmentCount] {
		total += int(size)
	}
	bb.ExtendOrGrow(total)
	buf = bb.Bytes()
	if total > 0 {
		if err := r.src.ReadFull(buf[format.HeaderSize+segmentCount:]); err != nil {
			return nil, eod(err)
		}
	}

	pg, _, err := page.Parse(buf)
	if err != nil {
		return nil, err
	}

	return pg, nil
}

// ReadPageGroup reads one page and, while its last segment is exactly 255
// bytes, keeps reading consecutive pages strictly until one terminates its
// packet chain. The returned group holds every page needed to reassemble the
// packets that end inside it. When resync is true the first page is located
// in resynchronizing mode; continuation pages are always read strictly.
func (r *Reader) ReadPageGroup(resync bool) ([]*page.Page, error) {
	var (
		pg  *page.Page
		err error
	)
	if resync {
		pg, err = r.ReadNextPage()
	} else {
		pg, err = r.ReadPage()
	}
	if err != nil {
		return nil, err
	}

	pages := []*page.Page{pg}
	for pg.ContentContinuesInNextPage() {
		pg, err = r.ReadPage()
		if err != nil {
			return nil, eod(err)
		}
		pages = append(pages, pg)
	}

	return pages, nil
}

// ReadPackets reads one page group and reassembles it into packets.
func (r *Reader) ReadPackets(resync bool) ([]*page.Packet, error) {
	pages, err := r.ReadPageGroup(resync)
	if err != nil {
		return nil, err
	}

	return Packets(pages...), nil
}

// SkipPage advances past one page without CRC validation. If the source is
// not positioned at a capture pattern, it instead scans forward and stops
// *at* the next capture pattern without consuming it, so a subsequent
// ReadPage picks up there.
func (r *Reader) SkipPage() error {
	var window [4]byte
	if err := r.src.ReadFull(window[:]); err != nil {
		return eod(err)
	}

	if string(window[:]) == format.CapturePattern {
		return r.skipPageBody()
	}

	for {
		b, err := r.src.ReadByte()
		if err != nil {
			return eod(err)
		}
		copy(window[:3], window[1:])
		window[3] = b
		if string(window[:]) == format.CapturePattern {
			return r.src.Unread(window[:])
		}
	}
}

// skipPageBody discards the rest of a page whose capture pattern was
// consumed.
func (r *Reader) skipPageBody() error {
	bb := pool.GetPageBuffer()
	defer pool.PutPageBuffer(bb)

	// Version through checksum, then the segment count.
	bb.ExtendOrGrow(format.HeaderSize - len(format.CapturePattern) - 1)
	if err := r.src.ReadFull(bb.Bytes()); err != nil {
		return eod(err)
	}

	segmentCount, err := r.src.ReadByte()
	if err != nil {
		return eod(err)
	}

	table := make([]byte, int(segmentCount))
	if err := r.src.ReadFull(table); err != nil {
		return eod(err)
	}

	total := 0
	for _, size := range table {
		total += int(size)
	}

	bb.Reset()
	bb.ExtendOrGrow(total)
	if total > 0 {
		if err := r.src.ReadFull(bb.Bytes()); err != nil {
			return eod(err)
		}
	}

	return nil
}

// SeekLastPage positions a random-access source at the start of the final
// page by seeking to length-27 and scanning backward for the capture
// pattern. It fails with errs.ErrUnsupportedOperation on forward-only
// sources and errs.ErrNotAPage when no capture pattern exists.
func (r *Reader) SeekLastPage() error {
	src, ok := r.src.(SeekableSource)
	if !ok {
		return errs.ErrUnsupportedOperation
	}

	size, err := src.Size()
	if err != nil {
		return err
	}

	pos := size - int64(format.HeaderSize)
	if pos < 0 {
		return errs.ErrNotAPage
	}

	var window [4]byte
	for {
		if _, err := src.Seek(pos, io.SeekStart); err != nil {
			return err
		}
		if err := src.ReadFull(window[:]); err != nil {
			return eod(err)
		}
		if string(window[:]) == format.CapturePattern {
			_, err := src.Seek(pos, io.SeekStart)

			return err
		}

		pos--
		if pos < 0 {
			return errs.ErrNotAPage
		}
	}
}

// Packets flattens the segment tables of one or more page groups into
// packets: concatenation starts at any segment of length 255 and terminates
// at the first segment shorter than 255, which also closes the packet. A
// partially assembled packet left over at the end of the supplied pages is
// discarded, since its remainder lives on a page that was not provided.
func Packets(pages ...*page.Page) []*page.Packet {
	var packets []*page.Packet

	bb := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(bb)

	for _, pg := range pages {
		for i := range pg.SegmentCount() {
			seg := pg.Segment(i)
			bb.MustWrite(seg)
			if len(seg) < format.MaxSegmentSize {
				content := make([]byte, bb.Len())
				copy(content, bb.Bytes())
				packets = append(packets, page.NewPacket(content))
				bb.Reset()
			}
		}
	}

	return packets
}
