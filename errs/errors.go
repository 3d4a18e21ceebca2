// Package errs defines the sentinel errors shared across oggcore packages.
//
// Hard structural failures are modeled as sentinel errors so callers can
// classify them with errors.Is. Soft conditions are deliberately *not* here:
// a full page is reported as an ordinary boolean from Page.AddSegment, and a
// tags packet that fails to decode is recorded on the Tags validity flag,
// because callers routinely probe several metadata layouts against the same
// leading packet.
package errs

import "errors"

var (
	// ErrNotAPage indicates the data at the current position does not start
	// with the capture pattern, or carries an unsupported format version.
	ErrNotAPage = errors.New("not an ogg page")

	// ErrCorruptedPage indicates a page whose stored CRC checksum disagrees
	// with the checksum recomputed over its serialized bytes.
	ErrCorruptedPage = errors.New("ogg page checksum mismatch")

	// ErrUnexpectedEndOfData indicates the byte source was exhausted in the
	// middle of a structure (page header, segment table, segment content, or
	// a resynchronization scan that never found a capture pattern).
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")

	// ErrInvalidSegment indicates an attempt to add a segment longer than
	// 255 bytes to a page.
	ErrInvalidSegment = errors.New("segment size greater than 255 bytes")

	// ErrInvalidPacket indicates a packet failed its own validity check
	// before admission to a page.
	ErrInvalidPacket = errors.New("invalid ogg packet")

	// ErrInvalidPageState indicates page serialization was attempted before
	// the granule position, serial number, page number or checksum was set.
	ErrInvalidPageState = errors.New("ogg page field not set")

	// ErrUnsupportedOperation indicates the byte source does not support the
	// requested capability (for example, seeking on a forward-only source).
	ErrUnsupportedOperation = errors.New("unsupported operation")
)
