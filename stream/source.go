// Package stream reads raw byte sources into validated pages and reassembles
// continuation chains into packets. It supports forward-only sources with a
// small pushback window and random-access sources with arbitrary seeks, and
// can recover page alignment in corrupted or arbitrarily offset streams.
package stream

import (
	"io"

	"github.com/arloliu/oggcore/errs"
)

// Source is a forward-only byte source with end-of-data detection and a
// bounded pushback capability.
//
// ReadByte and ReadFull return io.EOF when the source is exhausted at a
// clean boundary and errs.ErrUnexpectedEndOfData when it runs dry partway
// through a requested read. Callers decide which condition is an error.
type Source interface {
	// ReadByte reads and returns the next byte.
	ReadByte() (byte, error)

	// ReadFull reads exactly len(b) bytes into b.
	ReadFull(b []byte) error

	// Unread pushes bytes back onto the source so subsequent reads return
	// them first. The synchronizer pushes back at most one 4-byte capture
	// window.
	Unread(b []byte) error
}

// SeekableSource is a Source over random-access data, adding arbitrary
// seeks and a total length query. It enables backward scans such as
// Reader.SeekLastPage.
type SeekableSource interface {
	Source
	io.Seeker

	// Size returns the total length of the underlying data.
	Size() (int64, error)
}

// ReaderSource adapts an io.Reader into a forward-only Source with an
// in-memory pushback buffer.
type ReaderSource struct {
	r        io.Reader
	pushback []byte
}

// NewSource wraps a forward-only reader.
func NewSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// ReadByte reads and returns the next byte, serving pushed-back bytes first.
func (s *ReaderSource) ReadByte() (byte, error) {
	if len(s.pushback) > 0 {
		b := s.pushback[0]
		s.pushback = s.pushback[1:]

		return b, nil
	}

	var buf [1]byte
	if _, err := io.ReadFull(s.r, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

// ReadFull reads exactly len(b) bytes into b, serving pushed-back bytes
// first. A partial read yields errs.ErrUnexpectedEndOfData; a read that
// could not start yields io.EOF.
func (s *ReaderSource) ReadFull(b []byte) error {
	n := copy(b, s.pushback)
	s.pushback = s.pushback[n:]
	if n == len(b) {
		return nil
	}

	if _, err := io.ReadFull(s.r, b[n:]); err != nil {
		if err == io.ErrUnexpectedEOF || (err == io.EOF && n > 0) {
			return errs.ErrUnexpectedEndOfData
		}

		return err
	}

	return nil
}

// Unread pushes bytes back so subsequent reads return them first.
func (s *ReaderSource) Unread(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	restored := make([]byte, 0, len(b)+len(s.pushback))
	restored = append(restored, b...)
	restored = append(restored, s.pushback...)
	s.pushback = restored

	return nil
}

// FileSource adapts an io.ReadSeeker into a SeekableSource. Pushback is
// implemented by seeking, so no buffering state is held.
type FileSource struct {
	r io.ReadSeeker
}

// NewSeekSource wraps a random-access reader such as an *os.File.
func NewSeekSource(r io.ReadSeeker) *FileSource {
	return &FileSource{r: r}
}

// ReadByte reads and returns the next byte.
func (s *FileSource) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(s.r, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

// ReadFull reads exactly len(b) bytes into b. A partial read yields
// errs.ErrUnexpectedEndOfData; a read that could not start yields io.EOF.
func (s *FileSource) ReadFull(b []byte) error {
	if _, err := io.ReadFull(s.r, b); err != nil {
		if err == io.ErrUnexpectedEOF {
			return errs.ErrUnexpectedEndOfData
		}

		return err
	}

	return nil
}

// Unread steps the read position back by len(b) bytes. The bytes themselves
// are ignored; the next read re-reads them from the underlying data.
func (s *FileSource) Unread(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	_, err := s.r.Seek(-int64(len(b)), io.SeekCurrent)

	return err
}

// Seek repositions the source.
func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	return s.r.Seek(offset, whence)
}

// Size returns the total length of the underlying data, preserving the
// current read position.
func (s *FileSource) Size() (int64, error) {
	cur, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	end, err := s.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}

	if _, err := s.r.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}

	return end, nil
}
