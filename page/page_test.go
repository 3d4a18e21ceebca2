package page

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/oggcore/errs"
	"github.com/arloliu/oggcore/format"
)

func sealedPage(t *testing.T, packets ...Packable) *Page {
	t.Helper()

	pg := NewPage()
	pg.SetGranulePosition(48000)
	pg.SetSerialNumber(0xCAFEBABE)
	pg.SetPageNumber(7)

	overplus, err := pg.AddPackets(packets...)
	require.NoError(t, err)
	require.Empty(t, overplus)
	require.NoError(t, pg.ComputeAndSetChecksum())

	return pg
}

func TestPage_HeaderTypeRoundTrip(t *testing.T) {
	for ht := byte(0); ht < 8; ht++ {
		pg := NewPage()
		pg.SetHeaderType(ht)
		require.Equal(t, ht, pg.HeaderType())
		require.Equal(t, ht&format.FlagContinuation != 0, pg.Continuation())
		require.Equal(t, ht&format.FlagBeginningOfStream != 0, pg.BeginningOfStream())
		require.Equal(t, ht&format.FlagEndOfStream != 0, pg.EndOfStream())
	}
}

func TestPage_AddSegment_RejectsOversized(t *testing.T) {
	pg := NewPage()

	added, err := pg.AddSegment(make([]byte, 256))
	require.ErrorIs(t, err, errs.ErrInvalidSegment)
	require.False(t, added)
	require.Equal(t, 0, pg.SegmentCount())
}

func TestPage_Capacity(t *testing.T) {
	pg := NewPage()
	for i := 0; i < format.MaxSegments; i++ {
		added, err := pg.AddSegment([]byte{byte(i)})
		require.NoError(t, err)
		require.True(t, added)
	}
	require.Equal(t, format.MaxSegments, pg.SegmentCount())

	// The 256th add signals "page full" without mutating the table.
	added, err := pg.AddSegment([]byte{0xFF})
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, format.MaxSegments, pg.SegmentCount())
	require.Equal(t, format.MaxSegments, pg.TotalSegmentSize())
}

func TestPage_AddPacket_NoOverplus(t *testing.T) {
	pg := NewPage()

	overplus, err := pg.AddPacket(NewPacket(make([]byte, 600)))
	require.NoError(t, err)
	require.Nil(t, overplus)

	table := pg.SegmentTable()
	require.Len(t, table, 3)
	require.Len(t, table[0], 255)
	require.Len(t, table[1], 255)
	require.Len(t, table[2], 90)
	require.False(t, pg.ContentContinuesInNextPage())
}

func TestPage_AddPacket_ExactMultiple(t *testing.T) {
	pg := NewPage()

	overplus, err := pg.AddPacket(NewPacket(make([]byte, 510)))
	require.NoError(t, err)
	require.Nil(t, overplus)

	table := pg.SegmentTable()
	require.Len(t, table, 3)
	require.Len(t, table[0], 255)
	require.Len(t, table[1], 255)
	require.Empty(t, table[2])
	require.False(t, pg.ContentContinuesInNextPage())
}

func TestPage_Segment(t *testing.T) {
	pg := NewPage()

	_, err := pg.AddPacket(NewPacket(make([]byte, 600)))
	require.NoError(t, err)

	table := pg.SegmentTable()
	for i := range pg.SegmentCount() {
		require.Equal(t, table[i], pg.Segment(i), "segment %d", i)
	}
}

func TestPage_ContinuesAfterFullSegment(t *testing.T) {
	pg := NewPage()

	added, err := pg.AddSegment(make([]byte, 255))
	require.NoError(t, err)
	require.True(t, added)
	require.True(t, pg.ContentContinuesInNextPage())

	added, err = pg.AddSegment(make([]byte, 90))
	require.NoError(t, err)
	require.True(t, added)
	require.False(t, pg.ContentContinuesInNextPage())
}

func TestPage_AddPacket_Invalid(t *testing.T) {
	pg := NewPage()

	_, err := pg.AddPacket(nil)
	require.ErrorIs(t, err, errs.ErrInvalidPacket)

	var p *Packet
	_, err = pg.AddPacket(p)
	require.ErrorIs(t, err, errs.ErrInvalidPacket)
}

func TestPage_Overplus_Ordering(t *testing.T) {
	pg := NewPage()

	// 254 one-byte packets leave exactly one free slot.
	for i := 0; i < 254; i++ {
		overplus, err := pg.AddPacket(NewPacket([]byte{byte(i)}))
		require.NoError(t, err)
		require.Nil(t, overplus)
	}

	// A 300-byte packet needs two segments; only the first fits.
	content := make([]byte, 300)
	for i := range content {
		content[i] = byte(i % 251)
	}
	overplus, err := pg.AddPacket(NewPacket(content))
	require.NoError(t, err)
	require.Len(t, overplus, 1)
	require.Equal(t, content[255:], overplus[0])
	require.Equal(t, format.MaxSegments, pg.SegmentCount())
	require.True(t, pg.ContentContinuesInNextPage())

	// A page that is already full returns every segment as overplus.
	overplus, err = pg.AddPacket(NewPacket([]byte{1, 2, 3}))
	require.NoError(t, err)
	require.Len(t, overplus, 1)
	require.Equal(t, []byte{1, 2, 3}, overplus[0])
}

func TestPage_AddPackets_ConcatenatesOverplus(t *testing.T) {
	pg := NewPage()

	// Fill all but one slot.
	for i := 0; i < 254; i++ {
		_, err := pg.AddPacket(NewPacket([]byte{0}))
		require.NoError(t, err)
	}

	first := NewPacket([]byte{0xAA, 0xAB})
	second := NewPacket([]byte{0xBB})
	overplus, err := pg.AddPackets(first, second)
	require.NoError(t, err)

	// First packet takes the last slot; the second spills entirely.
	require.Len(t, overplus, 1)
	require.Equal(t, []byte{0xBB}, overplus[0])
	require.False(t, pg.ContentContinuesInNextPage())
}

func TestPage_Bytes_RequiresState(t *testing.T) {
	pg := NewPage()

	_, err := pg.Bytes()
	require.ErrorIs(t, err, errs.ErrInvalidPageState)

	_, err = pg.ComputeChecksum()
	require.ErrorIs(t, err, errs.ErrInvalidPageState)

	pg.SetGranulePosition(0)
	pg.SetSerialNumber(1)
	_, err = pg.Bytes()
	require.ErrorIs(t, err, errs.ErrInvalidPageState)

	pg.SetPageNumber(0)
	_, err = pg.Bytes()
	require.ErrorIs(t, err, errs.ErrInvalidPageState) // checksum still unset

	require.NoError(t, pg.ComputeAndSetChecksum())
	b, err := pg.Bytes()
	require.NoError(t, err)
	require.Len(t, b, format.HeaderSize)
}

func TestPage_Serialize_Layout(t *testing.T) {
	pg := sealedPage(t, NewPacket([]byte("hello")))
	pg.SetBeginningOfStream(true)
	require.NoError(t, pg.ComputeAndSetChecksum())

	b, err := pg.Bytes()
	require.NoError(t, err)
	require.Equal(t, format.HeaderSize+1+5, len(b))
	require.Equal(t, "OggS", string(b[0:4]))
	require.Equal(t, byte(0), b[format.VersionOffset])
	require.Equal(t, format.FlagBeginningOfStream, b[format.HeaderTypeOffset])
	require.Equal(t, byte(1), b[format.SegmentCountOffset])
	require.Equal(t, byte(5), b[format.SegmentTableOffset])
	require.Equal(t, "hello", string(b[format.SegmentTableOffset+1:]))
}

func TestPage_ParseRoundTrip(t *testing.T) {
	pg := sealedPage(t, NewPacket([]byte("alpha")), NewPacket(make([]byte, 300)))

	b, err := pg.Bytes()
	require.NoError(t, err)

	parsed, consumed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, len(b), consumed)
	require.Equal(t, pg.GranulePosition(), parsed.GranulePosition())
	require.Equal(t, pg.SerialNumber(), parsed.SerialNumber())
	require.Equal(t, pg.PageNumber(), parsed.PageNumber())
	require.Equal(t, pg.Checksum(), parsed.Checksum())
	require.Equal(t, pg.SegmentCount(), parsed.SegmentCount())
	require.True(t, parsed.ChecksumValid())
}

func TestPage_Parse_NotAPage(t *testing.T) {
	_, _, err := Parse([]byte("MP3!garbage garbage garbage garbage"))
	require.ErrorIs(t, err, errs.ErrNotAPage)

	// Correct capture pattern but unsupported version.
	pg := sealedPage(t, NewPacket([]byte("x")))
	b, err := pg.Bytes()
	require.NoError(t, err)
	b[format.VersionOffset] = 1
	_, _, err = Parse(b)
	require.ErrorIs(t, err, errs.ErrNotAPage)
}

func TestPage_Parse_Truncated(t *testing.T) {
	pg := sealedPage(t, NewPacket(make([]byte, 64)))
	b, err := pg.Bytes()
	require.NoError(t, err)

	for _, cut := range []int{2, 10, format.HeaderSize, len(b) - 1} {
		_, _, err := Parse(b[:cut])
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData, "cut at %d", cut)
	}
}

func TestPage_Parse_Corrupted(t *testing.T) {
	pg := sealedPage(t, NewPacket([]byte("payload bytes")))
	b, err := pg.Bytes()
	require.NoError(t, err)

	// Flip one bit in a non-checksum byte.
	b[format.GranulePositionOffset] ^= 0x01
	_, _, err = Parse(b)
	require.ErrorIs(t, err, errs.ErrCorruptedPage)
}

func TestPage_ChecksumValid_DetectsMutation(t *testing.T) {
	pg := sealedPage(t, NewPacket([]byte("content")))
	require.True(t, pg.ChecksumValid())

	pg.SetGranulePosition(pg.GranulePosition() + 1)
	require.False(t, pg.ChecksumValid())

	require.NoError(t, pg.ComputeAndSetChecksum())
	require.True(t, pg.ChecksumValid())
}

func TestPage_ChecksumValid_FalseWhenUnset(t *testing.T) {
	pg := NewPage()
	pg.SetGranulePosition(0)
	pg.SetSerialNumber(1)
	pg.SetPageNumber(0)
	require.False(t, pg.ChecksumValid())
}
