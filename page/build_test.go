package page

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPages_SinglePage(t *testing.T) {
	pages, err := BuildPages(42, 0, NewPacket([]byte("one")), NewPacket([]byte("two")))
	require.NoError(t, err)
	require.Len(t, pages, 1)

	pg := pages[0]
	require.Equal(t, uint32(42), pg.SerialNumber())
	require.Equal(t, uint32(0), pg.PageNumber())
	require.False(t, pg.Continuation())
	require.True(t, pg.ChecksumValid())
	require.Equal(t, 2, pg.SegmentCount())
}

func TestBuildPages_SpillsAcrossPages(t *testing.T) {
	// 255 segments fit per page; 300 one-byte packets force a second page.
	packets := make([]Packable, 300)
	for i := range packets {
		packets[i] = NewPacket([]byte{byte(i)})
	}

	pages, err := BuildPages(7, 10, packets...)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	require.Equal(t, uint32(10), pages[0].PageNumber())
	require.Equal(t, uint32(11), pages[1].PageNumber())
	require.False(t, pages[0].Continuation())
	// The first page fills at a packet boundary (its last segment is one
	// byte), so the spilled packets start fresh on the second page.
	require.False(t, pages[0].ContentContinuesInNextPage())
	require.False(t, pages[1].Continuation())
	require.Equal(t, 255, pages[0].SegmentCount())
	for _, pg := range pages {
		require.True(t, pg.ChecksumValid())
		require.Equal(t, uint32(7), pg.SerialNumber())
	}
}

func TestBuildPages_ContinuationFlagAtPacketBoundary(t *testing.T) {
	// 255 one-byte packets fill the first page exactly; a 256th packet
	// spills entirely onto the second page. Nothing is left open across the
	// boundary, so the carry page must not carry the continuation flag.
	packets := make([]Packable, 256)
	for i := range packets {
		packets[i] = NewPacket([]byte{byte(i)})
	}

	pages, err := BuildPages(5, 0, packets...)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.False(t, pages[0].ContentContinuesInNextPage())
	require.False(t, pages[1].Continuation())
}

func TestBuildPages_LargePacket(t *testing.T) {
	// 255*255 bytes fill one page exactly with 255 full segments, leaving
	// the terminating zero-length segment to the next page.
	content := make([]byte, 255*255)
	for i := range content {
		content[i] = byte(i % 255)
	}

	pages, err := BuildPages(1, 0, NewPacket(content))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.True(t, pages[0].ContentContinuesInNextPage())
	require.True(t, pages[1].Continuation())
	require.False(t, pages[1].ContentContinuesInNextPage())
}

func TestBuildPages_InvalidPacket(t *testing.T) {
	var p *Packet
	_, err := BuildPages(1, 0, p)
	require.Error(t, err)
}
