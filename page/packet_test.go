package page

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacket_Segments_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		wantSizes []int
	}{
		{name: "empty", size: 0, wantSizes: []int{0}},
		{name: "one byte", size: 1, wantSizes: []int{1}},
		{name: "just under boundary", size: 254, wantSizes: []int{254}},
		{name: "exact boundary", size: 255, wantSizes: []int{255, 0}},
		{name: "just over boundary", size: 256, wantSizes: []int{255, 1}},
		{name: "under two boundaries", size: 509, wantSizes: []int{255, 254}},
		{name: "two boundaries", size: 510, wantSizes: []int{255, 255, 0}},
		{name: "three boundaries", size: 765, wantSizes: []int{255, 255, 255, 0}},
		{name: "large remainder", size: 600, wantSizes: []int{255, 255, 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := make([]byte, tt.size)
			for i := range content {
				content[i] = byte(i)
			}

			segments := NewPacket(content).Segments()
			require.Len(t, segments, len(tt.wantSizes))
			for i, want := range tt.wantSizes {
				require.Len(t, segments[i], want, "segment %d", i)
			}

			// Reassembly must reproduce the content exactly.
			rebuilt := NewPacketFromSegments(segments...)
			require.True(t, bytes.Equal(content, rebuilt.Content()))
		})
	}
}

func TestPacket_EmptyAndNil(t *testing.T) {
	p := NewPacket(nil)
	require.True(t, p.IsValid())
	require.Equal(t, 0, p.Size())
	require.Len(t, p.Segments(), 1)
	require.Empty(t, p.Segments()[0])
}

func TestPacket_HeaderMatches(t *testing.T) {
	p := NewPacket([]byte("OpusTags\x00rest"))

	require.True(t, p.HeaderMatches("OpusTags"))
	require.False(t, p.HeaderMatches("OpusHead"))
	require.False(t, NewPacket([]byte("Op")).HeaderMatches("OpusTags"))
	require.True(t, p.HeaderMatches(""))
}

func TestPacket_ToPacket(t *testing.T) {
	p := NewPacket([]byte{1, 2, 3})
	require.Same(t, p, p.ToPacket())
}
