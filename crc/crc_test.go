package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum_KnownValues(t *testing.T) {
	// A zero byte leaves the register untouched; a 0x01 byte pulls the
	// polynomial itself out of the lookup table.
	require.Equal(t, uint32(0), Checksum(nil))
	require.Equal(t, uint32(0), Checksum([]byte{0x00}))
	require.Equal(t, Polynomial, Checksum([]byte{0x01}))
}

func TestChecksum_Deterministic(t *testing.T) {
	data := []byte("OggS\x00\x02some page bytes with structure")
	require.Equal(t, Checksum(data), Checksum(data))
}

func TestChecksum_NotIEEE(t *testing.T) {
	// The unreflected variant must not agree with the reflected IEEE CRC32
	// of hash/crc32 (0xCBF43926 for "123456789").
	require.NotEqual(t, uint32(0xCBF43926), Checksum([]byte("123456789")))
}

func TestUpdate_Incremental(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	whole := Checksum(data)
	split := Update(Update(0, data[:13]), data[13:])
	require.Equal(t, whole, split)
}

func TestChecksum_BitFlipChangesSum(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	base := Checksum(data)

	for _, idx := range []int{0, 1, 26, 150, 299} {
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[idx] ^= 0x10
		require.NotEqual(t, base, Checksum(mutated), "flip at %d", idx)
	}
}
