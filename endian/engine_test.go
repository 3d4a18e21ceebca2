package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()

	buf := make([]byte, 8)
	engine.PutUint64(buf, 0x0102030405060708)
	require.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf)
	require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))

	appended := engine.AppendUint32(nil, 0xAABBCCDD)
	require.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, appended)
	require.Equal(t, uint32(0xAABBCCDD), engine.Uint32(appended))
}

func TestBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()

	buf := engine.AppendUint16(nil, 0x0102)
	require.Equal(t, []byte{0x01, 0x02}, buf)
}
