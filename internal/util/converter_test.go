package util

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestUint64Conversion(t *testing.T) {
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, Uint64ToBytes(0))
	require.EqualValues(t, 0, BytesToUint64(Uint64ToBytes(0)))
	require.EqualValues(t, uint64(0xFFFFFFFFFFFFFFFF), BytesToUint64(Uint64ToBytes(0xFFFFFFFFFFFFFFFF)))
	// big endian byte order, ids sort naturally as keys
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 0}, Uint64ToBytes(256))
}

func TestUint256Conversion(t *testing.T) {
	b := Uint256ToBytes(uint256.NewInt(1))
	require.Len(t, b, 32)
	require.Equal(t, uint256.NewInt(1), BytesToUint256(b))

	max := new(uint256.Int).SetAllOne()
	require.Equal(t, max, BytesToUint256(Uint256ToBytes(max)))
}
