package graphite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeUTF8StopsAtNUL(t *testing.T) {
	buf := append([]byte("abc"), 0, 'd')
	d := DecodeText(EncUTF8, buf)
	require.Equal(t, []rune("abc"), d.Runes)
	require.Equal(t, -1, d.ErrorOffset)
}

func TestDecodeUTF8ReportsMalformedOffset(t *testing.T) {
	buf := []byte{'a', 'b', 0xff, 'c'}
	d := DecodeText(EncUTF8, buf)
	require.Equal(t, []rune("ab"), d.Runes)
	require.Equal(t, 2, d.ErrorOffset)
}

func TestDecodeUTF16BigEndianSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, surrogate pair D83D DE00
	buf := []byte{0xD8, 0x3D, 0xDE, 0x00}
	d := DecodeText(EncUTF16, buf)
	require.Equal(t, []rune{0x1F600}, d.Runes)
	require.Equal(t, -1, d.ErrorOffset)
}

func TestDecodeUTF16OddLengthIsMalformed(t *testing.T) {
	buf := []byte{0x00, 'a', 0x00}
	d := DecodeText(EncUTF16, buf)
	require.GreaterOrEqual(t, d.ErrorOffset, 0)
}

func TestDecodeUTF32RejectsSurrogateRange(t *testing.T) {
	buf := []byte{0x00, 0x00, 0xD8, 0x00}
	d := DecodeText(EncUTF32, buf)
	require.Equal(t, 0, d.ErrorOffset)
}

func TestCountUnicodeCharacters(t *testing.T) {
	count, errOff := CountUnicodeCharacters(EncUTF8, []byte("hello"))
	require.Equal(t, 5, count)
	require.Equal(t, -1, errOff)
}
