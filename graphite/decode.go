package graphite

import (
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodedText holds the scalar values recovered from a raw text buffer,
// alongside the byte offset in the original buffer where each scalar
// started, matching CharInfo.ByteOffset (§3).
type DecodedText struct {
	Runes       []rune
	ByteOffsets []int

	// ErrorOffset is non-negative if decoding hit a malformed byte
	// sequence; the text up to that point is still returned, per §7
	// "the Segment is still constructed with the prefix of validly
	// decoded characters".
	ErrorOffset int
}

// CountUnicodeCharacters implements §6's count_unicode_characters: scan
// buf as the given encoding, stop at the first NUL (not counted) or at
// end of buffer, and report how many scalars were found plus the offset
// of the first malformed byte, or -1 if none.
func CountUnicodeCharacters(enc EncodingForm, buf []byte) (count int, errorOffset int) {
	d := DecodeText(enc, buf)
	return len(d.Runes), d.ErrorOffset
}

// DecodeText decodes buf under the given encoding, stopping at the
// first NUL code point (not counted in the result) or at a malformed
// byte sequence.
func DecodeText(enc EncodingForm, buf []byte) DecodedText {
	switch enc {
	case EncUTF16:
		return decodeUTF16(buf)
	case EncUTF32:
		return decodeUTF32(buf)
	default:
		return decodeUTF8(buf)
	}
}

func decodeUTF8(buf []byte) DecodedText {
	out := DecodedText{ErrorOffset: -1}
	i := 0
	for i < len(buf) {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size <= 1 {
			if i < len(buf) && size == 0 {
				break
			}
			out.ErrorOffset = i
			return out
		}
		if r == 0 {
			break
		}
		out.Runes = append(out.Runes, r)
		out.ByteOffsets = append(out.ByteOffsets, i)
		i += size
	}
	return out
}

// decodeUTF16 decodes big-endian UTF-16 (a BOM is not interpreted)
// with golang.org/x/text/encoding/unicode's transformer rather than a
// hand rolled surrogate pair loop. Lone surrogates and a half-consumed
// trailing code unit are reported via ErrorOffset, as §7 requires.
func decodeUTF16(buf []byte) DecodedText {
	out := DecodedText{ErrorOffset: -1}
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	i := 0
	for i < len(buf) {
		if i+1 >= len(buf) {
			out.ErrorOffset = i
			return out
		}
		unit := binary.BigEndian.Uint16(buf[i:])
		if unit == 0 {
			break
		}
		if unit >= 0xDC00 && unit <= 0xDFFF {
			out.ErrorOffset = i
			return out
		}
		var raw []byte
		if unit >= 0xD800 && unit <= 0xDBFF {
			if i+3 >= len(buf) {
				out.ErrorOffset = i
				return out
			}
			if lo := binary.BigEndian.Uint16(buf[i+2:]); lo < 0xDC00 || lo > 0xDFFF {
				out.ErrorOffset = i
				return out
			}
			raw = buf[i : i+4]
		} else {
			raw = buf[i : i+2]
		}
		decoded, err := dec.Bytes(raw)
		if err != nil || len(decoded) == 0 {
			out.ErrorOffset = i
			return out
		}
		r, size := utf8.DecodeRune(decoded)
		if r == utf8.RuneError && size <= 1 {
			out.ErrorOffset = i
			return out
		}
		out.Runes = append(out.Runes, r)
		out.ByteOffsets = append(out.ByteOffsets, i)
		i += len(raw)
	}
	return out
}

func decodeUTF32(buf []byte) DecodedText {
	out := DecodedText{ErrorOffset: -1}
	for i := 0; i < len(buf); i += 4 {
		if i+3 >= len(buf) {
			out.ErrorOffset = i
			return out
		}
		v := binary.BigEndian.Uint32(buf[i:])
		if v == 0 {
			break
		}
		if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
			out.ErrorOffset = i
			return out
		}
		out.Runes = append(out.Runes, rune(v))
		out.ByteOffsets = append(out.ByteOffsets, i)
	}
	return out
}
