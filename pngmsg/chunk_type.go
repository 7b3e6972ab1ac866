package pngmsg

import "bytes"

// ChunkType is a 4-byte chunk type code as described by the PNG specification
// ([PNG Structure](http://www.libpng.org/pub/png/spec/1.2/PNG-Structure.html)).
//
// Each byte is expected to be an ASCII letter, and bit 5 of each byte (the
// case bit) encodes one property of the chunk: ancillary/critical,
// public/private, the reserved bit, and safe-to-copy. Construction never
// fails; semantic validity is reported separately by IsValid so that a type
// code read off the wire can still be carried around, compared, and printed.
type ChunkType [4]byte

// ChunkTypeFromBytes builds a ChunkType from 4 raw bytes. The bytes are
// stored unconditionally, letters or not.
func ChunkTypeFromBytes(b [4]byte) ChunkType {
	return ChunkType(b)
}

// ChunkTypeFromString builds a ChunkType from a string such as "ruSt". It
// fails with ErrInvalidChunkType unless the string is exactly 4 bytes long.
func ChunkTypeFromString(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, ErrInvalidChunkType.WithDetail("input", s)
	}
	var t ChunkType
	copy(t[:], s)
	return t, nil
}

// Bytes returns the raw 4 bytes of the type code.
func (t ChunkType) Bytes() [4]byte {
	return [4]byte(t)
}

// IsCritical reports whether the chunk is critical (byte 0 uppercase).
func (t ChunkType) IsCritical() bool {
	return t[0]&0x20 == 0
}

// IsPublic reports whether the chunk type is public (byte 1 uppercase).
func (t ChunkType) IsPublic() bool {
	return t[1]&0x20 == 0
}

// IsReservedBitValid reports whether the reserved bit conforms to the current
// PNG specification (byte 2 uppercase). A lowercase third byte marks the
// whole type code as invalid.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&0x20 == 0
}

// IsSafeToCopy reports whether editors may copy the chunk without
// understanding it (byte 3 lowercase).
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&0x20 != 0
}

// IsValid reports whether the type code is legal: all 4 bytes are ASCII
// letters and the reserved bit is valid.
func (t ChunkType) IsValid() bool {
	for _, b := range t {
		if !isASCIILetter(b) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// Compare orders two type codes byte-wise, returning -1, 0, or 1.
func (t ChunkType) Compare(other ChunkType) int {
	return bytes.Compare(t[:], other[:])
}

// String renders the type code as ASCII text, e.g. "IHDR" or "ruSt".
func (t ChunkType) String() string {
	return string(t[:])
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
