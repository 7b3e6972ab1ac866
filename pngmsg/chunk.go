package pngmsg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxChunkLength is the largest legal chunk data length. The length field on
// the wire is a 4-byte unsigned integer, but the PNG specification caps its
// value at 2^31.
const MaxChunkLength = 1 << 31

// chunkOverhead is the size of the fixed fields around the data: length,
// type, and CRC.
const chunkOverhead = 4 + 4 + 4

// Chunk is a single PNG chunk: a length-prefixed, type-tagged, checksummed
// binary record. The CRC is computed with the IEEE CRC-32 polynomial over the
// type bytes followed by the data bytes, per ISO-3309.
//
// A Chunk is immutable once constructed and holds the invariants
// crc == CRC-32/IEEE(type ++ data) and length == len(data): NewChunk computes
// the checksum rather than trusting the caller, and ParseChunk recomputes it
// and rejects the input on mismatch.
type Chunk struct {
	length    uint32 // must not exceed 2^31
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk creates a chunk from a type code and a data buffer, computing the
// length and checksum fields. It fails with ErrInvalidChunkLength when data
// is longer than 2^31 bytes.
//
// The type code is not validated here: an invalid ChunkType is accepted, and
// callers who care consult ChunkType.IsValid themselves.
func NewChunk(chunkType ChunkType, data []byte) (*Chunk, error) {
	if uint64(len(data)) > MaxChunkLength {
		return nil, ErrInvalidChunkLength.WithDetail("length", len(data))
	}

	length, err := lengthToUint32(len(data))
	if err != nil {
		return nil, err
	}

	return &Chunk{
		length:    length,
		chunkType: chunkType,
		data:      data,
		crc:       checksum(chunkType, data),
	}, nil
}

// ParseChunk reads one chunk from the front of raw. Bytes after the chunk's
// declared extent are left untouched; slicing consecutive chunks out of a
// file is the container's business (see ParsePNG).
func ParseChunk(raw []byte) (*Chunk, error) {
	return readChunk(bytes.NewReader(raw))
}

// readChunk parses a single chunk from r, advancing it by exactly one
// chunk's worth of bytes on success.
func readChunk(r *bytes.Reader) (*Chunk, error) {
	var buf [4]byte

	// length field
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, ErrTruncated.WithDetail("field", "length").WithCause(err)
	}
	length := binary.BigEndian.Uint32(buf[:])
	if length > MaxChunkLength {
		return nil, ErrInvalidChunkLength.WithDetail("length", length)
	}

	// type field; stored unconditionally, validity stays advisory
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, ErrTruncated.WithDetail("field", "type").WithCause(err)
	}
	chunkType := ChunkTypeFromBytes(buf)

	// data
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, ErrTruncated.WithDetail("field", "data").WithDetail("length", length).WithCause(err)
	}

	// claimed checksum, compared against one computed from what was read
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, ErrTruncated.WithDetail("field", "crc").WithCause(err)
	}
	crc := binary.BigEndian.Uint32(buf[:])
	if computed := checksum(chunkType, data); computed != crc {
		return nil, ErrInvalidCRC.
			WithDetail("chunkType", chunkType.String()).
			WithDetail("claimed", crc).
			WithDetail("computed", computed)
	}

	return &Chunk{
		length:    length,
		chunkType: chunkType,
		data:      data,
		crc:       crc,
	}, nil
}

// Length returns the number of data bytes in the chunk.
func (c *Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk's type code.
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the chunk's data bytes. The slice is the chunk's own buffer;
// callers must not modify it.
func (c *Chunk) Data() []byte {
	return c.data
}

// CRC returns the chunk's checksum value.
func (c *Chunk) CRC() uint32 {
	return c.crc
}

// DataAsString decodes the chunk data as UTF-8 text. It fails with
// ErrInvalidUTF8 rather than substituting replacement characters, so callers
// recovering an embedded message can tell whether recovery is exact.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", ErrInvalidUTF8.WithDetail("chunkType", c.chunkType.String())
	}
	return string(c.data), nil
}

// Bytes serializes the chunk to its exact wire form: big-endian length, type
// bytes, data bytes, big-endian CRC. ParseChunk(c.Bytes()) reconstructs c
// field for field.
func (c *Chunk) Bytes() []byte {
	out := make([]byte, 0, chunkOverhead+len(c.data))
	out = binary.BigEndian.AppendUint32(out, c.length)
	out = append(out, c.chunkType[:]...)
	out = append(out, c.data...)
	out = binary.BigEndian.AppendUint32(out, c.crc)
	return out
}

// String renders the chunk for diagnostics: the type code followed by the
// data as quoted text, substituting replacement characters for byte sequences
// that are not valid UTF-8. It never fails; use DataAsString for exact
// recovery.
func (c *Chunk) String() string {
	return fmt.Sprintf("%s\"%s\"", c.chunkType, strings.ToValidUTF8(string(c.data), "�"))
}

// checksum computes CRC-32/IEEE over the type bytes followed by the data
// bytes.
func checksum(chunkType ChunkType, data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(chunkType[:])
	h.Write(data)
	return h.Sum32()
}

// lengthToUint32 narrows a data length to the 4-byte wire field. Practically
// unreachable once the 2^31 bound has been enforced, but kept as a distinct
// failure so a bad narrowing never wraps silently.
func lengthToUint32(n int) (uint32, error) {
	if n < 0 || uint64(n) > uint64(^uint32(0)) {
		return 0, ErrNumericConversion.WithDetail("length", n)
	}
	return uint32(n), nil
}
