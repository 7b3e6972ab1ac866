package pngmsg

import (
	"bytes"
)

// SignatureSize is the size of the PNG file signature in bytes.
const SignatureSize = 8

// Signature is the 8-byte sequence every PNG file starts with.
var Signature = [SignatureSize]byte{137, 80, 78, 71, 13, 10, 26, 10}

// PNG is the outer PNG container: the file signature followed by a sequence
// of chunks. It does not interpret any chunk's data; standard chunks like
// IHDR and IDAT pass through as opaque records, which is all that embedding
// and recovering a message requires.
type PNG struct {
	chunks []*Chunk
}

// NewPNG builds a container from an ordered chunk list.
func NewPNG(chunks []*Chunk) *PNG {
	return &PNG{chunks: chunks}
}

// ParsePNG parses a whole PNG file: the signature, then consecutive chunks
// until the buffer is exhausted. A bad signature fails with
// ErrInvalidSignature; any chunk error aborts the parse.
func ParsePNG(raw []byte) (*PNG, error) {
	if len(raw) < SignatureSize {
		return nil, ErrTruncated.WithDetail("field", "signature")
	}
	if !bytes.Equal(raw[:SignatureSize], Signature[:]) {
		return nil, ErrInvalidSignature
	}

	r := bytes.NewReader(raw[SignatureSize:])
	var chunks []*Chunk
	for r.Len() > 0 {
		chunk, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return &PNG{chunks: chunks}, nil
}

// Chunks returns the container's chunks in file order. The slice is the
// container's own; callers must not modify it.
func (p *PNG) Chunks() []*Chunk {
	return p.chunks
}

// AppendChunk adds a chunk at the end of the container.
//
// Appending after the IEND chunk technically produces a file that strict
// decoders may reject; most viewers ignore trailing chunks, and re-parsing
// with ParsePNG accepts them, so placement is left to the caller.
func (p *PNG) AppendChunk(chunk *Chunk) {
	p.chunks = append(p.chunks, chunk)
}

// ChunkByType returns the first chunk whose type code renders as typeName,
// or nil if no chunk matches.
func (p *PNG) ChunkByType(typeName string) *Chunk {
	for _, chunk := range p.chunks {
		if chunk.Type().String() == typeName {
			return chunk
		}
	}
	return nil
}

// RemoveFirstChunk removes and returns the first chunk whose type code
// renders as typeName. It fails with ErrChunkNotFound when no chunk matches.
func (p *PNG) RemoveFirstChunk(typeName string) (*Chunk, error) {
	for i, chunk := range p.chunks {
		if chunk.Type().String() == typeName {
			p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)
			return chunk, nil
		}
	}
	return nil, ErrChunkNotFound.WithDetail("chunkType", typeName)
}

// Bytes serializes the container to its exact file form: the signature
// followed by each chunk's wire form in order.
func (p *PNG) Bytes() []byte {
	size := SignatureSize
	for _, chunk := range p.chunks {
		size += chunkOverhead + len(chunk.Data())
	}

	out := make([]byte, 0, size)
	out = append(out, Signature[:]...)
	for _, chunk := range p.chunks {
		out = append(out, chunk.Bytes()...)
	}
	return out
}
