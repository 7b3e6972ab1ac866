package pngmsg

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/opencontainers/go-digest"
)

// EmbedOptions controls how a payload is embedded into a container.
type EmbedOptions struct {
	// Compress wraps the payload in a zlib stream before chunking, the same
	// encoding PNG itself uses for zTXt chunks.
	Compress bool
}

// Embed appends a chunk of the given type carrying payload to the container
// and returns the canonical digest of the raw payload, so callers can record
// exactly what went in.
//
// The chunk type is taken as-is; callers wanting an ignorable private chunk
// should pick an ancillary, private, safe-to-copy code such as "ruSt" and may
// verify their pick with ChunkType.IsValid.
func Embed(p *PNG, chunkType ChunkType, payload []byte, opts *EmbedOptions) (digest.Digest, error) {
	dgst := digest.FromBytes(payload)

	data := payload
	if opts != nil && opts.Compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			zw.Close()
			return "", err
		}
		if err := zw.Close(); err != nil {
			return "", err
		}
		data = buf.Bytes()
	}

	chunk, err := NewChunk(chunkType, data)
	if err != nil {
		return "", err
	}
	p.AppendChunk(chunk)
	return dgst, nil
}

// Extract returns the payload of the first chunk with the given type name,
// along with the digest of the recovered bytes. With decompress set, the
// chunk data is unwrapped from its zlib stream first. A missing chunk fails
// with ErrChunkNotFound.
func Extract(p *PNG, typeName string, decompress bool) ([]byte, digest.Digest, error) {
	chunk := p.ChunkByType(typeName)
	if chunk == nil {
		return nil, "", ErrChunkNotFound.WithDetail("chunkType", typeName)
	}

	payload := chunk.Data()
	if decompress {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, "", err
		}
		defer zr.Close()
		payload, err = io.ReadAll(zr)
		if err != nil {
			return nil, "", err
		}
	}

	return payload, digest.FromBytes(payload), nil
}
