package pngmsg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestEmbedExtract(t *testing.T) {
	png := testingPNG(t)
	chunkType, err := ChunkTypeFromString("ruSt")
	if err != nil {
		t.Fatalf("ChunkTypeFromString() error = %v", err)
	}

	payload := []byte("This is where your secret message will be!")
	embedDigest, err := Embed(png, chunkType, payload, nil)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if embedDigest != digest.FromBytes(payload) {
		t.Errorf("Embed() digest = %s, want %s", embedDigest, digest.FromBytes(payload))
	}

	// the embedded chunk survives a serialize/parse cycle
	reparsed, err := ParsePNG(png.Bytes())
	if err != nil {
		t.Fatalf("ParsePNG() error = %v", err)
	}

	recovered, extractDigest, err := Extract(reparsed, "ruSt", false)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !bytes.Equal(recovered, payload) {
		t.Errorf("Extract() = %q, want %q", recovered, payload)
	}
	if extractDigest != embedDigest {
		t.Errorf("Extract() digest = %s, want %s", extractDigest, embedDigest)
	}
}

func TestEmbedExtract_Compressed(t *testing.T) {
	png := testingPNG(t)
	chunkType, err := ChunkTypeFromString("zrSt")
	if err != nil {
		t.Fatalf("ChunkTypeFromString() error = %v", err)
	}

	payload := bytes.Repeat([]byte("a very repetitive secret "), 100)
	embedDigest, err := Embed(png, chunkType, payload, &EmbedOptions{Compress: true})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	// the chunk carries the zlib stream, not the raw payload
	chunk := png.ChunkByType("zrSt")
	if chunk == nil {
		t.Fatal("ChunkByType() returned nil after Embed")
	}
	if bytes.Equal(chunk.Data(), payload) {
		t.Error("chunk data equals raw payload, want compressed stream")
	}
	if int(chunk.Length()) >= len(payload) {
		t.Errorf("compressed chunk length = %d, want < %d", chunk.Length(), len(payload))
	}

	recovered, extractDigest, err := Extract(png, "zrSt", true)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !bytes.Equal(recovered, payload) {
		t.Error("recovered payload differs from the original")
	}
	if extractDigest != embedDigest {
		t.Errorf("Extract() digest = %s, want %s", extractDigest, embedDigest)
	}
}

func TestExtract_NotFound(t *testing.T) {
	png := testingPNG(t)

	_, _, err := Extract(png, "noPe", false)
	if !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("Extract() error = %v, want ErrChunkNotFound", err)
	}
}

func TestExtract_NotAZlibStream(t *testing.T) {
	png := testingPNG(t)

	// FrSt carries plain text; unwrapping it as zlib must fail loudly
	if _, _, err := Extract(png, "FrSt", true); err == nil {
		t.Error("Extract() with decompress on a plain chunk should fail")
	}
}
