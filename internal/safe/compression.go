// internal/safe/compression.go
package safe

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// CompressionOptions configures compression behavior
type CompressionOptions struct {
	// Minimum size in bytes before compressing
	MinSize int
	// zstd compression level
	Level int
}

// DefaultCompressionOptions provides sensible defaults
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		MinSize: 1024, // 1KB
		Level:   3,    // zstd default
	}
}

// compressionManager handles compression operations. zstd encoders and
// decoders are safe for concurrent EncodeAll/DecodeAll calls.
type compressionManager struct {
	opts CompressionOptions
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

func newCompressionManager(opts CompressionOptions) (*compressionManager, error) {
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultCompressionOptions().MinSize
	}
	if opts.Level <= 0 {
		opts.Level = DefaultCompressionOptions().Level
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.Level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("creating encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
	)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	return &compressionManager{opts: opts, enc: enc, dec: dec}, nil
}

// compress returns the bytes to write and whether they are compressed.
// Content below MinSize, or that does not shrink, is stored as is.
func (cm *compressionManager) compress(content []byte) ([]byte, bool) {
	if len(content) < cm.opts.MinSize {
		return content, false
	}

	out := cm.enc.EncodeAll(content, make([]byte, 0, len(content)/2))
	if len(out) >= len(content) {
		return content, false
	}
	return out, true
}

// decompress decompresses content
func (cm *compressionManager) decompress(content []byte) ([]byte, error) {
	if len(content) < len(zstdMagic) || !bytes.Equal(content[:len(zstdMagic)], zstdMagic) {
		return nil, fmt.Errorf("content is not zstd compressed")
	}
	out, err := cm.dec.DecodeAll(content, nil)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return out, nil
}

func (cm *compressionManager) close() {
	cm.enc.Close()
	cm.dec.Close()
}
