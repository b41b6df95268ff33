// Package wasm loads the compiled runtime that genesis embeds as system.code.
package wasm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/klauspost/compress/zstd"
	"github.com/tetratelabs/wazero"
	"github.com/zeebo/blake3"
)

var (
	// ErrRuntimeUnavailable is returned when no runtime image was supplied.
	ErrRuntimeUnavailable = errors.New("runtime wasm binary not available")
	// ErrInvalidRuntime is returned when the image does not compile.
	ErrInvalidRuntime = errors.New("invalid runtime wasm binary")
)

// CompressedMagic prefixes zstd-compressed runtime blobs.
var CompressedMagic = []byte{0x52, 0xBC, 0x53, 0x76, 0x46, 0xDB, 0x8E, 0x05}

// BombLimit caps the decompressed size of a compressed blob.
const BombLimit = 50 * 1024 * 1024

// Image is a validated runtime. Code holds the bytes as supplied, so a
// compressed blob stays compressed in genesis.
type Image struct {
	Code       []byte
	Compressed bool

	hash common.Hash
}

// Hash is the blake3 digest of Code.
func (img *Image) Hash() common.Hash {
	return img.hash
}

// Load reads and validates the runtime at path.
func Load(ctx context.Context, path string) (*Image, error) {
	if path == "" {
		return nil, ErrRuntimeUnavailable
	}
	code, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRuntimeUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read runtime %s: %w", path, err)
	}
	return Parse(ctx, code)
}

// Parse validates an in-memory runtime image.
func Parse(ctx context.Context, code []byte) (*Image, error) {
	if len(code) == 0 {
		return nil, ErrRuntimeUnavailable
	}

	img := &Image{
		Code: append([]byte(nil), code...),
		hash: common.Hash(blake3.Sum256(code)),
	}
	module := code
	if bytes.HasPrefix(code, CompressedMagic) {
		raw, err := decompress(code[len(CompressedMagic):])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRuntime, err)
		}
		module = raw
		img.Compressed = true
	}

	if err := validate(ctx, module); err != nil {
		return nil, err
	}
	return img, nil
}

// Compress wraps code into a magic-prefixed zstd blob.
func Compress(code []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	defer encoder.Close()

	out := append([]byte(nil), CompressedMagic...)
	return encoder.EncodeAll(code, out), nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(BombLimit))
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}

// validate compiles the module without instantiating it.
func validate(ctx context.Context, module []byte) error {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, module)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRuntime, err)
	}
	return compiled.Close(ctx)
}
