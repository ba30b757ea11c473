package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// FileBackend stores one file per key in a directory. With compression on,
// values are written as zstd frames; both forms are readable either way.
type FileBackend struct {
	mu       sync.Mutex
	dir      string
	compress bool
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

func NewFileBackend(dir string, compress bool) (*FileBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("empty data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &FileBackend{dir: dir, compress: compress, enc: enc, dec: dec}, nil
}

func (f *FileBackend) path(key string, compressed bool) string {
	name := key + ".json"
	if compressed {
		name += ".zst"
	}
	return filepath.Join(f.dir, name)
}

func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	// The configured form wins; the other one covers a toggled setting.
	for _, compressed := range []bool{f.compress, !f.compress} {
		b, err := os.ReadFile(f.path(key, compressed))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		if !compressed {
			return b, true, nil
		}
		out, err := f.dec.DecodeAll(b, nil)
		if err != nil {
			return nil, false, fmt.Errorf("decompress %s: %w", key, err)
		}
		return out, true, nil
	}
	return nil, false, nil
}

func (f *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.compress {
		value = f.enc.EncodeAll(value, nil)
	}
	dst := f.path(key, f.compress)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return err
	}
	// Drop the other form so a stale copy is never read back.
	_ = os.Remove(f.path(key, !f.compress))
	return nil
}

func (f *FileBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dec.Close()
	return f.enc.Close()
}
