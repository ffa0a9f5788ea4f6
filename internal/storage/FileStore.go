package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"cpd/internal/providers"
	"cpd/internal/storage/interfaces"
)

var ErrNotFound = interfaces.ErrNotFound

// FileStore keeps every key in memory and rewrites one compressed JSON file on
// each Set, using write-to-temp plus rename so a crash never leaves a torn file.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	data       map[string][]byte
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

type fileSnapshot struct {
	Version int               `json:"version"`
	Entries map[string][]byte `json:"entries"`
}

const fileSnapshotVersion = 1

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileStore, error) {
	fs := &FileStore{
		path:       path,
		data:       make(map[string][]byte),
		compressor: compressor,
		logger:     logger,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("load store %s: %w", path, err)
	}
	return fs, nil
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data[key]
	stored := make([]byte, len(value))
	copy(stored, value)
	f.data[key] = stored

	if err := f.save(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) Close() error {
	f.compressor.Close()
	return nil
}

func (f *FileStore) save() error {
	jsonData, err := json.Marshal(fileSnapshot{Version: fileSnapshotVersion, Entries: f.data})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snapshot fileSnapshot
	if err := json.Unmarshal(decompressed, &snapshot); err != nil {
		return err
	}
	if snapshot.Version != fileSnapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Store %s has version %d, expected %d", f.path, snapshot.Version, fileSnapshotVersion)
	}
	if snapshot.Entries != nil {
		f.data = snapshot.Entries
	}
	f.logger.Infof(providers.TypeApp, "Restored %d keys from %s", len(f.data), f.path)
	return nil
}
