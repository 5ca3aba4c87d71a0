package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each document in its own file under Dir.
type FileStore struct {
	// Dir is the directory holding the documents.
	Dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.Dir, filepath.Base(name))
}

// Read returns the contents of the document file.
func (fs *FileStore) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write replaces the document atomically: the data goes to a temporary file
// in the same directory which is synced and then renamed over the target.
func (fs *FileStore) Write(_ context.Context, name string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(fs.Dir, filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	tmpName := tmp.Name()
	tmp = nil
	if err := os.Rename(tmpName, fs.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (fs *FileStore) Close() error {
	return nil
}
