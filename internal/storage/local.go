package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore abstracts where uploaded files live so the document service does
// not care about disk layout.
type FileStore interface {
	Save(originalName string, r io.Reader) (storedName string, size int64, err error)
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}

// LocalStore keeps uploads on the local filesystem under a single directory,
// renaming each file to a UUID so uploads can never collide or traverse paths.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(originalName string, r io.Reader) (string, int64, error) {
	storedName := uuid.New().String() + filepath.Ext(filepath.Base(originalName))

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return storedName, size, nil
}

func (s *LocalStore) Open(storedName string) (io.ReadCloser, error) {
	// storedName is always a UUID we generated; Base strips anything else
	return os.Open(filepath.Join(s.dir, filepath.Base(storedName)))
}

func (s *LocalStore) Remove(storedName string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(storedName)))
}
