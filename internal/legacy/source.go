// Package legacy migrates data from the old flat key/value storage format into
// the structured store.
package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Source is read-only access to the legacy key/value storage. Each value is a
// serialized JSON document.
type Source interface {
	Get(key string) (value string, ok bool, err error)
}

// FileSource reads a legacy storage dump: one JSON object mapping each key to
// its serialized value. A missing file holds no keys.
type FileSource struct {
	path string

	once  sync.Once
	items map[string]string
	err   error
}

// NewFileSource returns a Source backed by the dump at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Get(key string) (string, bool, error) {
	f.once.Do(f.load)
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.items[key]
	return v, ok, nil
}

func (f *FileSource) load() {
	f.items = map[string]string{}
	if f.path == "" {
		return
	}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		f.err = fmt.Errorf("read legacy file: %w", err)
		return
	}
	if err := json.Unmarshal(b, &f.items); err != nil {
		f.err = fmt.Errorf("parse legacy file: %w", err)
	}
}

// MapSource is an in-memory Source.
type MapSource map[string]string

func (m MapSource) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}
