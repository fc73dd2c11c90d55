// Package jsonstore persists a collection as a single JSON array document.
//
// Every mutation reads the whole document, applies a change in memory and
// rewrites the whole file. Writes go through a temp file and a rename so a
// reader never sees a half-written document. Writers inside one process are
// serialised; separate processes sharing the file still race (last write wins).
package jsonstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// Document is a JSON array of T stored at a fixed path.
type Document[T any] struct {
	path string
	mu   sync.Mutex
}

// New returns a document for path. The file is created lazily on first write.
func New[T any](path string) *Document[T] {
	return &Document[T]{path: path}
}

// Path returns the file location.
func (d *Document[T]) Path() string {
	return d.path
}

// Read returns the current contents. A missing or empty file is an empty collection.
func (d *Document[T]) Read() ([]T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

// Update loads the collection, passes it to fn and persists whatever fn returns.
// When fn returns an error nothing is written and the error is returned as is.
func (d *Document[T]) Update(fn func(items []T) ([]T, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	items, err := d.load()
	if err != nil {
		return err
	}

	updated, err := fn(items)
	if err != nil {
		return err
	}

	return d.save(updated)
}

func (d *Document[T]) load() ([]T, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (d *Document[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", d.path, err)
	}

	tmpFile := d.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
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

	return os.Rename(tmpFile, d.path)
}
