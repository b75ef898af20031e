package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every key in one JSON object on disk. Each write rewrites the
// whole file through a temporary file and a rename, so a crash leaves either
// the old or the new content, never a torn file.
type FileKV struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// NewFileKV opens the store at path. A missing file is an empty store; the
// file is created on the first write.
func NewFileKV(path string) (*FileKV, error) {
	f := &FileKV{path: path, values: map[string]string{}}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.NewFileKV: read %s: %w", path, err)
	}
	if len(b) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(b, &f.values); err != nil {
		return nil, fmt.Errorf("repo.NewFileKV: parse %s: %w", path, err)
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	return f, nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string { return f.path }

// Get implements KV.
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok, nil
}

// Set implements KV.
func (f *FileKV) Set(_ context.Context, key, value string) error {
	return f.mutate("Set", func(m map[string]string) { m[key] = value })
}

// Remove implements KV.
func (f *FileKV) Remove(_ context.Context, key string) error {
	return f.mutate("Remove", func(m map[string]string) { delete(m, key) })
}

// SetMany implements KV. The file is written once for all values.
func (f *FileKV) SetMany(_ context.Context, values map[string]string) error {
	return f.mutate("SetMany", func(m map[string]string) { maps.Copy(m, values) })
}

// mutate applies fn to a copy of the current values, persists the copy and
// only then swaps it in, so a failed write leaves memory and disk agreeing.
func (f *FileKV) mutate(op string, fn func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.values)
	fn(next)
	if err := f.write(next); err != nil {
		return fmt.Errorf("repo.FileKV.%s: %w", op, err)
	}
	f.values = next
	return nil
}

func (f *FileKV) write(values map[string]string) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
