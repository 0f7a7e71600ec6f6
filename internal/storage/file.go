package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File keeps one session as a JSON object of key/value pairs in
// <dir>/<sessionID>.json. Writes replace the file atomically.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(dir, sessionID string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}

	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	if strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return nil, fmt.Errorf("sessionID[%s] is not a valid file name", sessionID)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &File{path: filepath.Join(dir, sessionID+".json")}, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) GetItem(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return "", false, fmt.Errorf("f.read: %w", err)
	}

	value, ok := items[key]
	return value, ok, nil
}

func (f *File) SetItem(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return fmt.Errorf("f.read: %w", err)
	}

	items[key] = value

	if err := f.write(items); err != nil {
		return fmt.Errorf("f.write: %w", err)
	}

	return nil
}

func (f *File) RemoveItem(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return fmt.Errorf("f.read: %w", err)
	}

	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)

	if err := f.write(items); err != nil {
		return fmt.Errorf("f.write: %w", err)
	}

	return nil
}

func (f *File) read() (map[string]string, error) {
	items := make(map[string]string)

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("session file[%s] is not valid: %w", f.path, err)
	}

	return items, nil
}

func (f *File) write(items map[string]string) (err error) {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp.Name()))
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		return errors.Join(fmt.Errorf("tmp.Write: %w", err), tmp.Close())
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
