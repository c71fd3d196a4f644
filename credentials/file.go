package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the name of the credentials file within a profile directory.
const FileName = "credentials.json"

// NewFile creates a Medium persisted as a JSON document in the given profile
// directory. The directory is created on first write.
func NewFile(dir string) *File {
	return &File{
		lock: new(sync.Mutex),
		path: filepath.Join(dir, FileName),
	}
}

// File is a Medium that survives process restarts, scoped to one profile
// directory. It is not encrypted; the file is created with mode 0600.
//
// Writes replace the file atomically, so a concurrent reader in another
// process sees either the old or the new pair, never a torn document.
type File struct {
	lock *sync.Mutex
	path string
}

// Path returns the location of the credentials file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(_ context.Context, slot string) (string, bool, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	data, err := f.read()
	if err != nil {
		return "", false, err
	}

	value, exists := data[slot]
	return value, exists, nil
}

func (f *File) Save(_ context.Context, slot, value string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}

	data[slot] = value
	return f.write(data)
}

func (f *File) Delete(_ context.Context, slot string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}

	// nothing to do; avoid creating the file just to store nothing
	if _, exists := data[slot]; !exists {
		return nil
	}

	delete(data, slot)
	return f.write(data)
}

func (f *File) read() (map[string]string, error) {
	b, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return make(map[string]string, 2), nil
	case err != nil:
		return nil, fmt.Errorf("credentials: read %s: %w", f.path, err)
	}

	data := make(map[string]string, 2)
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("credentials: decode %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credentials: create profile dir: %w", err)
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("credentials: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("credentials: create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credentials: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credentials: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credentials: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("credentials: replace %s: %w", f.path, err)
	}
	return nil
}
