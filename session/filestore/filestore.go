// Package filestore persists the session state as JSON in the client's state
// directory, using the same "auth-storage" document the web client keeps in
// local storage.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-portfolio-client/session"
	"github.com/pkg/errors"
)

// StorageKey is the name of the persisted session document.
const StorageKey = "auth-storage"

const storageVersion = 0

var _ session.Persister = (*FileStore)(nil)

// document mirrors the persisted envelope: {"state": {...}, "version": 0}.
type document struct {
	State   session.Snapshot `json:"state"`
	Version int              `json:"version"`
}

// FileStore is a session.Persister backed by a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// New returns a FileStore writing <dir>/auth-storage.json.
func New(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StorageKey+".json")}
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Load() (session.Snapshot, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return session.Snapshot{}, false, nil
	}
	if err != nil {
		return session.Snapshot{}, false, errors.Wrapf(err, "[FileStore.Load] read %s", fs.path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return session.Snapshot{}, false, errors.Wrapf(err, "[FileStore.Load] decode %s", fs.path)
	}
	if doc.Version != storageVersion {
		return session.Snapshot{}, false, nil
	}
	return doc.State, true, nil
}

func (fs *FileStore) Save(snapshot session.Snapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(document{State: snapshot, Version: storageVersion}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] encode")
	}
	return WriteFileAtomic(fs.path, data)
}

// Clear removes the persisted document.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear]")
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, creating the directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "rename into %s", path)
	}
	return nil
}
