// Package store persists the set of known products as a flat JSON document,
// human-inspectable and safe against partial writes.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StoreWatch/internal/models"
)

// FileStore is the durable mapping from product name to its last-known
// record. The file holds a JSON array of records; callers always pass the
// complete desired set to Save, never a delta.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the JSON document at path. The
// file does not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the full known-product set. A missing file means the store
// has never been written and yields an empty set, not an error. Older
// entries may lack imageId or cachedTime; both unmarshal to zero values.
func (s *FileStore) Load() ([]models.ProductRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ProductRecord{}, nil
		}
		return nil, fmt.Errorf("read store %s: %w", s.Path, err)
	}

	var records []models.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", s.Path, err)
	}
	if records == nil {
		records = []models.ProductRecord{}
	}
	return records, nil
}

// Save replaces the persisted set with records. The document is written to
// a temp file in the same directory and renamed over the target, so a
// crash mid-write never leaves a truncated store behind.
func (s *FileStore) Save(records []models.ProductRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store %s: %w", s.Path, err)
	}
	return nil
}
