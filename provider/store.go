// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var _ Store = &FileStore{}

// FileStore keeps provider settings in a single JSON document on disk.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the settings document. A missing file is an empty store.
func (f *FileStore) Load() (map[string]Settings, error) {
	bts, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", f.Path, err)
	}

	out := map[string]Settings{}
	if len(bts) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(bts, &out); err != nil {
		return nil, fmt.Errorf("decoding settings file %s: %w", f.Path, err)
	}
	return out, nil
}

// Save replaces the settings document. The new content is written to a temporary file in the same
// directory and renamed over the old one.
func (f *FileStore) Save(settings map[string]Settings) error {
	bts, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(bts); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
