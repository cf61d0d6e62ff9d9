// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package task

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Repository is the read-only snapshot accessor used by I/O-bound
// validators. The engine never mutates source files through it.
type Repository interface {
	// ReadFile returns the content of the file at the repo-relative path.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool

	// Walk visits every regular file below root (repo-relative slash
	// paths), in lexical order. Returning an error from fn aborts the
	// walk with that error.
	Walk(fn func(path string) error) error

	// Root returns the absolute repository root.
	Root() string
}

// OSRepository is the filesystem-backed Repository.
type OSRepository struct {
	root string
}

// NewOSRepository creates a snapshot accessor rooted at root.
func NewOSRepository(root string) *OSRepository {
	return &OSRepository{root: root}
}

func (r *OSRepository) Root() string { return r.root }

func (r *OSRepository) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.root, filepath.FromSlash(path)))
}

func (r *OSRepository) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(path)))
	return err == nil
}

func (r *OSRepository) Walk(fn func(path string) error) error {
	return filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// .git is never interesting to validators.
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

// MemRepository is an in-memory Repository used by tests and by callers
// that evaluate a change without a checked-out tree.
type MemRepository struct {
	// Files maps repo-relative slash paths to contents.
	Files map[string]string
}

func (r *MemRepository) Root() string { return "(memory)" }

func (r *MemRepository) ReadFile(path string) ([]byte, error) {
	content, ok := r.Files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func (r *MemRepository) Exists(path string) bool {
	if _, ok := r.Files[path]; ok {
		return true
	}
	// Directory probe: any file below path counts.
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range r.Files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (r *MemRepository) Walk(fn func(path string) error) error {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	// Lexical order matches the OS-backed walk.
	sort.Strings(paths)
	for _, p := range paths {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
