package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/greenleaf/plant-notes/internal/util"
)

// Store writes uploaded files under root/{customer_id}/{note_id}/ with
// generated filenames. The original filename never touches the filesystem;
// only its extension survives, and only when it is on the allow-list.
type Store struct {
	root    string
	allowed map[string]bool
	log     *zap.Logger
}

// Saved describes one file written to disk.
type Saved struct {
	Filename string
	Path     string
	Size     int64
}

func New(root string, allowedExts []string, log *zap.Logger) *Store {
	allowed := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		allowed["."+strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Store{root: root, allowed: allowed, log: log}
}

// Allowed reports whether the file's extension is on the allow-list.
func (s *Store) Allowed(originalName string) bool {
	return s.allowed[strings.ToLower(filepath.Ext(originalName))]
}

// NoteDir returns the upload directory for one note.
func (s *Store) NoteDir(customerID, noteID string) string {
	return filepath.Join(s.root, customerID, noteID)
}

// Save streams src into the note's directory under a fresh ULID filename and
// returns where it landed.
func (s *Store) Save(customerID, noteID, originalName string, src io.Reader) (*Saved, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !s.allowed[ext] {
		return nil, fmt.Errorf("extension %q not allowed", ext)
	}

	dir := s.NoteDir(customerID, noteID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := util.New() + ext
	path := filepath.Join(dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return &Saved{Filename: filename, Path: path, Size: size}, nil
}

// Remove deletes one stored file, best effort: failure is logged, never surfaced.
func (s *Store) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("remove upload failed", zap.String("path", path), zap.Error(err))
	}
}

// RemoveNoteDir deletes a note's whole upload directory, best effort.
func (s *Store) RemoveNoteDir(customerID, noteID string) {
	dir := s.NoteDir(customerID, noteID)
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warn("remove upload dir failed", zap.String("dir", dir), zap.Error(err))
	}
}
