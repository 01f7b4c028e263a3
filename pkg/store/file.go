package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xhad/columnar/internal/models"
)

const columnsFileName = "columns.json"

// FileStore keeps the ordered column list in a JSON file and rewrites it on
// every change.
type FileStore struct {
	path string
	cols []models.Column
	mu   sync.RWMutex
}

// NewFileStore opens the store at path, or at the default location when path
// is empty. A missing file is an empty configuration.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = filepath.Join(DefaultDir(), columnsFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create column store directory: %w", err)
	}

	s := &FileStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultDir returns XDG_CONFIG_HOME/columnar or ~/.config/columnar
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "columnar")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "columnar")
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading column store: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.cols); err != nil {
		return fmt.Errorf("error parsing column store %s: %w", s.path, err)
	}
	return nil
}

// save writes atomically through a temp file. Callers hold mu.
func (s *FileStore) save() error {
	cols := s.cols
	if cols == nil {
		cols = []models.Column{}
	}
	data, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("error writing column store: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Columns(ctx context.Context) ([]models.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Column, len(s.cols))
	copy(out, s.cols)
	return out, nil
}

func (s *FileStore) AddColumn(ctx context.Context, name, rule string) (models.Column, error) {
	col := newColumn(name, rule)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols = append(s.cols, col)
	if err := s.save(); err != nil {
		s.cols = s.cols[:len(s.cols)-1]
		return models.Column{}, err
	}
	return col, nil
}

func (s *FileStore) UpdateColumn(ctx context.Context, col models.Column) error {
	col = normalize(col)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.cols, col.ID)
	if i == -1 {
		return ErrColumnNotFound
	}
	prev := s.cols[i]
	s.cols[i] = col
	if err := s.save(); err != nil {
		s.cols[i] = prev
		return err
	}
	return nil
}

func (s *FileStore) DeleteColumn(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.cols, id)
	if i == -1 {
		return ErrColumnNotFound
	}
	prev := s.cols
	s.cols = append(append([]models.Column{}, s.cols[:i]...), s.cols[i+1:]...)
	if err := s.save(); err != nil {
		s.cols = prev
		return err
	}
	return nil
}

func (s *FileStore) Close() {}
