package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pyheal/internal/domain"
)

// Append adds a session to the end of the history file, creating it if needed.
func (s *JSONStorage) Append(session domain.Session) error {
	history, err := s.Load()
	if err != nil {
		return err
	}
	history.Sessions = append(history.Sessions, session)
	return s.SaveHistory(history)
}

// Load reads the session history. A missing file is an empty history.
func (s *JSONStorage) Load() (*domain.History, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &domain.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	var history domain.History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return &history, nil
}

// SaveHistory writes the full history to the configured JSON file.
func (s *JSONStorage) SaveHistory(history *domain.History) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
