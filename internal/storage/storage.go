package storage

import (
	"pyheal/internal/config"
	"pyheal/internal/domain"
)

// Storage persists and loads the invoke session history (e.g. for the report viewer).
type Storage interface {
	Append(session domain.Session) error
	Load() (*domain.History, error)
	// SaveHistory writes the full history (e.g. after the viewer deletes entries).
	SaveHistory(history *domain.History) error
}

// JSONStorage stores the history in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
