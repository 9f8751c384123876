package dashboard

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rainmakercorp/brand-pulse/internal/models"
	"github.com/rainmakercorp/brand-pulse/internal/storage"
)

// Store persists the dashboard document through the storage backend. The
// document is written in a single Store call, so a run that fails before
// Save leaves the previous document untouched.
type Store struct {
	backend  storage.StorageInterface
	filename string
}

// NewStore creates a dashboard store writing to the given filename.
func NewStore(backend storage.StorageInterface, filename string) *Store {
	return &Store{backend: backend, filename: filename}
}

// Load reads the persisted document. A missing or unreadable document starts
// an empty one rather than failing the run; the first pipeline run has
// nothing to read.
func (s *Store) Load() *models.DashboardDocument {
	doc := &models.DashboardDocument{
		Scores:      []models.ScoreRecord{},
		TopMentions: []models.TopMention{},
	}

	data, err := s.backend.Retrieve(s.filename)
	if err != nil {
		logrus.Warnf("No existing dashboard document (%v), starting fresh", err)
		return doc
	}

	if err := json.Unmarshal(data, doc); err != nil {
		logrus.Warnf("Failed to parse existing dashboard document, starting fresh: %v", err)
		return &models.DashboardDocument{
			Scores:      []models.ScoreRecord{},
			TopMentions: []models.TopMention{},
		}
	}

	return doc
}

// Save writes the document atomically through the backend.
func (s *Store) Save(doc *models.DashboardDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard document: %w", err)
	}

	if err := s.backend.Store(s.filename, data); err != nil {
		return fmt.Errorf("failed to store dashboard document: %w", err)
	}

	logrus.Infof("Dashboard document updated: %s", s.filename)
	return nil
}
