// Package experiments persists named parameter sets as JSON files so a user
// can save a synthesis setup and rerun predictions on it later.
package experiments

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pylimer/polymer-predictor/internal/models"
)

// Experiment is a saved synthesis setup: a title, a free-form note and the
// full prediction request to rerun.
type Experiment struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	CreatedAt   string                    `json:"createdAt"`
	UpdatedAt   string                    `json:"updatedAt"`
	Request     *models.PredictionRequest `json:"request"`
}

// Store handles experiment persistence
type Store struct {
	experimentsDir string
}

// NewStore creates a new experiment store
func NewStore(dataDir string) (*Store, error) {
	experimentsDir := filepath.Join(dataDir, "experiments")
	if err := os.MkdirAll(experimentsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create experiments directory: %w", err)
	}
	return &Store{experimentsDir: experimentsDir}, nil
}

// List returns all experiments sorted by creation date (newest first)
func (s *Store) List() ([]*Experiment, error) {
	entries, err := os.ReadDir(s.experimentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiments directory: %w", err)
	}

	var experiments []*Experiment
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			experiment, err := s.load(entry.Name())
			if err != nil {
				continue // Skip invalid experiments
			}
			experiments = append(experiments, experiment)
		}
	}

	sort.Slice(experiments, func(i, j int) bool {
		return experiments[i].CreatedAt > experiments[j].CreatedAt
	})

	return experiments, nil
}

// Get retrieves an experiment by ID
func (s *Store) Get(id string) (*Experiment, error) {
	return s.load(fmt.Sprintf("%s.json", id))
}

// Create creates a new experiment
func (s *Store) Create(experiment *Experiment) (*Experiment, error) {
	if experiment.Request == nil {
		return nil, fmt.Errorf("experiment needs a prediction request")
	}
	if experiment.Title == "" {
		experiment.Title = experiment.Request.PolymerName
	}

	experiment.ID = uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	experiment.CreatedAt = now
	experiment.UpdatedAt = now

	if err := s.save(experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

// Update updates an existing experiment
func (s *Store) Update(id string, updates *Experiment) (*Experiment, error) {
	experiment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		experiment.Title = updates.Title
	}
	if updates.Description != "" {
		experiment.Description = updates.Description
	}
	if updates.Request != nil {
		experiment.Request = updates.Request
	}
	experiment.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.save(experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

// Delete removes an experiment
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return os.Remove(filepath.Join(s.experimentsDir, fmt.Sprintf("%s.json", id)))
}

// load reads an experiment from disk
func (s *Store) load(filename string) (*Experiment, error) {
	data, err := os.ReadFile(filepath.Join(s.experimentsDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file: %w", err)
	}

	var experiment Experiment
	if err := json.Unmarshal(data, &experiment); err != nil {
		return nil, fmt.Errorf("failed to parse experiment: %w", err)
	}
	return &experiment, nil
}

// save writes an experiment to disk
func (s *Store) save(experiment *Experiment) error {
	data, err := json.MarshalIndent(experiment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal experiment: %w", err)
	}

	filename := filepath.Join(s.experimentsDir, fmt.Sprintf("%s.json", experiment.ID))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write experiment file: %w", err)
	}
	return nil
}
