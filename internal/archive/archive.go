// Package archive keeps a copy of every score report in blob storage, keyed
// by job and application.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// ErrNotFound is returned by GetReport when no report was archived.
var ErrNotFound = errors.New("report not found")

// Archive abstracts blob storage for score reports.
type Archive interface {
	PutReport(ctx context.Context, jobID, applicationID string, data []byte) error
	GetReport(ctx context.Context, jobID, applicationID string) ([]byte, error)
}

// Record is the archived document: the report plus enough context to read
// it without the database.
type Record struct {
	ApplicationID string              `json:"applicationId"`
	JobID         string              `json:"jobId"`
	Candidate     scoring.Candidate   `json:"candidate"`
	Score         scoring.ScoreReport `json:"score"`
}

// Store serializes app's score report and writes it to a.
func Store(ctx context.Context, a Archive, app *scoring.Application) error {
	data, err := json.MarshalIndent(Record{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Candidate:     app.Candidate,
		Score:         app.Score,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report %s: %w", app.ID, err)
	}
	return a.PutReport(ctx, app.JobID, app.ID, data)
}

// Load reads and decodes an archived report.
func Load(ctx context.Context, a Archive, jobID, applicationID string) (*Record, error) {
	data, err := a.GetReport(ctx, jobID, applicationID)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", applicationID, err)
	}
	return &rec, nil
}

func reportKey(jobID, applicationID string) string {
	return jobID + "/reports/" + applicationID + ".json"
}

// LocalArchive implements Archive using the local filesystem.
// Useful for development and testing.
type LocalArchive struct {
	BaseDir string
}

// NewLocalArchive creates a LocalArchive rooted at the given directory.
func NewLocalArchive(baseDir string) *LocalArchive {
	return &LocalArchive{BaseDir: baseDir}
}

func (a *LocalArchive) path(jobID, applicationID string) string {
	return filepath.Join(a.BaseDir, jobID, "reports", applicationID+".json")
}

// PutReport stores a report blob.
func (a *LocalArchive) PutReport(_ context.Context, jobID, applicationID string, data []byte) error {
	path := a.path(jobID, applicationID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetReport retrieves a report blob.
func (a *LocalArchive) GetReport(_ context.Context, jobID, applicationID string) ([]byte, error) {
	data, err := os.ReadFile(a.path(jobID, applicationID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
