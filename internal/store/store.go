// Package store persists jobs and scored applications. It provides an
// in-memory implementation for development and tests, a SQL implementation
// for Postgres and SQLite, and a read-through cache for immutable jobs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// ErrNotFound is returned when a job or application does not exist.
var ErrNotFound = errors.New("not found")

// JobRepository stores jobs. Jobs are immutable once created.
type JobRepository interface {
	CreateJob(ctx context.Context, job *scoring.Job) error
	GetJob(ctx context.Context, id string) (*scoring.Job, error)
	// ListJobs returns every job, newest first.
	ListJobs(ctx context.Context) ([]*scoring.Job, error)
}

// ApplicationRepository stores scored applications.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *scoring.Application) error
	GetApplication(ctx context.Context, id string) (*scoring.Application, error)
	// ListApplications returns summaries of a job's applications ordered by
	// total score, newest first within equal scores.
	ListApplications(ctx context.Context, jobID string, opts ListOptions) ([]ApplicationSummary, error)
}

// Store is a complete persistence backend.
type Store interface {
	JobRepository
	ApplicationRepository
	Ping(ctx context.Context) error
	Close() error
}

// SortOrder orders application listings by total score.
type SortOrder string

const (
	SortScoreDesc SortOrder = "score_desc"
	SortScoreAsc  SortOrder = "score_asc"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	return s == SortScoreDesc || s == SortScoreAsc
}

// DefaultListLimit is the page size used when none is requested.
const DefaultListLimit = 50

// ListOptions controls ordering and pagination of application listings.
type ListOptions struct {
	Sort   SortOrder
	Limit  int
	Offset int
}

// Normalize fills in defaults: score_desc, limit 50, offset 0. Unknown sort
// orders and non-positive limits fall back to the defaults.
func (o ListOptions) Normalize() ListOptions {
	if !o.Sort.Valid() {
		o.Sort = SortScoreDesc
	}
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// ApplicationSummary is the list view of an application.
type ApplicationSummary struct {
	ID            string    `json:"id"`
	CandidateName string    `json:"candidateName"`
	TotalScore    float64   `json:"totalScore"`
	MaxTotalScore float64   `json:"maxTotalScore"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summarize builds the list view of app.
func Summarize(app *scoring.Application) ApplicationSummary {
	return ApplicationSummary{
		ID:            app.ID,
		CandidateName: app.Candidate.Name,
		TotalScore:    app.Score.Total,
		MaxTotalScore: app.Score.MaxTotal,
		CreatedAt:     app.CreatedAt,
	}
}
