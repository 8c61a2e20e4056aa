package screening

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/internal/metrics"
	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/scoring"
	"github.com/applyscore/applyscore/pkg/validate"
)

// JobService creates and reads job postings.
type JobService struct {
	jobs    store.JobRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewJobService creates a JobService. metrics and logger may be nil.
func NewJobService(jobs store.JobRepository, m *metrics.Metrics, logger *zap.Logger) *JobService {
	return &JobService{jobs: jobs, metrics: m, logger: logging.OrNop(logger), now: time.Now}
}

// Create validates payload, assigns ids and a creation time, and stores the job.
// Questions that carry an id keep it.
func (s *JobService) Create(ctx context.Context, payload []byte) (*scoring.Job, error) {
	job, err := validate.ParseJob(payload)
	if err != nil {
		s.metrics.ValidationFailed("job")
		return nil, err
	}

	job.ID = uuid.New().String()
	for i := range job.Questions {
		if job.Questions[i].ID == "" {
			job.Questions[i].ID = uuid.New().String()
		}
	}
	job.CreatedAt = stamp(s.now())

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("job_name", job.JobName),
		zap.Int("questions", len(job.Questions)),
	)
	return job, nil
}

// Get returns the job with the given id.
func (s *JobService) Get(ctx context.Context, id string) (*scoring.Job, error) {
	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job", id)
	}
	return job, nil
}

// List returns every job, newest first.
func (s *JobService) List(ctx context.Context) ([]*scoring.Job, error) {
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// stamp normalizes a creation time to the precision every store keeps.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
