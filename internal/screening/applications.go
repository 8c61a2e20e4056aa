package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/archive"
	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/internal/metrics"
	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/scoring"
	"github.com/applyscore/applyscore/pkg/validate"
)

// ApplicationService accepts, scores and reads candidate applications.
type ApplicationService struct {
	apps    store.ApplicationRepository
	jobs    store.JobRepository
	engine  *scoring.Engine
	archive archive.Archive
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewApplicationService creates an ApplicationService. A nil engine uses the
// default weights; archive, metrics and logger may be nil.
func NewApplicationService(
	apps store.ApplicationRepository,
	jobs store.JobRepository,
	engine *scoring.Engine,
	reports archive.Archive,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ApplicationService {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	return &ApplicationService{
		apps:    apps,
		jobs:    jobs,
		engine:  engine,
		archive: reports,
		metrics: m,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

type applicationRequest struct {
	Candidate scoring.Candidate `json:"candidate"`
	Answers   []scoring.Answer  `json:"answers"`
}

// Create scores payload against the job and stores the result. The score is
// computed here, once, and never recomputed.
func (s *ApplicationService) Create(ctx context.Context, jobID string, payload []byte) (*scoring.Application, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "Job", jobID)
	}

	if err := validate.ValidateApplication(payload, job); err != nil {
		s.metrics.ValidationFailed("application")
		return nil, err
	}

	var req applicationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	if req.Answers == nil {
		req.Answers = []scoring.Answer{}
	}

	app := &scoring.Application{
		ID:        uuid.New().String(),
		JobID:     job.ID,
		Candidate: req.Candidate,
		Answers:   req.Answers,
		Score:     s.engine.ScoreApplication(job, req.Answers),
		CreatedAt: stamp(s.now()),
	}

	if err := s.apps.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.archive != nil {
		if err := archive.Store(ctx, s.archive, app); err != nil {
			s.metrics.ArchiveFailed()
			s.logger.Warn("archive score report failed",
				zap.String("application_id", app.ID),
				zap.String("job_id", app.JobID),
				zap.Error(err),
			)
		}
	}

	s.metrics.ObserveScore(job.ID, app.Score)
	s.logger.Info("application created",
		zap.String("application_id", app.ID),
		zap.String("job_id", app.JobID),
		zap.Float64("score", app.Score.Total),
		zap.Float64("max_score", app.Score.MaxTotal),
	)
	return app, nil
}

// Get returns the application with the given id.
func (s *ApplicationService) Get(ctx context.Context, id string) (*scoring.Application, error) {
	app, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application", id)
	}
	return app, nil
}

// ListForJob returns summaries of the job's applications ranked by score.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID string, opts store.ListOptions) ([]store.ApplicationSummary, error) {
	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		return nil, notFound(err, "Job", jobID)
	}

	sums, err := s.apps.ListApplications(ctx, jobID, opts.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return sums, nil
}
