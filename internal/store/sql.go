package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// SQLStore persists jobs and applications in a relational database. Queries
// use $n placeholders, which lib/pq, pgx and modernc sqlite all accept.
// Structured fields (questions, answers, score) are stored as JSON documents;
// the score totals are copied into columns so listings can sort in SQL.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB returns the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) CreateJob(ctx context.Context, job *scoring.Job) error {
	questions, err := json.Marshal(job.Questions)
	if err != nil {
		return errors.Wrapf(err, "encode questions for job %s", job.ID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, location, customer, job_name, description, questions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.Title, job.Location, job.Customer, job.JobName, job.Description,
		string(questions), job.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return errors.Wrapf(err, "insert job %s", job.ID)
	}
	return nil
}

func (s *SQLStore) GetJob(ctx context.Context, id string) (*scoring.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, location, customer, job_name, description, questions, created_at
		 FROM jobs WHERE id = $1`,
		id,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get job %s", id)
	}
	return job, nil
}

func (s *SQLStore) ListJobs(ctx context.Context) ([]*scoring.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, location, customer, job_name, description, questions, created_at
		 FROM jobs ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	defer rows.Close()

	jobs := []*scoring.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, job)
	}
	return jobs, errors.Wrap(rows.Err(), "list jobs")
}

func (s *SQLStore) CreateApplication(ctx context.Context, app *scoring.Application) error {
	answers, err := json.Marshal(app.Answers)
	if err != nil {
		return errors.Wrapf(err, "encode answers for application %s", app.ID)
	}
	score, err := json.Marshal(app.Score)
	if err != nil {
		return errors.Wrapf(err, "encode score for application %s", app.ID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, candidate_name, candidate_email, answers, score,
		                           total_score, max_total_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.JobID, app.Candidate.Name, app.Candidate.Email, string(answers), string(score),
		app.Score.Total, app.Score.MaxTotal, app.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return errors.Wrapf(err, "insert application %s", app.ID)
	}
	return nil
}

func (s *SQLStore) GetApplication(ctx context.Context, id string) (*scoring.Application, error) {
	var (
		app             scoring.Application
		answers, score  string
		createdAtMicros int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, job_id, candidate_name, candidate_email, answers, score, created_at
		 FROM applications WHERE id = $1`,
		id,
	).Scan(&app.ID, &app.JobID, &app.Candidate.Name, &app.Candidate.Email, &answers, &score, &createdAtMicros)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get application %s", id)
	}

	if err := json.Unmarshal([]byte(answers), &app.Answers); err != nil {
		return nil, errors.Wrapf(err, "decode answers of application %s", id)
	}
	if err := json.Unmarshal([]byte(score), &app.Score); err != nil {
		return nil, errors.Wrapf(err, "decode score of application %s", id)
	}
	app.CreatedAt = fromMicros(createdAtMicros)
	return &app, nil
}

func (s *SQLStore) ListApplications(ctx context.Context, jobID string, opts ListOptions) ([]ApplicationSummary, error) {
	opts = opts.Normalize()

	query := `SELECT id, candidate_name, total_score, max_total_score, created_at
		 FROM applications WHERE job_id = $1
		 ORDER BY total_score DESC, created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`
	if opts.Sort == SortScoreAsc {
		query = `SELECT id, candidate_name, total_score, max_total_score, created_at
		 FROM applications WHERE job_id = $1
		 ORDER BY total_score ASC, created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`
	}

	rows, err := s.db.QueryContext(ctx, query, jobID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, errors.Wrapf(err, "list applications for job %s", jobID)
	}
	defer rows.Close()

	out := []ApplicationSummary{}
	for rows.Next() {
		var (
			sum    ApplicationSummary
			micros int64
		)
		if err := rows.Scan(&sum.ID, &sum.CandidateName, &sum.TotalScore, &sum.MaxTotalScore, &micros); err != nil {
			return nil, errors.Wrap(err, "scan application summary")
		}
		sum.CreatedAt = fromMicros(micros)
		out = append(out, sum)
	}
	return out, errors.Wrapf(rows.Err(), "list applications for job %s", jobID)
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (*scoring.Job, error) {
	var (
		job       scoring.Job
		questions string
		micros    int64
	)
	if err := r.Scan(&job.ID, &job.Title, &job.Location, &job.Customer, &job.JobName,
		&job.Description, &questions, &micros); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questions), &job.Questions); err != nil {
		return nil, errors.Wrapf(err, "decode questions of job %s", job.ID)
	}
	job.CreatedAt = fromMicros(micros)
	return &job, nil
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}
