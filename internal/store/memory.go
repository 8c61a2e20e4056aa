package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// MemoryStore keeps jobs and applications in process memory. Values are
// stored as JSON so that callers can't mutate them after the fact.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]memJob
	apps map[string]memApp
	seq  int
}

type memJob struct {
	seq  int
	data []byte
}

type memApp struct {
	seq     int
	jobID   string
	summary ApplicationSummary
	data    []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]memJob),
		apps: make(map[string]memApp),
	}
}

func (s *MemoryStore) CreateJob(_ context.Context, job *scoring.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("create job %s: already exists", job.ID)
	}
	s.seq++
	s.jobs[job.ID] = memJob{seq: s.seq, data: data}
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id string) (*scoring.Job, error) {
	s.mu.RLock()
	entry, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeJob(entry.data)
}

func (s *MemoryStore) ListJobs(_ context.Context) ([]*scoring.Job, error) {
	s.mu.RLock()
	entries := make([]memJob, 0, len(s.jobs))
	for _, e := range s.jobs {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	jobs := make([]*scoring.Job, 0, len(entries))
	for _, e := range entries {
		job, err := decodeJob(e.data)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *MemoryStore) CreateApplication(_ context.Context, app *scoring.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("encode application %s: %w", app.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[app.JobID]; !ok {
		return fmt.Errorf("create application %s: job %s: %w", app.ID, app.JobID, ErrNotFound)
	}
	if _, exists := s.apps[app.ID]; exists {
		return fmt.Errorf("create application %s: already exists", app.ID)
	}
	s.seq++
	s.apps[app.ID] = memApp{seq: s.seq, jobID: app.JobID, summary: Summarize(app), data: data}
	return nil
}

func (s *MemoryStore) GetApplication(_ context.Context, id string) (*scoring.Application, error) {
	s.mu.RLock()
	entry, ok := s.apps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var app scoring.Application
	if err := json.Unmarshal(entry.data, &app); err != nil {
		return nil, fmt.Errorf("decode application %s: %w", id, err)
	}
	return &app, nil
}

func (s *MemoryStore) ListApplications(_ context.Context, jobID string, opts ListOptions) ([]ApplicationSummary, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	var matches []memApp
	for _, a := range s.apps {
		if a.jobID == jobID {
			matches = append(matches, a)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.summary.TotalScore != b.summary.TotalScore {
			if opts.Sort == SortScoreAsc {
				return a.summary.TotalScore < b.summary.TotalScore
			}
			return a.summary.TotalScore > b.summary.TotalScore
		}
		if !a.summary.CreatedAt.Equal(b.summary.CreatedAt) {
			return a.summary.CreatedAt.After(b.summary.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := []ApplicationSummary{}
	for i := opts.Offset; i < len(matches) && len(out) < opts.Limit; i++ {
		out = append(out, matches[i].summary)
	}
	return out, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func decodeJob(data []byte) (*scoring.Job, error) {
	var job scoring.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}
