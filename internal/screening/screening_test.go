package screening

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/applyscore/applyscore/internal/archive"
	"github.com/applyscore/applyscore/internal/metrics"
	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/scoring"
	"github.com/applyscore/applyscore/pkg/validate"
)

const jobPayload = `{
	"title": "Senior Data Engineer",
	"location": "Remote",
	"customer": "LoadUp Inc.",
	"jobName": "senior-data-engineer-remote",
	"description": "Build pipelines",
	"questions": [
		{"id": "q1", "text": "Language?", "type": "single_choice", "options": ["Python", "Go"],
		 "scoring": {"kind": "single_choice", "maxPoints": 10, "correctOption": "Python"}},
		{"id": "q2", "text": "Tools?", "type": "multi_choice", "options": ["Airflow", "Prefect", "Luigi", "Dagster"],
		 "scoring": {"kind": "multi_choice", "maxPoints": 10, "correctOptions": ["Airflow", "Prefect", "Dagster"], "penalizeExtras": true}},
		{"text": "Years?", "type": "number",
		 "scoring": {"kind": "number", "maxPoints": 5, "min": 5, "max": 10}}
	]
}`

type fixture struct {
	jobs    *JobService
	apps    *ApplicationService
	store   *store.MemoryStore
	archive *archive.LocalArchive
	metrics *metrics.Metrics
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 123456789, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemoryStore()
	m := metrics.New()
	reports := archive.NewLocalArchive(t.TempDir())
	logger := zaptest.NewLogger(t)

	f := &fixture{
		jobs:    NewJobService(mem, m, logger),
		apps:    NewApplicationService(mem, mem, scoring.NewEngine(), reports, m, logger),
		store:   mem,
		archive: reports,
		metrics: m,
	}
	f.jobs.now = func() time.Time { return fixedNow }
	f.apps.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) createJob(t *testing.T) *scoring.Job {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), []byte(jobPayload))
	require.NoError(t, err)
	return job
}

func TestJobServiceCreateAssignsIDs(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "q1", job.Questions[0].ID)
	assert.Equal(t, "q2", job.Questions[1].ID)
	assert.NotEmpty(t, job.Questions[2].ID, "question without id should get one")
	assert.NotEqual(t, job.ID, job.Questions[2].ID)
	assert.Equal(t, fixedNow.Truncate(time.Microsecond), job.CreatedAt)

	stored, err := f.jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Questions[2].ID, stored.Questions[2].ID)
}

func TestJobServiceCreateIgnoresClientID(t *testing.T) {
	f := newFixture(t)
	payload := `{"id": "mine", ` + jobPayload[1:]
	job, err := f.jobs.Create(context.Background(), []byte(payload))
	require.NoError(t, err)
	assert.NotEqual(t, "mine", job.ID)
}

func TestJobServiceCreateInvalid(t *testing.T) {
	f := newFixture(t)
	_, err := f.jobs.Create(context.Background(), []byte(`{"title": "x"}`))
	require.Error(t, err)
	assert.True(t, validate.IsValidationError(err))
	assert.Contains(t, validate.Details(err), "location is required")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ValidationFailures.WithLabelValues("job")))

	jobs, err := f.jobs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobServiceCreateMistypedFieldsAreValidationErrors(t *testing.T) {
	const base = `"title":"t","location":"l","customer":"c","jobName":"j","description":"d"`
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name: "non-string option",
			payload: `{` + base + `,"questions":[{"text":"Q","type":"single_choice","options":["A",1],
				"scoring":{"kind":"single_choice","maxPoints":1,"correctOption":"A"}}]}`,
			wantErr: true,
		},
		{
			name: "non-boolean penalizeExtras",
			payload: `{` + base + `,"questions":[{"text":"Q","type":"multi_choice","options":["A"],
				"scoring":{"kind":"multi_choice","maxPoints":1,"correctOptions":["A"],"penalizeExtras":"yes"}}]}`,
			wantErr: true,
		},
		{
			name: "numeric job id",
			payload: `{"id":7,` + base + `,"questions":[{"text":"Q","type":"number",
				"scoring":{"kind":"number","maxPoints":1,"min":0,"max":1}}]}`,
		},
		{
			name: "unparseable createdAt",
			payload: `{"createdAt":"yesterday",` + base + `,"questions":[{"text":"Q","type":"number",
				"scoring":{"kind":"number","maxPoints":1,"min":0,"max":1}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			job, err := f.jobs.Create(context.Background(), []byte(tt.payload))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotEmpty(t, job.ID)
				assert.Equal(t, fixedNow.Truncate(time.Microsecond), job.CreatedAt)
				return
			}
			require.Error(t, err)
			assert.True(t, validate.IsValidationError(err), "got %v", err)
		})
	}
}

func TestJobServiceCreateRejectsInfiniteMaxTotal(t *testing.T) {
	f := newFixture(t)
	payload := `{"title":"t","location":"l","customer":"c","jobName":"j","description":"d","questions":[
		{"text":"Q1","type":"number","scoring":{"kind":"number","maxPoints":1e308,"min":0,"max":1}},
		{"text":"Q2","type":"number","scoring":{"kind":"number","maxPoints":1e308,"min":0,"max":1}}]}`
	_, err := f.jobs.Create(context.Background(), []byte(payload))
	require.Error(t, err)
	assert.Contains(t, validate.Details(err), "questions total maxPoints must be a finite number")
}

func TestJobServiceGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.jobs.Get(context.Background(), "missing")

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "Job", nf.Resource)
	assert.Equal(t, "missing", nf.ID)
	assert.Equal(t, "Job not found", err.Error())
}

func TestApplicationServiceCreateScoresOnce(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)

	payload := `{
		"candidate": {"name": "Bob Smith", "email": "bob@example.com"},
		"answers": [
			{"questionId": "q1", "answer": "Python"},
			{"questionId": "q2", "answer": ["Airflow", "Prefect", "Luigi"]},
			{"questionId": "` + job.Questions[2].ID + `", "answer": 3}
		]
	}`
	app, err := f.apps.Create(context.Background(), job.ID, []byte(payload))
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, job.ID, app.JobID)
	assert.Equal(t, "Bob Smith", app.Candidate.Name)
	assert.Equal(t, 15.33, app.Score.Total)
	assert.Equal(t, 25.0, app.Score.MaxTotal)
	require.Len(t, app.Score.PerQuestion, 3)
	assert.Equal(t, job.Questions[2].ID, app.Score.PerQuestion[2].QuestionID)

	stored, err := f.apps.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.Score, stored.Score)

	rec, err := archive.Load(context.Background(), f.archive, job.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.Score, rec.Score)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ApplicationsScored.WithLabelValues(job.ID)))
}

func TestApplicationServiceCreateUnknownJob(t *testing.T) {
	f := newFixture(t)
	_, err := f.apps.Create(context.Background(), "missing", []byte(`{}`))
	assert.True(t, IsNotFound(err), "got %v", err)
}

func TestApplicationServiceCreateInvalid(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)

	payload := `{
		"candidate": {"name": "Eve", "email": "not-an-email"},
		"answers": [{"questionId": "nope", "answer": "x"}]
	}`
	_, err := f.apps.Create(context.Background(), job.ID, []byte(payload))
	require.Error(t, err)
	assert.Equal(t, []string{
		"candidate.email must be a valid email address",
		`answers[0].questionId "nope" does not exist in this job`,
	}, validate.Details(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ValidationFailures.WithLabelValues("application")))

	sums, err := f.apps.ListForJob(context.Background(), job.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, sums)
}

type failingArchive struct{}

func (failingArchive) PutReport(context.Context, string, string, []byte) error {
	return errors.New("bucket unavailable")
}

func (failingArchive) GetReport(context.Context, string, string) ([]byte, error) {
	return nil, archive.ErrNotFound
}

func TestApplicationServiceArchiveFailureDoesNotFailSubmission(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)
	f.apps.archive = failingArchive{}

	payload := `{"candidate": {"name": "Al", "email": "al@example.com"}, "answers": []}`
	app, err := f.apps.Create(context.Background(), job.ID, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 0.0, app.Score.Total)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ArchiveFailures))

	_, err = f.apps.Get(context.Background(), app.ID)
	assert.NoError(t, err)
}

func TestApplicationServiceGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.apps.Get(context.Background(), "missing")
	require.True(t, IsNotFound(err))
	assert.Equal(t, "Application not found", err.Error())
}

func TestApplicationServiceListForJob(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)
	ctx := context.Background()

	submit := func(name, lang string, at time.Time) string {
		f.apps.now = func() time.Time { return at }
		payload := `{"candidate": {"name": "` + name + `", "email": "c@example.com"},
			"answers": [{"questionId": "q1", "answer": "` + lang + `"}]}`
		app, err := f.apps.Create(ctx, job.ID, []byte(payload))
		require.NoError(t, err)
		return app.ID
	}
	low := submit("Low", "Go", fixedNow)
	firstHigh := submit("High1", "Python", fixedNow.Add(time.Minute))
	secondHigh := submit("High2", "Python", fixedNow.Add(2*time.Minute))

	ids := func(sums []store.ApplicationSummary) []string {
		var out []string
		for _, s := range sums {
			out = append(out, s.ID)
		}
		return out
	}

	desc, err := f.apps.ListForJob(ctx, job.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{secondHigh, firstHigh, low}, ids(desc))
	assert.Equal(t, 10.0, desc[0].TotalScore)
	assert.Equal(t, 25.0, desc[0].MaxTotalScore)

	asc, err := f.apps.ListForJob(ctx, job.ID, store.ListOptions{Sort: store.SortScoreAsc, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{low, secondHigh}, ids(asc))

	_, err = f.apps.ListForJob(ctx, "missing", store.ListOptions{})
	assert.True(t, IsNotFound(err))
}

func TestApplicationServicePenaltyFromEngine(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)
	f.apps.engine = scoring.NewEngine(scoring.WithExtraSelectionPenalty(0.5))

	payload := `{"candidate": {"name": "Bob", "email": "bob@example.com"},
		"answers": [{"questionId": "q2", "answer": ["Airflow", "Prefect", "Luigi"]}]}`
	app, err := f.apps.Create(context.Background(), job.ID, []byte(payload))
	require.NoError(t, err)
	// 2/3 of 10 with a 0.5 penalty.
	assert.Equal(t, 3.33, app.Score.Total)
}
