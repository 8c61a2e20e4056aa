package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/scoring"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testJob(id string, created time.Time) *scoring.Job {
	minRatio := 0.4
	return &scoring.Job{
		ID:          id,
		Title:       "Senior Data Engineer",
		Location:    "Remote",
		Customer:    "LoadUp Inc.",
		JobName:     "senior-data-engineer-remote",
		Description: "Build pipelines",
		CreatedAt:   created,
		Questions: []scoring.Question{
			{ID: "q1", Text: "Language?", Type: scoring.TypeSingleChoice, Options: []string{"Python", "Go"},
				Scoring: scoring.Scoring{Rule: scoring.SingleChoiceRule{MaxPoints: 10, CorrectOption: "Python"}}},
			{ID: "q2", Text: "Tools?", Type: scoring.TypeMultiChoice, Options: []string{"Airflow", "Prefect", "Luigi"},
				Scoring: scoring.Scoring{Rule: scoring.MultiChoiceRule{MaxPoints: 15, CorrectOptions: []string{"Airflow", "Prefect"}, PenalizeExtras: true}}},
			{ID: "q3", Text: "Years?", Type: scoring.TypeNumber,
				Scoring: scoring.Scoring{Rule: scoring.NumericRangeRule{MaxPoints: 10, Min: 5, Max: 15}}},
			{ID: "q4", Text: "Describe", Type: scoring.TypeText,
				Scoring: scoring.Scoring{Rule: scoring.KeywordTextRule{MaxPoints: 20, Keywords: []string{"ETL"}, MinimumMatchRatio: &minRatio}}},
		},
	}
}

func testApplication(id, jobID, name string, total float64, created time.Time) *scoring.Application {
	return &scoring.Application{
		ID:        id,
		JobID:     jobID,
		Candidate: scoring.Candidate{Name: name, Email: "x@example.com"},
		Answers: []scoring.Answer{
			{QuestionID: "q1", Answer: scoring.StringValue("Python")},
			{QuestionID: "q2", Answer: scoring.StringsValue("Airflow")},
			{QuestionID: "q3", Answer: scoring.NumberValue(7)},
		},
		Score: scoring.ScoreReport{
			Total:       total,
			MaxTotal:    55,
			PerQuestion: []scoring.QuestionScore{{QuestionID: "q1", Awarded: total, Max: 55, Reason: "Matched correct option"}},
		},
		CreatedAt: created,
	}
}

// runStoreContract exercises behaviour every Store implementation shares.
func runStoreContract(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("jobs round trip", func(t *testing.T) {
		job := testJob("job-a", epoch)
		require.NoError(t, s.CreateJob(ctx, job))

		got, err := s.GetJob(ctx, "job-a")
		require.NoError(t, err)
		assert.Equal(t, job.Title, got.Title)
		assert.Equal(t, job.JobName, got.JobName)
		assert.True(t, job.CreatedAt.Equal(got.CreatedAt))
		require.Len(t, got.Questions, 4)

		rule, ok := got.Questions[3].Scoring.Rule.(scoring.KeywordTextRule)
		require.True(t, ok, "expected KeywordTextRule, got %T", got.Questions[3].Scoring.Rule)
		require.NotNil(t, rule.MinimumMatchRatio)
		assert.Equal(t, 0.4, *rule.MinimumMatchRatio)

		mc, ok := got.Questions[1].Scoring.Rule.(scoring.MultiChoiceRule)
		require.True(t, ok)
		assert.True(t, mc.PenalizeExtras)
	})

	t.Run("missing job", func(t *testing.T) {
		_, err := s.GetJob(ctx, "nope")
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("jobs listed newest first", func(t *testing.T) {
		require.NoError(t, s.CreateJob(ctx, testJob("job-b", epoch.Add(time.Hour))))
		jobs, err := s.ListJobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, "job-b", jobs[0].ID)
		assert.Equal(t, "job-a", jobs[1].ID)
	})

	t.Run("applications round trip", func(t *testing.T) {
		app := testApplication("app-1", "job-a", "Alice", 42.5, epoch.Add(time.Minute))
		require.NoError(t, s.CreateApplication(ctx, app))

		got, err := s.GetApplication(ctx, "app-1")
		require.NoError(t, err)
		assert.Equal(t, "job-a", got.JobID)
		assert.Equal(t, app.Candidate, got.Candidate)
		assert.Equal(t, app.Score, got.Score)
		require.Len(t, got.Answers, 3)
		sel, ok := got.Answers[1].Answer.Strings()
		assert.True(t, ok)
		assert.Equal(t, []string{"Airflow"}, sel)
		n, ok := got.Answers[2].Answer.Number()
		assert.True(t, ok)
		assert.Equal(t, 7.0, n)
	})

	t.Run("missing application", func(t *testing.T) {
		_, err := s.GetApplication(ctx, "nope")
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("listing order and pagination", func(t *testing.T) {
		// app-1 (42.5) already exists for job-a.
		for _, a := range []*scoring.Application{
			testApplication("app-2", "job-a", "Bob", 10, epoch.Add(2*time.Minute)),
			testApplication("app-3", "job-a", "Carol", 42.5, epoch.Add(3*time.Minute)),
			testApplication("app-4", "job-a", "Dan", 55, epoch.Add(4*time.Minute)),
			testApplication("app-5", "job-b", "Eve", 50, epoch.Add(5*time.Minute)),
		} {
			require.NoError(t, s.CreateApplication(ctx, a))
		}

		ids := func(sums []store.ApplicationSummary) []string {
			out := make([]string, len(sums))
			for i, s := range sums {
				out[i] = s.ID
			}
			return out
		}

		desc, err := s.ListApplications(ctx, "job-a", store.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"app-4", "app-3", "app-1", "app-2"}, ids(desc))
		assert.Equal(t, "Dan", desc[0].CandidateName)
		assert.Equal(t, 55.0, desc[0].MaxTotalScore)

		asc, err := s.ListApplications(ctx, "job-a", store.ListOptions{Sort: store.SortScoreAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"app-2", "app-3", "app-1", "app-4"}, ids(asc))

		page, err := s.ListApplications(ctx, "job-a", store.ListOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"app-3", "app-1"}, ids(page))

		past, err := s.ListApplications(ctx, "job-a", store.ListOptions{Offset: 10})
		require.NoError(t, err)
		assert.NotNil(t, past)
		assert.Empty(t, past)

		none, err := s.ListApplications(ctx, "job-unknown", store.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}
