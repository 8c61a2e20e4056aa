package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/applyscore/applyscore/pkg/scoring"
)

func TestLocalArchivePutGetReport(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalArchive(dir)
	ctx := context.Background()

	data := []byte(`{"total":10}`)
	if err := a.PutReport(ctx, "job1", "app1", data); err != nil {
		t.Fatalf("PutReport: %v", err)
	}

	got, err := a.GetReport(ctx, "job1", "app1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetReport = %q, want %q", got, data)
	}

	expectedPath := filepath.Join(dir, "job1", "reports", "app1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalArchiveGetNotFound(t *testing.T) {
	a := NewLocalArchive(t.TempDir())

	_, err := a.GetReport(context.Background(), "job1", "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreAndLoad(t *testing.T) {
	a := NewLocalArchive(t.TempDir())
	ctx := context.Background()

	app := &scoring.Application{
		ID:        "app1",
		JobID:     "job1",
		Candidate: scoring.Candidate{Name: "Alice", Email: "alice@example.com"},
		Score: scoring.ScoreReport{
			Total:    7.5,
			MaxTotal: 10,
			PerQuestion: []scoring.QuestionScore{
				{QuestionID: "q1", Awarded: 7.5, Max: 10, Reason: "Matched 3/4 correct options"},
			},
		},
	}
	if err := Store(ctx, a, app); err != nil {
		t.Fatalf("Store: %v", err)
	}

	rec, err := Load(ctx, a, "job1", "app1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.ApplicationID != "app1" || rec.JobID != "job1" {
		t.Errorf("expected app1/job1, got %s/%s", rec.ApplicationID, rec.JobID)
	}
	if rec.Candidate.Name != "Alice" {
		t.Errorf("expected candidate Alice, got %q", rec.Candidate.Name)
	}
	if rec.Score.Total != 7.5 || len(rec.Score.PerQuestion) != 1 {
		t.Errorf("unexpected score: %+v", rec.Score)
	}
}

func TestLoadCorruptReport(t *testing.T) {
	a := NewLocalArchive(t.TempDir())
	ctx := context.Background()

	if err := a.PutReport(ctx, "job1", "app1", []byte("{")); err != nil {
		t.Fatalf("PutReport: %v", err)
	}
	if _, err := Load(ctx, a, "job1", "app1"); err == nil {
		t.Error("expected decode error for corrupt report")
	}
}

func TestRemoteArchivesRequireBucket(t *testing.T) {
	ctx := context.Background()
	if _, err := NewS3Archive(ctx, S3Config{Region: "us-east-1"}); err == nil {
		t.Error("expected error for S3 archive without bucket")
	}
	if _, err := NewGCSArchive(ctx, ""); err == nil {
		t.Error("expected error for GCS archive without bucket")
	}
}
