// Package seed loads sample jobs and scored candidate applications for demos
// and local development.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/scoring"
)

func ratio(v float64) *float64 { return &v }

// Jobs returns the sample job postings. Job IDs and creation times are left
// empty; Run assigns them.
func Jobs() []*scoring.Job {
	return []*scoring.Job{
		{
			Title:       "Senior Data Engineer",
			Location:    "Remote",
			Customer:    "LoadUp Inc.",
			JobName:     "senior-data-engineer-remote",
			Description: "Build and maintain scalable data pipelines for processing millions of records daily. Work with cutting-edge tools in the data ecosystem.",
			Questions: []scoring.Question{
				singleChoice("q1", "What is your primary programming language for data engineering?",
					[]string{"Python", "Scala", "Java", "Go"}, 10, "Python"),
				multiChoice("q2", "Which data orchestration tools are you proficient with?",
					[]string{"Airflow", "Prefect", "Dagster", "Luigi", "Argo"}, 15, []string{"Airflow", "Prefect"}, true),
				numberRange("q3", "How many years of professional data engineering experience do you have?", 10, 5, 15),
				keywordText("q4", "Describe your experience with data pipeline design and ETL processes.", 20,
					[]string{"ETL", "pipeline", "data warehouse", "streaming", "batch processing"}, ratio(0.4)),
				multiChoice("q5", "Which cloud platforms have you worked with?",
					[]string{"AWS", "Azure", "GCP", "DigitalOcean"}, 10, []string{"AWS", "GCP"}, false),
			},
		},
		{
			Title:       "Frontend Developer",
			Location:    "San Francisco, CA",
			Customer:    "TechCorp",
			JobName:     "frontend-developer-sf",
			Description: "Join our team to build beautiful, responsive user interfaces using modern web technologies.",
			Questions: []scoring.Question{
				singleChoice("q1", "What is your preferred frontend framework?",
					[]string{"React", "Vue", "Angular", "Svelte"}, 10, "React"),
				multiChoice("q2", "Which state management solutions have you used?",
					[]string{"Redux", "MobX", "Zustand", "Recoil", "Context API"}, 15, []string{"Redux", "Zustand"}, false),
				numberRange("q3", "Years of React experience?", 10, 3, 10),
				keywordText("q4", "Describe your approach to building accessible and performant web applications.", 15,
					[]string{"accessibility", "performance", "optimization", "responsive", "user experience"}, ratio(0.3)),
			},
		},
		{
			Title:       "DevOps Engineer",
			Location:    "New York, NY",
			Customer:    "CloudScale",
			JobName:     "devops-engineer-ny",
			Description: "Maintain and improve our cloud infrastructure, CI/CD pipelines, and monitoring systems.",
			Questions: []scoring.Question{
				singleChoice("q1", "What is your primary container orchestration platform?",
					[]string{"Kubernetes", "Docker Swarm", "ECS", "Nomad"}, 15, "Kubernetes"),
				multiChoice("q2", "Which Infrastructure as Code tools do you use?",
					[]string{"Terraform", "CloudFormation", "Pulumi", "Ansible", "Chef"}, 20, []string{"Terraform", "Ansible"}, true),
				numberRange("q3", "Years of DevOps experience?", 10, 4, 12),
				keywordText("q4", "Explain your experience with CI/CD pipelines and deployment strategies.", 15,
					[]string{"CI/CD", "deployment", "automation", "monitoring", "Jenkins", "GitLab"}, ratio(0.33)),
			},
		},
	}
}

func singleChoice(id, text string, options []string, points float64, correct string) scoring.Question {
	return scoring.Question{ID: id, Text: text, Type: scoring.TypeSingleChoice, Options: options,
		Scoring: scoring.Scoring{Rule: scoring.SingleChoiceRule{MaxPoints: points, CorrectOption: correct}}}
}

func multiChoice(id, text string, options []string, points float64, correct []string, penalize bool) scoring.Question {
	return scoring.Question{ID: id, Text: text, Type: scoring.TypeMultiChoice, Options: options,
		Scoring: scoring.Scoring{Rule: scoring.MultiChoiceRule{MaxPoints: points, CorrectOptions: correct, PenalizeExtras: penalize}}}
}

func numberRange(id, text string, points, lo, hi float64) scoring.Question {
	return scoring.Question{ID: id, Text: text, Type: scoring.TypeNumber,
		Scoring: scoring.Scoring{Rule: scoring.NumericRangeRule{MaxPoints: points, Min: lo, Max: hi}}}
}

func keywordText(id, text string, points float64, keywords []string, minRatio *float64) scoring.Question {
	return scoring.Question{ID: id, Text: text, Type: scoring.TypeText,
		Scoring: scoring.Scoring{Rule: scoring.KeywordTextRule{MaxPoints: points, Keywords: keywords, MinimumMatchRatio: minRatio}}}
}

// Profile is a sample candidate: who they are, how long ago they applied
// and how they answer a given job.
type Profile struct {
	Candidate scoring.Candidate
	Age       time.Duration
	Answer    func(job *scoring.Job) []scoring.Answer
}

// Profiles returns the sample candidates, from a perfect fit to an
// incomplete application.
func Profiles() []Profile {
	return []Profile{
		{candidate("Alice Johnson"), 24 * time.Hour, perfectAnswers},
		{candidate("Bob Smith"), 12 * time.Hour, partialAnswers},
		{candidate("Carol Williams"), 6 * time.Hour, averageAnswers},
		{candidate("David Brown"), 2 * time.Hour, weakAnswers},
		{candidate("Eve Martinez"), 30 * time.Minute, incompleteAnswers},
	}
}

func candidate(name string) scoring.Candidate {
	return scoring.Candidate{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
	}
}

func perfectAnswers(job *scoring.Job) []scoring.Answer {
	return mapAnswers(job.Questions, func(_ int, q scoring.Question) scoring.Value {
		switch r := q.Scoring.Rule.(type) {
		case scoring.SingleChoiceRule:
			return scoring.StringValue(r.CorrectOption)
		case scoring.MultiChoiceRule:
			return scoring.StringsValue(r.CorrectOptions...)
		case scoring.NumericRangeRule:
			return scoring.NumberValue(r.Min + 2)
		case scoring.KeywordTextRule:
			return scoring.StringValue(fmt.Sprintf(
				"I have extensive experience with %s. I've worked on multiple projects involving these technologies.",
				strings.Join(r.Keywords, ", ")))
		}
		return scoring.Value{}
	})
}

func partialAnswers(job *scoring.Job) []scoring.Answer {
	return mapAnswers(job.Questions, func(i int, q scoring.Question) scoring.Value {
		switch r := q.Scoring.Rule.(type) {
		case scoring.SingleChoiceRule:
			if i == 0 {
				return scoring.StringValue(r.CorrectOption)
			}
			return scoring.StringValue(q.Options[1])
		case scoring.MultiChoiceRule:
			return scoring.StringsValue(r.CorrectOptions[0])
		case scoring.NumericRangeRule:
			return scoring.NumberValue(r.Min)
		case scoring.KeywordTextRule:
			n := min(2, len(r.Keywords))
			return scoring.StringValue(fmt.Sprintf("I have worked with %s in my previous roles.",
				strings.Join(r.Keywords[:n], " and ")))
		}
		return scoring.Value{}
	})
}

func averageAnswers(job *scoring.Job) []scoring.Answer {
	return mapAnswers(job.Questions, func(i int, q scoring.Question) scoring.Value {
		switch r := q.Scoring.Rule.(type) {
		case scoring.SingleChoiceRule:
			return scoring.StringValue(q.Options[i%len(q.Options)])
		case scoring.MultiChoiceRule:
			if i == 0 {
				return scoring.StringsValue(r.CorrectOptions...)
			}
			return scoring.StringsValue(q.Options[0], q.Options[len(q.Options)-1])
		case scoring.NumericRangeRule:
			return scoring.NumberValue(r.Min - 1)
		case scoring.KeywordTextRule:
			return scoring.StringValue("I have some experience with these technologies.")
		}
		return scoring.Value{}
	})
}

func weakAnswers(job *scoring.Job) []scoring.Answer {
	questions := job.Questions[:max(1, len(job.Questions)-1)]
	return mapAnswers(questions, func(_ int, q scoring.Question) scoring.Value {
		switch r := q.Scoring.Rule.(type) {
		case scoring.SingleChoiceRule:
			for _, opt := range q.Options {
				if opt != r.CorrectOption {
					return scoring.StringValue(opt)
				}
			}
			return scoring.StringValue(q.Options[0])
		case scoring.MultiChoiceRule:
			correct := make(map[string]bool, len(r.CorrectOptions))
			for _, c := range r.CorrectOptions {
				correct[c] = true
			}
			var wrong []string
			for _, opt := range q.Options {
				if !correct[opt] && len(wrong) < 2 {
					wrong = append(wrong, opt)
				}
			}
			return scoring.StringsValue(wrong...)
		case scoring.NumericRangeRule:
			return scoring.NumberValue(r.Max + 10)
		case scoring.KeywordTextRule:
			return scoring.StringValue("I'm a quick learner and eager to develop these skills.")
		}
		return scoring.Value{}
	})
}

func incompleteAnswers(job *scoring.Job) []scoring.Answer {
	questions := job.Questions[:min(2, len(job.Questions))]
	return mapAnswers(questions, func(_ int, q scoring.Question) scoring.Value {
		return perfectAnswers(&scoring.Job{Questions: []scoring.Question{q}})[0].Answer
	})
}

func mapAnswers(questions []scoring.Question, fn func(int, scoring.Question) scoring.Value) []scoring.Answer {
	answers := make([]scoring.Answer, 0, len(questions))
	for i, q := range questions {
		answers = append(answers, scoring.Answer{QuestionID: q.ID, Answer: fn(i, q)})
	}
	return answers
}

// Result summarizes one seeded job.
type Result struct {
	Job          *scoring.Job
	Applications []*scoring.Application
	Skipped      bool // the job was already present
}

// Run stores the sample jobs and scores every sample candidate against each.
// Jobs whose jobName already exists are skipped, so running twice is safe.
func Run(ctx context.Context, s store.Store, engine *scoring.Engine, now time.Time) ([]Result, error) {
	if engine == nil {
		engine = scoring.NewEngine()
	}

	existing, err := s.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	seeded := make(map[string]bool, len(existing))
	for _, j := range existing {
		seeded[j.JobName] = true
	}

	var results []Result
	for _, job := range Jobs() {
		if seeded[job.JobName] {
			results = append(results, Result{Job: job, Skipped: true})
			continue
		}

		job.ID = uuid.New().String()
		job.CreatedAt = now.UTC().Add(-48 * time.Hour).Truncate(time.Microsecond)
		if err := s.CreateJob(ctx, job); err != nil {
			return results, fmt.Errorf("create job %s: %w", job.JobName, err)
		}

		res := Result{Job: job}
		for _, p := range Profiles() {
			answers := p.Answer(job)
			app := &scoring.Application{
				ID:        uuid.New().String(),
				JobID:     job.ID,
				Candidate: p.Candidate,
				Answers:   answers,
				Score:     engine.ScoreApplication(job, answers),
				CreatedAt: now.UTC().Add(-p.Age).Truncate(time.Microsecond),
			}
			if err := s.CreateApplication(ctx, app); err != nil {
				return results, fmt.Errorf("create application for %s: %w", p.Candidate.Name, err)
			}
			res.Applications = append(res.Applications, app)
		}
		results = append(results, res)
	}
	return results, nil
}
