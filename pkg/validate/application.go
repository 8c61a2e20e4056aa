package validate

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// emailPattern is a shape check only: something@something.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateApplication checks an application payload against the job it is
// submitted to. Answers may omit questions; an answer naming a question the
// job does not have is reported and not checked further.
func ValidateApplication(payload []byte, job *scoring.Job) error {
	root, ok := parseObject(payload)
	if !ok {
		return invalidBody()
	}

	c := &collector{}
	validateCandidate(c, root.Get("candidate"))

	answers := root.Get("answers")
	if !answers.IsArray() {
		c.add("answers must be an array")
		return c.err()
	}

	questions := questionIndex(job)
	for i, a := range answers.Array() {
		prefix := fmt.Sprintf("answers[%d]", i)

		qid := a.Get("questionId")
		if qid.Type != gjson.String || qid.Str == "" {
			c.add(prefix + ".questionId is required")
			continue
		}
		q, ok := questions[qid.Str]
		if !ok {
			c.add(fmt.Sprintf(`%s.questionId "%s" does not exist in this job`, prefix, qid.Str))
			continue
		}
		validateAnswerShape(c, prefix, q.Type, a.Get("answer"))
	}

	return c.err()
}

func validateCandidate(c *collector, candidate gjson.Result) {
	if !candidate.IsObject() {
		c.add("candidate is required")
		return
	}
	if !nonBlankString(candidate.Get("name")) {
		c.add("candidate.name is required")
	}
	email := candidate.Get("email")
	switch {
	case !nonBlankString(email):
		c.add("candidate.email is required")
	case !emailPattern.MatchString(email.Str):
		c.add("candidate.email must be a valid email address")
	}
}

func validateAnswerShape(c *collector, prefix string, qtype scoring.QuestionType, answer gjson.Result) {
	switch qtype {
	case scoring.TypeSingleChoice, scoring.TypeText:
		if answer.Type != gjson.String {
			c.add(fmt.Sprintf("%s.answer must be a string for %s question", prefix, qtype))
		}
	case scoring.TypeMultiChoice:
		switch {
		case !answer.IsArray():
			c.add(prefix + ".answer must be an array for multi_choice question")
		case len(answer.Array()) == 0:
			c.add(prefix + ".answer must have at least one selection for multi_choice question")
		default:
			for _, sel := range answer.Array() {
				if sel.Type != gjson.String {
					c.add(prefix + ".answer must be an array of strings for multi_choice question")
					break
				}
			}
		}
	case scoring.TypeNumber:
		switch {
		case answer.Type != gjson.Number:
			c.add(prefix + ".answer must be a number for number question")
		case !finiteNumber(answer):
			c.add(prefix + ".answer must be a finite number (not NaN or Infinity)")
		}
	}
}

func questionIndex(job *scoring.Job) map[string]scoring.Question {
	if job == nil {
		return nil
	}
	idx := make(map[string]scoring.Question, len(job.Questions))
	for _, q := range job.Questions {
		if _, dup := idx[q.ID]; !dup {
			idx[q.ID] = q
		}
	}
	return idx
}
