// Package validate rejects malformed job definitions and application
// submissions before they are decoded and scored. Checks run on the raw JSON
// payload so that type mismatches are reported instead of failing a decode,
// and every violation is collected rather than stopping at the first.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/applyscore/applyscore/pkg/scoring"
)

var requiredJobFields = []string{"title", "location", "customer", "jobName", "description"}

// ValidateJob checks a job creation payload. It returns nil or a
// *ValidationError listing every problem found.
func ValidateJob(payload []byte) error {
	root, ok := parseObject(payload)
	if !ok {
		return invalidBody()
	}

	c := &collector{}
	for _, field := range requiredJobFields {
		if !nonBlankString(root.Get(field)) {
			c.add(field + " is required")
		}
	}

	questions := root.Get("questions")
	switch {
	case !questions.IsArray():
		c.add("questions must be an array")
	case len(questions.Array()) == 0:
		c.add("questions must have at least one question")
	default:
		seen := make(map[string]int)
		var total float64
		for i, q := range questions.Array() {
			validateQuestion(c, i, q, seen)
			if mp := q.Get("scoring.maxPoints"); finiteNumber(mp) && mp.Num > 0 {
				total += mp.Num
			}
		}
		if math.IsInf(total, 0) {
			c.add("questions total maxPoints must be a finite number")
		}
	}

	return c.err()
}

// jobRequest is the client-controlled part of a job. The id and creation
// time are assigned on create and never read from the payload.
type jobRequest struct {
	Title       string             `json:"title"`
	Location    string             `json:"location"`
	Customer    string             `json:"customer"`
	JobName     string             `json:"jobName"`
	Description string             `json:"description"`
	Questions   []scoring.Question `json:"questions"`
}

// ParseJob validates payload and decodes it into a Job with no id or
// creation time. Every failure, including one the decoder finds after the
// checks pass, is a *ValidationError.
func ParseJob(payload []byte) (*scoring.Job, error) {
	if err := ValidateJob(payload); err != nil {
		return nil, err
	}

	var req jobRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, invalidBody()
	}
	return &scoring.Job{
		Title:       req.Title,
		Location:    req.Location,
		Customer:    req.Customer,
		JobName:     req.JobName,
		Description: req.Description,
		Questions:   req.Questions,
	}, nil
}

func validateQuestion(c *collector, i int, q gjson.Result, seen map[string]int) {
	prefix := fmt.Sprintf("questions[%d]", i)
	if !q.IsObject() {
		c.add(prefix + " must be an object")
		return
	}

	if id := q.Get("id"); id.Exists() {
		if !nonBlankString(id) {
			c.add(prefix + ".id must be a non-empty string")
		} else if first, dup := seen[id.Str]; dup {
			c.add(fmt.Sprintf("%s.id %q duplicates questions[%d].id", prefix, id.Str, first))
		} else {
			seen[id.Str] = i
		}
	}

	if !nonBlankString(q.Get("text")) {
		c.add(prefix + ".text is required")
	}
	if options := q.Get("options"); options.Exists() && options.Type != gjson.Null {
		if !options.IsArray() {
			c.add(prefix + ".options must be an array of strings")
		} else {
			for _, o := range options.Array() {
				if o.Type != gjson.String {
					c.add(prefix + ".options must be an array of strings")
					break
				}
			}
		}
	}

	qtype := scoring.QuestionType(stringOf(q.Get("type")))
	if !qtype.Valid() {
		c.add(fmt.Sprintf("%s.type must be one of: %s", prefix, joinTypes()))
		return
	}

	rule := q.Get("scoring")
	if !rule.IsObject() {
		c.add(prefix + ".scoring is required")
		return
	}

	if mp := rule.Get("maxPoints"); !finiteNumber(mp) || mp.Num <= 0 {
		c.add(prefix + ".scoring.maxPoints must be a positive finite number")
	}
	if scoring.QuestionType(stringOf(rule.Get("kind"))) != qtype {
		c.add(prefix + ".scoring.kind must match question type")
	}

	switch qtype {
	case scoring.TypeSingleChoice:
		validateSingleChoice(c, prefix, q, rule)
	case scoring.TypeMultiChoice:
		validateMultiChoice(c, prefix, q, rule)
	case scoring.TypeNumber:
		validateNumericRange(c, prefix, rule)
	case scoring.TypeText:
		validateKeywordText(c, prefix, rule)
	}
}

func validateSingleChoice(c *collector, prefix string, q, rule gjson.Result) {
	options, hasOptions := optionSet(q.Get("options"))
	if !hasOptions {
		c.add(prefix + ".options is required for single_choice and must have at least one option")
	}

	correct := rule.Get("correctOption")
	switch {
	case correct.Type != gjson.String || correct.Str == "":
		c.add(prefix + ".scoring.correctOption is required for single_choice")
	case hasOptions && !options[correct.Str]:
		c.add(prefix + ".scoring.correctOption must be one of the provided options")
	}
}

func validateMultiChoice(c *collector, prefix string, q, rule gjson.Result) {
	options, hasOptions := optionSet(q.Get("options"))
	if !hasOptions {
		c.add(prefix + ".options is required for multi_choice and must have at least one option")
	}

	correct := rule.Get("correctOptions")
	switch {
	case !correct.Exists():
		c.add(prefix + ".scoring.correctOptions is required for multi_choice")
	case !correct.IsArray() || len(correct.Array()) == 0:
		c.add(prefix + ".scoring.correctOptions is required for multi_choice and must have at least one option")
	default:
		var invalid []string
		for _, opt := range correct.Array() {
			if opt.Type != gjson.String || (hasOptions && !options[opt.Str]) {
				invalid = append(invalid, opt.String())
			}
		}
		if len(invalid) > 0 {
			c.add(fmt.Sprintf("%s.scoring.correctOptions contains invalid options: %s", prefix, strings.Join(invalid, ", ")))
		}
	}

	if pe := rule.Get("penalizeExtras"); pe.Exists() && !pe.IsBool() {
		c.add(prefix + ".scoring.penalizeExtras must be a boolean")
	}
}

func validateNumericRange(c *collector, prefix string, rule gjson.Result) {
	lo, hi := rule.Get("min"), rule.Get("max")
	switch {
	case !lo.Exists() || !hi.Exists():
		c.add(prefix + ".scoring.min and max are required for number")
	case !finiteNumber(lo) || !finiteNumber(hi):
		c.add(prefix + ".scoring.min and max must be numbers")
	case lo.Num > hi.Num:
		c.add(prefix + ".scoring.min must be less than or equal to max")
	}
}

func validateKeywordText(c *collector, prefix string, rule gjson.Result) {
	keywords := rule.Get("keywords")
	if !keywords.Exists() {
		c.add(prefix + ".scoring.keywords is required for text")
		return
	}

	if !keywords.IsArray() || len(keywords.Array()) == 0 {
		c.add(prefix + ".scoring.keywords is required for text and must have at least one keyword")
	} else {
		for _, kw := range keywords.Array() {
			if !nonBlankString(kw) {
				c.add(prefix + ".scoring.keywords must be non-empty strings")
				break
			}
		}
	}

	// An explicit null is a present value and is rejected.
	if ratio := rule.Get("minimumMatchRatio"); ratio.Exists() {
		if ratio.Type != gjson.Number || ratio.Num < 0 || ratio.Num > 1 {
			c.add(prefix + ".scoring.minimumMatchRatio must be between 0 and 1")
		}
	}
}

// optionSet returns the string options of a question, and false when options
// is missing, not an array or empty.
func optionSet(options gjson.Result) (map[string]bool, bool) {
	if !options.IsArray() {
		return nil, false
	}
	items := options.Array()
	if len(items) == 0 {
		return nil, false
	}
	set := make(map[string]bool, len(items))
	for _, o := range items {
		if o.Type == gjson.String {
			set[o.Str] = true
		}
	}
	return set, true
}

func parseObject(payload []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, false
	}
	root := gjson.ParseBytes(payload)
	return root, root.IsObject()
}

func nonBlankString(r gjson.Result) bool {
	return r.Type == gjson.String && strings.TrimSpace(r.Str) != ""
}

func stringOf(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// finiteNumber reports whether r is a JSON number that fits a float64.
// gjson turns overflowing literals such as 1e999 into infinities.
func finiteNumber(r gjson.Result) bool {
	return r.Type == gjson.Number && !math.IsInf(r.Num, 0) && !math.IsNaN(r.Num)
}

func joinTypes() string {
	names := make([]string, len(scoring.QuestionTypes))
	for i, t := range scoring.QuestionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
