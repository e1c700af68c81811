package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Task is a task as returned by the model.
type Task struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// Note is a note as returned by the model.
type Note struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Result is the validated classification of a text.
type Result struct {
	Tasks   []Task `json:"tasks"`
	Notes   []Note `json:"notes"`
	Summary string `json:"summary,omitempty"`
}

// Issue describes one schema violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// StripFences removes a leading ```json or ``` fence and a trailing ``` fence.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// errNotJSON marks model output that is not a single JSON value.
var errNotJSON = errors.New("model output is not valid JSON")

// decode parses cleaned model output. Output that is not JSON at all returns
// errNotJSON. JSON of the wrong shape returns issues instead. Absent arrays
// decode as empty.
func decode(cleaned string) (Result, []Issue, error) {
	data := []byte(cleaned)
	if !json.Valid(data) {
		return Result{}, nil, errNotJSON
	}
	if !strings.HasPrefix(strings.TrimSpace(cleaned), "{") {
		return Result{}, []Issue{{Path: "$", Message: "must be an object"}}, nil
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			path := typeErr.Field
			if path == "" {
				path = "$"
			}
			return Result{}, []Issue{{Path: path, Message: "unexpected " + typeErr.Value}}, nil
		}
		return Result{}, []Issue{{Path: "$", Message: err.Error()}}, nil
	}
	if res.Tasks == nil {
		res.Tasks = []Task{}
	}
	if res.Notes == nil {
		res.Notes = []Note{}
	}
	res.Summary = strings.TrimSpace(res.Summary)
	return res, nil, nil
}

// Validate checks the result against the expected shape and normalizes blank optionals to nil.
func (r *Result) Validate() []Issue {
	var issues []Issue
	for i := range r.Tasks {
		t := &r.Tasks[i]
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("tasks[%d].title", i), Message: "required"})
		}
		t.Description = blankToNil(t.Description)
		t.Priority = blankToNil(t.Priority)
		if t.Priority != nil {
			p := strings.ToLower(*t.Priority)
			if p != "low" && p != "medium" && p != "high" {
				issues = append(issues, Issue{Path: fmt.Sprintf("tasks[%d].priority", i), Message: "must be low, medium or high"})
			} else {
				t.Priority = &p
			}
		}
		t.DueDate = blankToNil(t.DueDate)
		if t.DueDate != nil {
			if _, err := ParseDueDate(*t.DueDate); err != nil {
				issues = append(issues, Issue{Path: fmt.Sprintf("tasks[%d].dueDate", i), Message: "must be an ISO 8601 date"})
			}
		}
	}
	for i := range r.Notes {
		n := &r.Notes[i]
		n.Title = strings.TrimSpace(n.Title)
		n.Content = strings.TrimSpace(n.Content)
		if n.Title == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("notes[%d].title", i), Message: "required"})
		}
		if n.Content == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("notes[%d].content", i), Message: "required"})
		}
	}
	return issues
}

// ParseDueDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
