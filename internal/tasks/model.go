package tasks

import "time"

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Priority is the optional urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is an actionable item extracted from a document.
type Task struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"documentId"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    *Priority  `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask is a classified task waiting to be stored.
type NewTask struct {
	Title       string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
}

// Filter selects tasks by status. FilterAll returns every task.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter validates a filter value. Empty input returns ("", true).
func ParseFilter(raw string) (Filter, bool) {
	switch Filter(raw) {
	case "":
		return "", true
	case FilterAll, FilterPending, FilterCompleted:
		return Filter(raw), true
	}
	return "", false
}

// Status returns the status the filter selects, or "" for all.
func (f Filter) Status() Status {
	switch f {
	case FilterPending:
		return StatusPending
	case FilterCompleted:
		return StatusCompleted
	}
	return ""
}
