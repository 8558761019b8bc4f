// Package task defines the task entity and the pure rules that apply to it:
// title validation, deadline composition and overdue classification.
package task

// Task is a single to-do item as held by the remote store.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Deadline    *string `json:"deadline"` // nil means no deadline
	IsCompleted bool    `json:"isCompleted"`
}

// NewTask is the creation payload. The server assigns the ID.
type NewTask struct {
	Title       string  `json:"title"`
	Deadline    *string `json:"deadline"`
	IsCompleted bool    `json:"isCompleted"`
}

// HasDeadline reports whether the task carries a non-empty deadline.
func (t Task) HasDeadline() bool {
	return t.Deadline != nil && *t.Deadline != ""
}

// DeadlineString returns the raw deadline or "" when absent.
func (t Task) DeadlineString() string {
	if t.Deadline == nil {
		return ""
	}
	return *t.Deadline
}

// Toggled returns a copy of t with IsCompleted flipped.
func (t Task) Toggled() Task {
	out := t
	out.IsCompleted = !t.IsCompleted
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
