package models

import "slices"

// Comment is a note attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp LocalTime `json:"timestamp"`
}

// Task is a card on the board.
type Task struct {
	// ID is the immutable unique identifier of the task.
	ID string `json:"id"`
	// Title is the card headline.
	Title string `json:"title"`
	// Description is the short card body.
	Description string `json:"description"`
	// IssueDescription holds the long-form details shown in the task view.
	IssueDescription string `json:"issueDescription"`
	// Labels are distinct tags in insertion order.
	Labels []string `json:"labels"`
	// BackgroundColor is the card color.
	BackgroundColor BackgroundColor `json:"backgroundColor"`
	// CreationDate is set once when the task is created.
	CreationDate LocalTime `json:"creationDate"`
	// Comments are kept oldest first.
	Comments []Comment `json:"comments"`
	// Status is the board column of the task.
	Status Status `json:"status"`
}

// HasLabel reports whether the task already carries label.
func (t *Task) HasLabel(label string) bool {
	return slices.Contains(t.Labels, label)
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Labels = slices.Clone(t.Labels)
	c.Comments = slices.Clone(t.Comments)
	if c.Labels == nil {
		c.Labels = []string{}
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	return &c
}
