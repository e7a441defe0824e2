package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Todo struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	DueDate   *Date     `json:"due_date" db:"due_date"`
	Priority  Priority  `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Overdue reports whether an open todo's due date is before today.
func (t *Todo) Overdue(today Date) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

type TodoInput struct {
	Title     *string   `json:"title"`
	Completed *bool     `json:"completed"`
	DueDate   *Date     `json:"due_date"`
	Priority  *Priority `json:"priority"`
}

func (in *TodoInput) validateFields() error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return required("title")
		}
		if utf8.RuneCountInString(title) > 200 {
			return invalid("title", "must be at most 200 characters")
		}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return invalid("priority", "must be low, medium or high")
	}
	return nil
}

func (in *TodoInput) ValidateCreate() error {
	if in.Title == nil {
		return required("title")
	}
	return in.validateFields()
}

func (in *TodoInput) ValidateUpdate() error {
	return in.validateFields()
}

func (in *TodoInput) NewTodo(userID int) Todo {
	t := Todo{UserID: userID, Priority: PriorityMedium}
	in.Apply(&t)
	return t
}

// Apply copies the non-nil fields onto t. A zero due date clears it.
func (in *TodoInput) Apply(t *Todo) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			t.DueDate = nil
		} else {
			d := *in.DueDate
			t.DueDate = &d
		}
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
}
