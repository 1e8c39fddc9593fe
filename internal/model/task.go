package model

import "time"

// Task is a single to-do list item.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Created     time.Time  `json:"created" yaml:"created"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}
