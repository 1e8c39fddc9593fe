package model

import "time"

// Session is one finished timer interval.
type Session struct {
	ID             string    `json:"id" yaml:"id"`
	Mode           string    `json:"mode" yaml:"mode"`
	Start          time.Time `json:"start" yaml:"start"`
	End            time.Time `json:"end" yaml:"end"`
	Seconds        int64     `json:"seconds" yaml:"seconds"`
	PlannedSeconds int64     `json:"plannedSeconds" yaml:"planned_seconds"`
	// Completed is false for intervals abandoned by a manual switch or reset.
	Completed bool `json:"completed" yaml:"completed"`
}

// DayFile is the structure stored for each day of history.
type DayFile struct {
	Date     string    `json:"date" yaml:"date"`
	Sessions []Session `json:"sessions" yaml:"sessions"`
}
