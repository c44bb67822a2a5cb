package models

import "time"

// DisciplinePoint is a penalty entry for a violation. Append-only from
// the client's perspective; no edit or delete is surfaced.
type DisciplinePoint struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Violation string `json:"violation"`
	Points    int    `json:"points"`
	Notes     string `json:"notes,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// At returns the instant used for newest-first ordering.
func (p DisciplinePoint) At() time.Time {
	return parseWireTime(p.Timestamp, "")
}

// StudentPoints aggregates a student's total for the teacher dashboard.
type StudentPoints struct {
	StudentID    string
	StudentName  string
	StudentClass string
	TotalPoints  int
}
