package models

import "time"

// Permission request statuses. The only transitions the gateway accepts
// are pending -> approved and pending -> rejected, both teacher-initiated.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ReasonOther is the enum sentinel the student form uses for a free-text
// reason ("Lainnya" = other).
const ReasonOther = "Lainnya"

// ValidStatus reports whether s is one of the three enumerated statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// PermissionRequest is a student's leave request as transmitted over the
// wire. Student name and class are denormalised by the gateway.
type PermissionRequest struct {
	ID           string `json:"id"`
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName,omitempty"`
	StudentClass string `json:"studentClass,omitempty"`
	Reason       string `json:"reason"`
	Date         string `json:"date"`
	Time         string `json:"time,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Status       string `json:"status"`
	TeacherNotes string `json:"teacherNotes,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// At returns the instant used for newest-first ordering: the server
// timestamp when parseable, the requested date otherwise.
func (p PermissionRequest) At() time.Time {
	return parseWireTime(p.Timestamp, p.Date)
}

// Pending reports whether the request still awaits review.
func (p PermissionRequest) Pending() bool {
	return p.Status == StatusPending
}

// parseWireTime interprets the loosely formatted date/time strings the
// spreadsheet backend produces.
func parseWireTime(timestamp, date string) time.Time {
	for _, raw := range []string{timestamp, date} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
