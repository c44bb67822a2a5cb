package models

import "time"

// LateRecord is one logged tardy arrival. Unlike discipline points it
// supports the full create/edit/delete cycle.
type LateRecord struct {
	ID           string `json:"id"`
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName,omitempty"`
	StudentClass string `json:"studentClass,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Duration     int    `json:"duration"`
	Reason       string `json:"reason,omitempty"`
	RecordedBy   string `json:"recordedBy,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// At returns the instant used for newest-first ordering. Late records
// sort by arrival (date + time) rather than by server timestamp.
func (r LateRecord) At() time.Time {
	if r.Date != "" && r.Time != "" {
		if t, err := time.Parse("2006-01-02 15:04", r.Date+" "+r.Time); err == nil {
			return t
		}
	}
	return parseWireTime(r.Timestamp, r.Date)
}

// FrequentLateStudent is one entry of the repeat-offender ranking.
type FrequentLateStudent struct {
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	StudentClass string `json:"studentClass,omitempty"`
	Count        int    `json:"count"`
}

// LateStatistics is the gateway's aggregate payload. ByDayOfWeek is
// indexed Sunday..Saturday.
type LateStatistics struct {
	TotalLate        int                   `json:"totalLate"`
	FrequentStudents []FrequentLateStudent `json:"frequentStudents"`
	ByDayOfWeek      []int                 `json:"byDayOfWeek"`
}
