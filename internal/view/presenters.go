package view

import (
	"fmt"
	"time"

	"github.com/schoolgate/webclient/internal/models"
)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var indonesianDays = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

// StatusLabel maps a wire status to its on-screen Indonesian label.
func StatusLabel(status string) string {
	switch status {
	case models.StatusPending:
		return "Menunggu"
	case models.StatusApproved:
		return "Disetujui"
	case models.StatusRejected:
		return "Ditolak"
	}
	return status
}

// StatusClass maps a wire status to the badge CSS class.
func StatusClass(status string) string {
	switch status {
	case models.StatusPending:
		return "badge badge-pending"
	case models.StatusApproved:
		return "badge badge-approved"
	case models.StatusRejected:
		return "badge badge-rejected"
	}
	return "badge"
}

// FormatDate renders a wire date (2006-01-02) in Indonesian long form,
// e.g. "1 Mei 2024". Unparseable input is shown as-is.
func FormatDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", parsed.Day(), indonesianMonths[parsed.Month()-1], parsed.Year())
}

// DayLabel returns the short Indonesian weekday name for a 0-based index
// starting at Sunday, matching the statistics day-of-week buckets.
func DayLabel(index int) string {
	if index < 0 || index >= len(indonesianDays) {
		return ""
	}
	return indonesianDays[index]
}

// DayBucket pairs a weekday label with its lateness count for the chart.
type DayBucket struct {
	Label string
	Count int
}

// DayBuckets expands the statistics day-of-week slice into labelled
// buckets. A short or missing slice yields zeroed buckets.
func DayBuckets(byDay []int) []DayBucket {
	buckets := make([]DayBucket, len(indonesianDays))
	for i := range buckets {
		buckets[i].Label = indonesianDays[i]
		if i < len(byDay) {
			buckets[i].Count = byDay[i]
		}
	}
	return buckets
}

// ActivityItem is one row in the student's recent-activity list.
type ActivityItem struct {
	Date   string
	Reason string
	Status string
}

// RecentActivity returns the latest entries of an already-sorted
// permission list, capped at limit.
func RecentActivity(permissions []models.PermissionRequest, limit int) []ActivityItem {
	if limit > len(permissions) {
		limit = len(permissions)
	}
	items := make([]ActivityItem, 0, limit)
	for _, p := range permissions[:limit] {
		items = append(items, ActivityItem{
			Date:   FormatDate(p.Date),
			Reason: p.Reason,
			Status: p.Status,
		})
	}
	return items
}
