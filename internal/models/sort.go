package models

import "sort"

// SortPermissionsNewestFirst orders by server timestamp, falling back to
// the requested date. Used by the student views.
func SortPermissionsNewestFirst(list []PermissionRequest) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].At().After(list[j].At())
	})
}

// SortPermissionsForReview orders the teacher view: every pending request
// precedes every reviewed one, newest first inside each group.
func SortPermissionsForReview(list []PermissionRequest) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Pending() != list[j].Pending() {
			return list[i].Pending()
		}
		return list[i].At().After(list[j].At())
	})
}

// SortPointsNewestFirst orders discipline points by timestamp.
func SortPointsNewestFirst(list []DisciplinePoint) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].At().After(list[j].At())
	})
}

// SortLateRecordsNewestFirst orders late records by arrival.
func SortLateRecordsNewestFirst(list []LateRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].At().After(list[j].At())
	})
}
