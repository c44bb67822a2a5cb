package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortPermissionsNewestFirst(t *testing.T) {
	list := []PermissionRequest{
		{ID: "old", Timestamp: "2024-05-01 08:00:00"},
		{ID: "new", Timestamp: "2024-05-03 08:00:00"},
		{ID: "mid", Timestamp: "2024-05-02 08:00:00"},
	}
	SortPermissionsNewestFirst(list)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestSortPermissionsNewestFirstFallsBackToDate(t *testing.T) {
	list := []PermissionRequest{
		{ID: "a", Date: "2024-05-01"},
		{ID: "b", Date: "2024-05-04"},
	}
	SortPermissionsNewestFirst(list)
	assert.Equal(t, "b", list[0].ID)
}

func TestSortPermissionsForReviewPendingLeads(t *testing.T) {
	list := []PermissionRequest{
		{ID: "approved-new", Status: StatusApproved, Timestamp: "2024-05-05 08:00:00"},
		{ID: "pending-old", Status: StatusPending, Timestamp: "2024-05-01 08:00:00"},
		{ID: "rejected", Status: StatusRejected, Timestamp: "2024-05-04 08:00:00"},
		{ID: "pending-new", Status: StatusPending, Timestamp: "2024-05-03 08:00:00"},
	}
	SortPermissionsForReview(list)

	require.Len(t, list, 4)
	assert.Equal(t, "pending-new", list[0].ID)
	assert.Equal(t, "pending-old", list[1].ID)
	assert.Equal(t, "approved-new", list[2].ID)
	assert.Equal(t, "rejected", list[3].ID)
}

func TestSortLateRecordsByArrival(t *testing.T) {
	list := []LateRecord{
		{ID: "early", Date: "2024-05-02", Time: "07:05"},
		{ID: "late", Date: "2024-05-02", Time: "07:45"},
		{ID: "yesterday", Date: "2024-05-01", Time: "08:00"},
	}
	SortLateRecordsNewestFirst(list)
	assert.Equal(t, "late", list[0].ID)
	assert.Equal(t, "yesterday", list[2].ID)
}

func TestParseWireTimeLayouts(t *testing.T) {
	for _, raw := range []string{"2024-05-01T08:30:00Z", "2024-05-01 08:30:00", "2024-05-01"} {
		at := parseWireTime(raw, "")
		assert.False(t, at.IsZero(), "layout %q", raw)
	}

	assert.True(t, parseWireTime("", "").IsZero())
	assert.True(t, parseWireTime("not a time", "").IsZero())
	// date fallback kicks in when the timestamp is junk
	assert.False(t, parseWireTime("not a time", "2024-05-01").IsZero())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusApproved))
	assert.True(t, ValidStatus(StatusRejected))
	assert.False(t, ValidStatus("maybe"))
	assert.False(t, ValidStatus(""))
}
