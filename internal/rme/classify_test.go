package rme_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooterworks/rmetrack/internal/format"
	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

func testNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, format.Pacific)
}

func TestClassify_Partition(t *testing.T) {
	records := []workorder.WorkOrder{
		{ID: "a"},
		{ID: "b", TechReportSubmitted: true},
		{ID: "c", TechReportSubmitted: true, WaitToLock: true},
		{ID: "d", Status: workorder.StatusLocked, RMECompleted: true},
		{ID: "e", IsDeleted: true},
		{ID: "f"},
	}

	b := rme.Classify(records, testNow())

	require.Len(t, b.ReportNeeded, 2)
	require.Len(t, b.ReportSubmitted, 1)
	require.Len(t, b.Holding, 1)
	require.Len(t, b.Finalized, 1)

	// Soft-deleted records never surface in the active stages.
	for _, rows := range [][]rme.Row{b.ReportNeeded, b.ReportSubmitted, b.Holding, b.Finalized} {
		for _, row := range rows {
			assert.NotEqual(t, "e", row.ID)
		}
	}
}

func TestClassify_PreservesInputOrder(t *testing.T) {
	records := []workorder.WorkOrder{
		{ID: "3"},
		{ID: "1"},
		{ID: "2"},
	}

	b := rme.Classify(records, testNow())

	require.Len(t, b.ReportNeeded, 3)
	assert.Equal(t, "3", b.ReportNeeded[0].ID)
	assert.Equal(t, "1", b.ReportNeeded[1].ID)
	assert.Equal(t, "2", b.ReportNeeded[2].ID)
}

func TestClassify_Decoration(t *testing.T) {
	now := testNow()
	scheduled := now.Add(-30 * time.Hour).Format(time.RFC3339)

	records := []workorder.WorkOrder{
		{
			ID:            "a",
			Technician:    "maria",
			FullAddress:   "123 Main St, Portland, OR",
			ScheduledDate: scheduled,
		},
	}

	b := rme.Classify(records, now)
	require.Len(t, b.ReportNeeded, 1)

	row := b.ReportNeeded[0]
	assert.Equal(t, workorder.StageReportNeeded, row.Stage)
	assert.Equal(t, "M", row.TechInitial)
	assert.Equal(t, "123 Main St", row.Street)
	assert.Equal(t, "Portland", row.City)
	assert.Equal(t, "OR", row.Region)
	assert.Equal(t, "30h", row.Elapsed)
	assert.Equal(t, format.ColorOrange, row.ElapsedColor)
	assert.NotEqual(t, format.Placeholder, row.ScheduledDisplay)
}

func TestClassify_MalformedDatesDegrade(t *testing.T) {
	records := []workorder.WorkOrder{
		{ID: "a", ScheduledDate: "not a date", FullAddress: ""},
	}

	b := rme.Classify(records, testNow())
	require.Len(t, b.ReportNeeded, 1)

	row := b.ReportNeeded[0]
	assert.Equal(t, format.Placeholder, row.ScheduledDisplay)
	assert.Equal(t, format.Placeholder, row.Elapsed)
	assert.Equal(t, format.ColorGreen, row.ElapsedColor)
	assert.Equal(t, format.Unknown, row.Street)
}

func TestClassify_FinalizedAsDeleted(t *testing.T) {
	records := []workorder.WorkOrder{
		{ID: "a", Status: workorder.StatusDeleted, RMECompleted: true},
		{ID: "b", Status: workorder.StatusLocked, RMECompleted: true},
	}

	b := rme.Classify(records, testNow())
	require.Len(t, b.Finalized, 2)

	assert.True(t, b.Finalized[0].FinalizedAsDeleted)
	assert.False(t, b.Finalized[1].FinalizedAsDeleted)
}

func TestDecorateHistory(t *testing.T) {
	records := []workorder.WorkOrder{
		{ID: "a"},
		{ID: "b", IsDeleted: true, DeletedBy: "Dana"},
		{ID: "c", IsDeleted: true},
	}

	rows := rme.DecorateHistory(records, testNow())

	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, workorder.StageDeleted, rows[0].Stage)
	assert.Equal(t, "c", rows[1].ID)
}
