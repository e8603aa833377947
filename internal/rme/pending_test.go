package rme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

func TestPendingActions_LockClearsCompetingActions(t *testing.T) {
	p := rme.NewPendingActions()

	p.SetWaitToLock("1", true)
	p.SetDetails("1", rme.Details{Reason: "parts on order"})
	p.SetLocked("1", true)

	assert.True(t, p.Locked("1"))
	assert.False(t, p.WaitToLock("1"))
	assert.False(t, p.Delete("1"))
	assert.Equal(t, rme.Details{}, p.Details("1"))
}

func TestPendingActions_WaitToLockClearsLockAndDelete(t *testing.T) {
	p := rme.NewPendingActions()

	p.SetLocked("1", true)
	p.SetWaitToLock("1", true)

	assert.True(t, p.WaitToLock("1"))
	assert.False(t, p.Locked("1"))

	// Enabling the hold force-stages the tech report flag.
	value, ok := p.TechReport("1")
	assert.True(t, ok)
	assert.True(t, value)
}

func TestPendingActions_DeleteClearsEverything(t *testing.T) {
	p := rme.NewPendingActions()

	p.SetTechReport("1", true)
	p.SetWaitToLock("1", true)
	p.SetDetails("1", rme.Details{Reason: "parts on order"})
	p.SetDelete("1", true)

	assert.True(t, p.Delete("1"))
	assert.False(t, p.Locked("1"))
	assert.False(t, p.WaitToLock("1"))
	assert.Equal(t, rme.Details{}, p.Details("1"))

	_, ok := p.TechReport("1")
	assert.False(t, ok)
}

func TestPendingActions_UncheckTechReportClearsDependents(t *testing.T) {
	p := rme.NewPendingActions()

	p.SetTechReport("1", true)
	p.SetLocked("1", true)
	p.SetTechReport("1", false)

	assert.False(t, p.Locked("1"))

	value, ok := p.TechReport("1")
	assert.True(t, ok)
	assert.False(t, value)
}

func TestPendingActions_DisableWaitToLockDropsDetails(t *testing.T) {
	p := rme.NewPendingActions()

	p.SetWaitToLock("1", true)
	p.SetDetails("1", rme.Details{Reason: "parts on order", Notes: "eta friday"})
	p.SetWaitToLock("1", false)

	assert.False(t, p.WaitToLock("1"))
	assert.Equal(t, rme.Details{}, p.Details("1"))
}

func TestPendingActions_AtMostOneExclusiveAction(t *testing.T) {
	// Any toggle sequence leaves at most one of lock, hold, delete pending.
	type step struct {
		set func(p *rme.PendingActions)
	}

	sequences := [][]step{
		{
			{set: func(p *rme.PendingActions) { p.SetLocked("1", true) }},
			{set: func(p *rme.PendingActions) { p.SetDelete("1", true) }},
			{set: func(p *rme.PendingActions) { p.SetWaitToLock("1", true) }},
		},
		{
			{set: func(p *rme.PendingActions) { p.SetDelete("1", true) }},
			{set: func(p *rme.PendingActions) { p.SetLocked("1", true) }},
		},
		{
			{set: func(p *rme.PendingActions) { p.SetWaitToLock("1", true) }},
			{set: func(p *rme.PendingActions) { p.SetDelete("1", true) }},
			{set: func(p *rme.PendingActions) { p.SetLocked("1", true) }},
			{set: func(p *rme.PendingActions) { p.SetWaitToLock("1", true) }},
		},
	}

	for _, seq := range sequences {
		p := rme.NewPendingActions()

		for _, s := range seq {
			s.set(p)

			staged := 0
			for _, on := range []bool{p.Locked("1"), p.WaitToLock("1"), p.Delete("1")} {
				if on {
					staged++
				}
			}

			assert.LessOrEqual(t, staged, 1)
		}
	}
}

func TestPendingActions_Selection(t *testing.T) {
	p := rme.NewPendingActions()

	rows := []rme.Row{
		{WorkOrder: workorder.WorkOrder{ID: "a"}},
		{WorkOrder: workorder.WorkOrder{ID: "b"}},
		{WorkOrder: workorder.WorkOrder{ID: "c"}},
	}

	p.ToggleSelect(workorder.StageReportNeeded, "c")
	p.ToggleSelect(workorder.StageReportNeeded, "a")

	assert.True(t, p.Selected(workorder.StageReportNeeded, "a"))
	assert.False(t, p.Selected(workorder.StageReportNeeded, "b"))

	// Selections are scoped per stage and returned in input order.
	assert.Equal(t, []string{"a", "c"}, p.Selection(workorder.StageReportNeeded, rows))
	assert.Nil(t, p.Selection(workorder.StageHolding, rows))

	p.ToggleSelect(workorder.StageReportNeeded, "a")
	assert.False(t, p.Selected(workorder.StageReportNeeded, "a"))
}

func TestPendingActions_HasPendingAndReset(t *testing.T) {
	p := rme.NewPendingActions()
	assert.False(t, p.HasPending())

	p.SetTechReport("1", true)
	assert.True(t, p.HasPending())

	p.Reset()
	assert.False(t, p.HasPending())

	_, ok := p.TechReport("1")
	assert.False(t, ok)
}

func TestPendingActions_Rows(t *testing.T) {
	p := rme.NewPendingActions()

	records := []workorder.WorkOrder{
		{ID: "a", FullAddress: "1 First St", TechReportSubmitted: false},
		{ID: "b", FullAddress: "2 Second St", TechReportSubmitted: true},
		{ID: "c", FullAddress: "3 Third St"},
	}

	p.SetTechReport("a", true)
	p.SetWaitToLock("b", true)
	p.SetDetails("b", rme.Details{Reason: "parts on order"})

	rows := p.Rows(records)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].TechReport)
	assert.True(t, *rows[0].TechReport)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "1 First St", rows[0].Address)
	assert.False(t, rows[0].TechSubmitted)

	assert.Equal(t, "b", rows[1].ID)
	assert.True(t, rows[1].WaitToLock)
	assert.True(t, rows[1].TechSubmitted)
	assert.Equal(t, "parts on order", rows[1].Details.Reason)
}
