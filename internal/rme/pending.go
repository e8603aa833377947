package rme

import (
	"github.com/rooterworks/rmetrack/internal/workorder"
)

// Details carries the wait-to-lock justification. Reason is required before
// save; Notes is optional.
type Details struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// PendingActions is the client-side, per-row intent state staged between
// checkbox toggles and an explicit save. Nothing here touches the network;
// the exclusivity rules are enforced synchronously on every toggle and
// re-validated defensively at save time.
//
// At most one of {locked, wait-to-lock, delete} is ever pending for a row.
type PendingActions struct {
	techReport map[string]bool
	locked     map[string]struct{}
	waitToLock map[string]struct{}
	deleted    map[string]struct{}
	details    map[string]Details

	selection map[workorder.Stage]map[string]struct{}
}

func NewPendingActions() *PendingActions {
	return &PendingActions{
		techReport: make(map[string]bool),
		locked:     make(map[string]struct{}),
		waitToLock: make(map[string]struct{}),
		deleted:    make(map[string]struct{}),
		details:    make(map[string]Details),
		selection:  make(map[workorder.Stage]map[string]struct{}),
	}
}

// SetTechReport stages a tech-report-submitted toggle. Un-checking it clears
// any pending lock or wait-to-lock for the row: neither can be saved without
// a submitted report.
func (p *PendingActions) SetTechReport(id string, on bool) {
	p.techReport[id] = on

	if !on {
		delete(p.locked, id)
		delete(p.waitToLock, id)
		delete(p.details, id)
	}
}

// SetLocked stages or clears a lock-and-finalize. Enabling it clears a
// pending wait-to-lock or delete for the row.
func (p *PendingActions) SetLocked(id string, on bool) {
	if !on {
		delete(p.locked, id)
		return
	}

	p.locked[id] = struct{}{}

	delete(p.waitToLock, id)
	delete(p.deleted, id)
	delete(p.details, id)
}

// SetWaitToLock stages or clears a hold. Enabling it clears lock and delete,
// force-stages the tech-report flag (the server requires it) and seeds an
// empty details entry for the reason form.
func (p *PendingActions) SetWaitToLock(id string, on bool) {
	if !on {
		delete(p.waitToLock, id)
		delete(p.details, id)

		return
	}

	p.waitToLock[id] = struct{}{}
	p.techReport[id] = true

	delete(p.locked, id)
	delete(p.deleted, id)

	if _, ok := p.details[id]; !ok {
		p.details[id] = Details{}
	}
}

// SetDelete stages or clears a finalize-as-deleted. Enabling it clears every
// other pending action for the row.
func (p *PendingActions) SetDelete(id string, on bool) {
	if !on {
		delete(p.deleted, id)
		return
	}

	p.deleted[id] = struct{}{}

	delete(p.techReport, id)
	delete(p.locked, id)
	delete(p.waitToLock, id)
	delete(p.details, id)
}

// SetDetails attaches the wait-to-lock reason and notes for a row.
func (p *PendingActions) SetDetails(id string, d Details) {
	p.details[id] = d
}

// TechReport reports the staged tech-report value for a row, ok=false when
// nothing is staged.
func (p *PendingActions) TechReport(id string) (value, ok bool) {
	v, ok := p.techReport[id]
	return v, ok
}

func (p *PendingActions) Locked(id string) bool {
	_, ok := p.locked[id]
	return ok
}

func (p *PendingActions) WaitToLock(id string) bool {
	_, ok := p.waitToLock[id]
	return ok
}

func (p *PendingActions) Delete(id string) bool {
	_, ok := p.deleted[id]
	return ok
}

func (p *PendingActions) Details(id string) Details {
	return p.details[id]
}

// ToggleSelect flips a row in the per-stage bulk selection set.
func (p *PendingActions) ToggleSelect(stage workorder.Stage, id string) {
	set, ok := p.selection[stage]
	if !ok {
		set = make(map[string]struct{})
		p.selection[stage] = set
	}

	if _, ok := set[id]; ok {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}
}

func (p *PendingActions) Selected(stage workorder.Stage, id string) bool {
	_, ok := p.selection[stage][id]
	return ok
}

// Selection returns the selected ids for a stage in input order.
func (p *PendingActions) Selection(stage workorder.Stage, rows []Row) []string {
	set := p.selection[stage]
	if len(set) == 0 {
		return nil
	}

	ids := make([]string, 0, len(set))

	for _, r := range rows {
		if _, ok := set[r.ID]; ok {
			ids = append(ids, r.ID)
		}
	}

	return ids
}

// HasPending reports whether any action is staged anywhere.
func (p *PendingActions) HasPending() bool {
	return len(p.techReport) > 0 || len(p.locked) > 0 || len(p.waitToLock) > 0 || len(p.deleted) > 0
}

// Reset drops every staged action and selection, called after a save batch.
func (p *PendingActions) Reset() {
	*p = *NewPendingActions()
}

// Rows joins the staged actions with the current collection snapshot into
// save rows for the orchestrator. Rows without any staged action are skipped.
func (p *PendingActions) Rows(records []workorder.WorkOrder) []SaveRow {
	var out []SaveRow

	for _, wo := range records {
		techValue, techStaged := p.techReport[wo.ID]
		if !techStaged && !p.Locked(wo.ID) && !p.WaitToLock(wo.ID) && !p.Delete(wo.ID) {
			continue
		}

		row := SaveRow{
			ID:            wo.ID,
			Address:       wo.FullAddress,
			TechSubmitted: wo.TechReportSubmitted,
			Lock:          p.Locked(wo.ID),
			WaitToLock:    p.WaitToLock(wo.ID),
			Delete:        p.Delete(wo.ID),
			Details:       p.details[wo.ID],
		}
		if techStaged {
			row.TechReport = &techValue
		}

		out = append(out, row)
	}

	return out
}
