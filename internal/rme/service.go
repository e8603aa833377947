package rme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rooterworks/rmetrack/internal/audit"
	"github.com/rooterworks/rmetrack/internal/format"
	"github.com/rooterworks/rmetrack/internal/identity"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rme
type Repository interface {
	PatchWorkOrder(ctx context.Context, id string, fields map[string]any) error
}

// Service turns staged row intents into grouped backend mutations. Requests
// within a group run concurrently; there is no rollback across rows, so a
// partial failure leaves mixed state and the report says exactly which rows
// landed.
type Service struct {
	repo  Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewService(repo Repository, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}

	return &Service{repo: repo, audit: recorder, now: time.Now}
}

// SaveRow is one row's staged intent joined with the persisted flags the
// validator needs.
type SaveRow struct {
	ID      string
	Address string

	// TechSubmitted is the persisted tech_report_submitted value.
	TechSubmitted bool

	// TechReport is the staged toggle, nil when untouched.
	TechReport *bool

	Lock       bool
	WaitToLock bool
	Delete     bool
	Details    Details
}

// Result is the outcome of one backend request.
type Result struct {
	ID      string
	Address string
	Err     error
}

// InvalidRow is a row excluded from the batch before any network call.
type InvalidRow struct {
	ID      string
	Address string
	Reason  string
}

// SaveReport aggregates a save batch: per-id outcomes grouped by action,
// plus the rows that never made it onto the wire.
type SaveReport struct {
	TechReports []Result
	Locked      []Result
	WaitToLock  []Result
	Deleted     []Result
	Invalid     []InvalidRow
}

// Failed collects every rejected request across all groups.
func (r *SaveReport) Failed() []Result {
	var out []Result

	for _, group := range [][]Result{r.TechReports, r.Locked, r.WaitToLock, r.Deleted} {
		for _, res := range group {
			if res.Err != nil {
				out = append(out, res)
			}
		}
	}

	return out
}

func succeeded(group []Result) int {
	n := 0

	for _, res := range group {
		if res.Err == nil {
			n++
		}
	}

	return n
}

// Summary renders the single aggregate message shown after a save.
func (r *SaveReport) Summary() string {
	var parts []string

	if n := succeeded(r.TechReports); n > 0 {
		parts = append(parts, fmt.Sprintf("%d tech report(s) updated", n))
	}

	if n := succeeded(r.Locked); n > 0 {
		parts = append(parts, fmt.Sprintf("%d report(s) locked", n))
	}

	if n := succeeded(r.WaitToLock); n > 0 {
		parts = append(parts, fmt.Sprintf("%d moved to holding", n))
	}

	if n := succeeded(r.Deleted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", n))
	}

	if len(parts) == 0 {
		parts = append(parts, "no changes saved")
	}

	msg := strings.Join(parts, ", ")

	if failed := r.Failed(); len(failed) > 0 {
		msg += fmt.Sprintf("; %d request(s) failed", len(failed))
	}

	if len(r.Invalid) > 0 {
		addrs := make([]string, len(r.Invalid))
		for i, inv := range r.Invalid {
			addrs[i] = inv.Address
		}

		msg += "; skipped invalid rows: " + strings.Join(addrs, "; ")
	}

	return msg
}

var ErrMissingUser = errors.New("missing user identity")

type action int

const (
	actionNone action = iota
	actionTechReport
	actionLock
	actionWaitToLock
	actionDelete
)

// classifyRow maps a staged row to exactly one action. The toggle layer
// already guarantees exclusivity, but rows arriving over HTTP are untrusted,
// so conflicts and gating are re-checked here before anything hits the wire.
func classifyRow(row SaveRow) (action, string) {
	staged := 0
	for _, on := range []bool{row.Lock, row.WaitToLock, row.Delete} {
		if on {
			staged++
		}
	}

	if staged > 1 {
		return actionNone, "conflicting actions staged"
	}

	submitted := row.TechSubmitted
	if row.TechReport != nil {
		submitted = *row.TechReport
	}

	switch {
	case row.Lock:
		if !submitted {
			return actionNone, "cannot lock without a submitted tech report"
		}

		return actionLock, ""
	case row.WaitToLock:
		if !submitted {
			return actionNone, "cannot hold without a submitted tech report"
		}

		if strings.TrimSpace(row.Details.Reason) == "" {
			return actionNone, "wait-to-lock requires a reason"
		}

		return actionWaitToLock, ""
	case row.Delete:
		return actionDelete, ""
	case row.TechReport != nil && *row.TechReport != row.TechSubmitted:
		return actionTechReport, ""
	default:
		return actionNone, ""
	}
}

// Save validates and issues the staged batch. Invalid rows are excluded and
// reported; valid rows proceed regardless. The returned report is complete
// even when some requests failed.
func (s *Service) Save(ctx context.Context, user identity.User, rows []SaveRow) (*SaveReport, error) {
	if user.Email == "" {
		return nil, ErrMissingUser
	}

	report := &SaveReport{}

	var techRows, lockRows, wtlRows, delRows []SaveRow

	for _, row := range rows {
		act, reason := classifyRow(row)

		switch act {
		case actionTechReport:
			techRows = append(techRows, row)
		case actionLock:
			lockRows = append(lockRows, row)
		case actionWaitToLock:
			wtlRows = append(wtlRows, row)
		case actionDelete:
			delRows = append(delRows, row)
		case actionNone:
			if reason != "" {
				report.Invalid = append(report.Invalid, InvalidRow{ID: row.ID, Address: row.Address, Reason: reason})
			}
		}
	}

	now := s.now().In(format.Pacific).Format(time.RFC3339)

	report.TechReports = s.patchGroup(ctx, user, "tech_report", techRows, func(row SaveRow) map[string]any {
		return map[string]any{"tech_report_submitted": *row.TechReport}
	})

	report.Locked = s.patchGroup(ctx, user, "lock", lockRows, func(SaveRow) map[string]any {
		return map[string]any{
			"finalized_by":          user.Name,
			"finalized_by_email":    user.Email,
			"finalized_date":        now,
			"rme_completed":         true,
			"report_id":             NewReportID(s.now()),
			"tech_report_submitted": true,
			"status":                workorder.StatusLocked,
		}
	})

	report.WaitToLock = s.patchGroup(ctx, user, "wait_to_lock", wtlRows, func(row SaveRow) map[string]any {
		return map[string]any{
			"wait_to_lock":          true,
			"reason":                row.Details.Reason,
			"notes":                 row.Details.Notes,
			"moved_to_holding_date": now,
			"tech_report_submitted": true,
			"status":                workorder.StatusHolding,
		}
	})

	report.Deleted = s.patchGroup(ctx, user, "status_delete", delRows, func(SaveRow) map[string]any {
		return map[string]any{
			"finalized_by":       user.Name,
			"finalized_by_email": user.Email,
			"finalized_date":     now,
			"rme_completed":      true,
			"status":             workorder.StatusDeleted,
		}
	})

	return report, nil
}

// patchGroup fires all PATCHes in a group concurrently and waits for every
// outcome. Each request targets a distinct row, so there is no intra-group
// ordering to preserve.
func (s *Service) patchGroup(ctx context.Context, user identity.User, name string, rows []SaveRow, fields func(SaveRow) map[string]any) []Result {
	if len(rows) == 0 {
		return nil
	}

	results := make([]Result, len(rows))

	var wg sync.WaitGroup

	for i, row := range rows {
		wg.Add(1)

		go func(i int, row SaveRow) {
			defer wg.Done()

			err := s.repo.PatchWorkOrder(ctx, row.ID, fields(row))
			results[i] = Result{ID: row.ID, Address: row.Address, Err: err}
		}(i, row)
	}

	wg.Wait()

	for _, res := range results {
		if err := s.audit.Record(ctx, audit.NewEntry(user, res.ID, name, res.Err)); err != nil {
			slog.Warn("audit record failed", "action", name, "work_order", res.ID, "error", err)
		}
	}

	return results
}
