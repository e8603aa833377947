package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rooterworks/rmetrack/internal/audit"
	"github.com/rooterworks/rmetrack/internal/format"
	"github.com/rooterworks/rmetrack/internal/identity"
	"github.com/rooterworks/rmetrack/internal/rme"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=history
type Repository interface {
	PatchWorkOrder(ctx context.Context, id string, fields map[string]any) error
	DeleteWorkOrder(ctx context.Context, id string) error
}

// Service operates on the soft-deleted subset: moving rows into History,
// bringing them back, and purging them for good. All three take bulk id
// lists and issue their requests concurrently, one per id.
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

// Result is the outcome of one per-id request.
type Result struct {
	ID  string
	Err error
}

// BatchResult reports every id's outcome; a partially-failed batch is normal
// and the caller is expected to show which ids did not land.
type BatchResult struct {
	Results []Result
}

func (b *BatchResult) Succeeded() int {
	n := 0

	for _, r := range b.Results {
		if r.Err == nil {
			n++
		}
	}

	return n
}

func (b *BatchResult) Failed() []Result {
	var out []Result

	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}

	return out
}

// Summary renders the aggregate message for a batch.
func (b *BatchResult) Summary(verb string) string {
	msg := fmt.Sprintf("%d record(s) %s", b.Succeeded(), verb)
	if failed := b.Failed(); len(failed) > 0 {
		msg += fmt.Sprintf(", %d failed", len(failed))
	}

	return msg
}

// SoftDelete hides the given records from the active stages. Reversible;
// deletion metadata records who did it and when.
func (s *Service) SoftDelete(ctx context.Context, user identity.User, ids []string) (*BatchResult, error) {
	if user.Email == "" {
		return nil, rme.ErrMissingUser
	}

	now := s.now().In(format.Pacific).Format(time.RFC3339)

	return s.each(ctx, user, "soft_delete", ids, func(ctx context.Context, id string) error {
		return s.repo.PatchWorkOrder(ctx, id, map[string]any{
			"is_deleted":       true,
			"deleted_by":       user.Name,
			"deleted_by_email": user.Email,
			"deleted_date":     now,
		})
	}), nil
}

// Restore clears only the deletion fields. The classifier re-derives the
// stage from whatever workflow flags remain, so a record soft-deleted while
// in Holding comes back to Holding, not Report-Needed.
func (s *Service) Restore(ctx context.Context, user identity.User, ids []string) (*BatchResult, error) {
	if user.Email == "" {
		return nil, rme.ErrMissingUser
	}

	return s.each(ctx, user, "restore", ids, func(ctx context.Context, id string) error {
		return s.repo.PatchWorkOrder(ctx, id, map[string]any{
			"is_deleted":       false,
			"deleted_by":       "",
			"deleted_by_email": "",
			"deleted_date":     nil,
		})
	}), nil
}

// PermanentDelete erases records entirely. Irreversible; the edges gate it
// behind a stronger confirmation than soft delete.
func (s *Service) PermanentDelete(ctx context.Context, user identity.User, ids []string) (*BatchResult, error) {
	if user.Email == "" {
		return nil, rme.ErrMissingUser
	}

	return s.each(ctx, user, "permanent_delete", ids, s.repo.DeleteWorkOrder), nil
}

func (s *Service) each(ctx context.Context, user identity.User, action string, ids []string, op func(context.Context, string) error) *BatchResult {
	batch := &BatchResult{Results: make([]Result, len(ids))}

	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)

		go func(i int, id string) {
			defer wg.Done()

			batch.Results[i] = Result{ID: id, Err: op(ctx, id)}
		}(i, id)
	}

	wg.Wait()

	for _, res := range batch.Results {
		if err := s.audit.Record(ctx, audit.NewEntry(user, res.ID, action, res.Err)); err != nil {
			slog.Warn("audit record failed", "action", action, "work_order", res.ID, "error", err)
		}
	}

	return batch
}
