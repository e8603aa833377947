package rme

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rooterworks/rmetrack/internal/audit"
	"github.com/rooterworks/rmetrack/internal/identity"
	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

// Trail reads back recorded mutations for one work order. nil when no audit
// database is configured.
type Trail interface {
	Recent(ctx context.Context, workOrderID string, limit int) ([]audit.Entry, error)
}

type Handler struct {
	svc   *rme.Service
	cache *workorder.Cache
	trail Trail
}

func NewHandler(svc *rme.Service, cache *workorder.Cache, trail Trail) *Handler {
	return &Handler{svc: svc, cache: cache, trail: trail}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stages", h.stages)
	r.Post("/save", h.save)
	r.Get("/audit/{workOrderID}", h.auditTrail)
}

func (h *Handler) stages(w http.ResponseWriter, r *http.Request) {
	records, err := h.cache.Active(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	buckets := rme.Classify(records, time.Now())

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toStagesResponse(buckets)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type saveRowRequest struct {
	ID         string       `json:"id"`
	TechReport *bool        `json:"tech_report,omitempty"`
	Locked     bool         `json:"locked"`
	WaitToLock bool         `json:"wait_to_lock"`
	Delete     bool         `json:"delete"`
	Details    *rme.Details `json:"details,omitempty"`
}

type saveRequest struct {
	Rows []saveRowRequest `json:"rows"`
}

// save rebuilds each row's intent against the current snapshot and hands the
// batch to the orchestrator. Intents coming over the wire are untrusted, so
// ids not in the collection are reported invalid rather than patched blindly.
func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.cache.Active(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	byID := make(map[string]workorder.WorkOrder, len(records))
	for _, wo := range records {
		byID[wo.ID] = wo
	}

	var (
		rows    []rme.SaveRow
		unknown []rme.InvalidRow
	)

	for _, rr := range req.Rows {
		wo, ok := byID[rr.ID]
		if !ok {
			// No record means no address; label with the id so the summary
			// does not read like a street address.
			unknown = append(unknown, rme.InvalidRow{ID: rr.ID, Address: "id " + rr.ID, Reason: "unknown work order"})
			continue
		}

		row := rme.SaveRow{
			ID:            wo.ID,
			Address:       wo.FullAddress,
			TechSubmitted: wo.TechReportSubmitted,
			TechReport:    rr.TechReport,
			Lock:          rr.Locked,
			WaitToLock:    rr.WaitToLock,
			Delete:        rr.Delete,
		}
		if rr.Details != nil {
			row.Details = *rr.Details
		}

		rows = append(rows, row)
	}

	report, err := h.svc.Save(r.Context(), user, rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report.Invalid = append(report.Invalid, unknown...)

	// The collection changed underneath the cache; next read refetches.
	h.cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSaveResponse(report)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	if h.trail == nil {
		http.Error(w, "audit trail not configured", http.StatusNotFound)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	entries, err := h.trail.Recent(r.Context(), chi.URLParam(r, "workOrderID"), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toAuditResponses(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
