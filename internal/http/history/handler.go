package history

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rooterworks/rmetrack/internal/history"
	"github.com/rooterworks/rmetrack/internal/identity"
	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

// purgeConfirm is the phrase the frontend must echo before a permanent
// delete. Deliberately stronger than the boolean used for reversible moves.
const purgeConfirm = "PERMANENT"

type Handler struct {
	svc   *history.Service
	cache *workorder.Cache
}

func NewHandler(svc *history.Service, cache *workorder.Cache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/delete", h.softDelete)
	r.Post("/restore", h.restore)
	r.Post("/purge", h.purge)
}

type historyRowResponse struct {
	ID             string `json:"id"`
	WONumber       string `json:"wo_number"`
	Technician     string `json:"technician"`
	FullAddress    string `json:"full_address"`
	Scheduled      string `json:"scheduled_display"`
	DeletedBy      string `json:"deleted_by"`
	DeletedByEmail string `json:"deleted_by_email"`
	DeletedDate    string `json:"deleted_date"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.cache.Deleted(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	rows := rme.DecorateHistory(records, time.Now())

	out := make([]historyRowResponse, len(rows))
	for i, row := range rows {
		out[i] = historyRowResponse{
			ID:             row.ID,
			WONumber:       row.WONumber,
			Technician:     row.Technician,
			FullAddress:    row.FullAddress,
			Scheduled:      row.ScheduledDisplay,
			DeletedBy:      row.DeletedBy,
			DeletedByEmail: row.DeletedByEmail,
			DeletedDate:    row.DeletedDate,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type batchRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm"`
}

type batchResponse struct {
	Summary string           `json:"summary"`
	Results []resultResponse `json:"results"`
}

type resultResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

func toBatchResponse(batch *history.BatchResult, verb string) batchResponse {
	resp := batchResponse{Summary: batch.Summary(verb)}

	for _, res := range batch.Results {
		rr := resultResponse{ID: res.ID}
		if res.Err != nil {
			rr.Error = res.Err.Error()
		}

		resp.Results = append(resp.Results, rr)
	}

	return resp
}

type batchOp func(r *http.Request, user identity.User, ids []string) (*history.BatchResult, error)

func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request, verb string, op batchOp) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Confirm {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}

	if len(req.IDs) == 0 {
		http.Error(w, "no ids given", http.StatusBadRequest)
		return
	}

	batch, err := op(r, user, req.IDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBatchResponse(batch, verb)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, "moved to history", func(r *http.Request, user identity.User, ids []string) (*history.BatchResult, error) {
		return h.svc.SoftDelete(r.Context(), user, ids)
	})
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, "restored", func(r *http.Request, user identity.User, ids []string) (*history.BatchResult, error) {
		return h.svc.Restore(r.Context(), user, ids)
	})
}

type purgeRequest struct {
	IDs     []string `json:"ids"`
	Confirm string   `json:"confirm"`
}

// purge permanently deletes records. This cannot be undone, so the request
// must carry the explicit confirmation phrase, not just a boolean.
func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req purgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Confirm != purgeConfirm {
		http.Error(w, `permanent deletion requires confirm="PERMANENT"`, http.StatusBadRequest)
		return
	}

	if len(req.IDs) == 0 {
		http.Error(w, "no ids given", http.StatusBadRequest)
		return
	}

	batch, err := h.svc.PermanentDelete(r.Context(), user, req.IDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBatchResponse(batch, "permanently deleted")); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
