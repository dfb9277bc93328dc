package handler

import (
	"context"
	"net/http"

	"evaluation/internal/model"
	"evaluation/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ReviewerStore is the subset of the reviewer service the handlers call.
type ReviewerStore interface {
	Create(ctx context.Context, in service.ReviewerInput) (*model.Reviewer, error)
	Update(ctx context.Context, name string, in service.ReviewerInput) (*model.Reviewer, error)
	Delete(ctx context.Context, name string) error
	GetByName(ctx context.Context, name string) (*model.Reviewer, error)
	List(ctx context.Context, sort service.SortCriteria) ([]model.Reviewer, error)
	Average(ctx context.Context) (model.AverageSummary, error)
}

// WriteRecorder counts successful writes.
type WriteRecorder interface {
	ReviewerWrite(op string)
}

type ReviewerHandler struct {
	store    ReviewerStore
	recorder WriteRecorder
	log      *zap.Logger
}

func NewReviewerHandler(store ReviewerStore, recorder WriteRecorder, log *zap.Logger) *ReviewerHandler {
	return &ReviewerHandler{store: store, recorder: recorder, log: log.Named("handler")}
}

// List serves the active rows wrapped under key, e.g. {"reviewers": [...]}.
func (h *ReviewerHandler) List(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sort, err := sortCriteria(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		reviewers, err := h.store.List(r.Context(), sort)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		records := make([]model.Record, 0, len(reviewers))
		for _, rev := range reviewers {
			records = append(records, rev.Record())
		}
		writeJSON(w, http.StatusOK, map[string][]model.Record{key: records})
	}
}

// Register handles PUT /reviewer.
func (h *ReviewerHandler) Register(w http.ResponseWriter, r *http.Request) {
	fields, err := reviewerFields(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	in, err := reviewerInput(fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rev, err := h.store.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record("create")
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", ID: rev.ID})
}

// Update handles POST /reviewer/{name}. Absent fields keep their value.
func (h *ReviewerHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	fields, err := reviewerFields(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	in, err := reviewerInput(fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if _, err := h.store.Update(r.Context(), name, in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.record("update")
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Delete handles DELETE /reviewer/{name}.
func (h *ReviewerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		h.fail(w, r, err)
		return
	}
	h.record("delete")
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// View handles GET /reviewer/{name}.
func (h *ReviewerHandler) View(w http.ResponseWriter, r *http.Request) {
	rev, err := h.store.GetByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rec := rev.Record()
	rec.ID = ""
	writeJSON(w, http.StatusOK, rec)
}

// Average handles GET /reviewer/average.
func (h *ReviewerHandler) Average(w http.ResponseWriter, r *http.Request) {
	avg, err := h.store.Average(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avg)
}

func (h *ReviewerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Warn("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeServiceError(w, err)
}

func (h *ReviewerHandler) record(op string) {
	if h.recorder != nil {
		h.recorder.ReviewerWrite(op)
	}
}
