package handler

import (
	"context"
	"net"
	"net/http"

	"evaluation/internal/metrics"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Resource keys of the list endpoints.
const (
	KeyReviewers  = "reviewers"
	KeyReviewer   = "reviewer"
	KeyEvaluation = "evaluation"
)

// Dependencies bundles what the routes need. Nil optional fields disable
// their routes or hooks.
type Dependencies struct {
	// Lifetime bounds background work started by requests. See Lifetime.
	Lifetime  context.Context
	Reviewers ReviewerStore
	Progress  ProgressSource
	Importer  Importer
	DB        Pinger
	Metrics   *metrics.Metrics
	UploadDir string
	Log       *zap.Logger
}

// NewRouter registers every route. Fixed /reviewer/... paths come before
// /reviewer/{name} so they win the match.
func NewRouter(deps Dependencies) *mux.Router {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	lifetime := deps.Lifetime
	if lifetime == nil {
		lifetime = context.Background()
	}

	var recorder WriteRecorder
	var observer HTTPObserver
	if deps.Metrics != nil {
		recorder = deps.Metrics
		observer = deps.Metrics
	}

	r := mux.NewRouter()
	r.Use(Instrument(observer, log))

	reviewers := NewReviewerHandler(deps.Reviewers, recorder, log)
	r.HandleFunc("/reviewer/list", reviewers.List(KeyReviewers)).Methods(http.MethodGet)
	r.HandleFunc("/reviewer/average", reviewers.Average).Methods(http.MethodGet)

	if deps.Importer != nil {
		upload := NewUploadHandler(lifetime, deps.Importer, deps.UploadDir, log)
		r.HandleFunc("/reviewer/import", upload.UploadCSV).Methods(http.MethodPost)
	}
	if deps.Progress != nil {
		progress := NewProgressHandler(deps.Progress, log)
		r.HandleFunc("/reviewer/import/progress", progress.GetAllProgress).Methods(http.MethodGet)
		r.HandleFunc("/reviewer/import/progress/file", progress.GetFileProgress).Methods(http.MethodGet)
		r.HandleFunc("/reviewer/import/events", progress.SSEProgress).Methods(http.MethodGet)
	}

	r.HandleFunc("/reviewer", reviewers.List(KeyReviewer)).Methods(http.MethodGet)
	r.HandleFunc("/reviewer", reviewers.Register).Methods(http.MethodPut)
	r.HandleFunc("/reviewer/{name:[a-zA-Z0-9_@.]+}", reviewers.View).Methods(http.MethodGet)
	r.HandleFunc("/reviewer/{name:[a-zA-Z0-9_@.]+}", reviewers.Update).Methods(http.MethodPost)
	r.HandleFunc("/reviewer/{name:[a-zA-Z0-9_@.]+}", reviewers.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/evaluation", reviewers.List(KeyEvaluation)).Methods(http.MethodGet)

	r.HandleFunc("/healthz", NewHealthHandler(deps.DB).Health).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// Lifetime makes the returned context the parent of every request context of
// srv and cancels it as soon as Shutdown starts. Shutdown does not cancel
// requests on its own, so event streams and imports watch this to let it
// finish.
func Lifetime(srv *http.Server) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	srv.BaseContext = func(net.Listener) context.Context { return ctx }
	srv.RegisterOnShutdown(cancel)
	return ctx
}
