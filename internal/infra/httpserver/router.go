package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bryanwahyu/feedback-radar/internal/application/analysis"
	appfeedback "github.com/bryanwahyu/feedback-radar/internal/application/feedback"
	"github.com/bryanwahyu/feedback-radar/internal/middleware"
)

type Router struct {
	feedbackSvc *appfeedback.Service
	analysisSvc *appanalysis.Service
}

func NewRouter(feedbackSvc *appfeedback.Service, analysisSvc *appanalysis.Service) http.Handler {
	r := &Router{feedbackSvc: feedbackSvc, analysisSvc: analysisSvc}
	mux := chi.NewRouter()

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/analysis", r.wrap(r.handleRunAnalysis))
		rt.Get("/analysis/top", r.wrap(r.handleTopRisks))
		rt.Post("/analysis/export", r.wrap(r.handleExport))
		rt.Get("/feedback", r.wrap(r.handleListFeedback))
		rt.Post("/feedback", r.wrap(r.handleIngestFeedback))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks caller mistakes so wrap can answer 400
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var badReq badRequestError
			if errors.As(err, &badReq) {
				http.Error(w, badReq.msg, http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /v1/analysis
// Runs the full risk analysis (or serves the cached one within its TTL).
func (r *Router) handleRunAnalysis(w http.ResponseWriter, req *http.Request) error {
	middleware.IncrementAnalyses()

	res, err := r.analysisSvc.Run(req.Context())
	if err != nil {
		return err
	}
	if res.Cached {
		middleware.IncrementAnalysesCached()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(res)
}

// GET /v1/analysis/top
func (r *Router) handleTopRisks(w http.ResponseWriter, req *http.Request) error {
	view, err := r.analysisSvc.TopRisks(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(view)
}

// POST /v1/analysis/export
// Uploads the current analysis JSON to object storage.
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	url, err := r.analysisSvc.Export(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// GET /v1/feedback?limit=50
// Raw listing, newest first, records unmodified.
func (r *Router) handleListFeedback(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.feedbackSvc.Latest(req.Context(), limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// POST /v1/feedback
// Body: {"source": "...", "content": "...", "category": "...", "user_type": "..."}
func (r *Router) handleIngestFeedback(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Source   string `json:"source"`
		Content  string `json:"content"`
		Category string `json:"category"`
		UserType string `json:"user_type"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestError{msg: fmt.Sprintf("invalid body: %v", err)}
	}

	if err := middleware.ValidateContent(body.Content); err != nil {
		return badRequestError{msg: err.Error()}
	}
	if err := middleware.ValidateCategory(body.Category); err != nil {
		return badRequestError{msg: err.Error()}
	}
	if err := middleware.ValidateUserType(body.UserType); err != nil {
		return badRequestError{msg: err.Error()}
	}

	rec, err := r.feedbackSvc.Ingest(req.Context(), appfeedback.IngestCommand{
		Source:   body.Source,
		Content:  body.Content,
		Category: body.Category,
		UserType: body.UserType,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(rec)
}
