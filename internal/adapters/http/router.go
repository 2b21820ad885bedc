package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/usecase"
	"github.com/breverdbidder/property360-sale-advisor/internal/observability/metrics"
)

const (
	ownerHeader    = "X-Owner-Id"
	propertyHeader = "X-Property-Id"

	defaultProperty = "default"
)

// Options tunes the traffic-control middleware. Zero values disable the
// corresponding gate.
type Options struct {
	ServiceName           string
	RateLimitRPS          float64
	RateLimitBurst        int
	MaxConcurrentRequests int
	BackpressureWait      time.Duration
}

type Router struct {
	uploadUC  *usecase.UploadDocumentUseCase
	analyzeUC ports.DocumentAnalysisService
	sessions  *usecase.SessionManager
	docs      ports.DocumentStore
	catalog   ports.CatalogProvider
	metrics   *metrics.HTTPServerMetrics
	options   Options
}

func NewRouter(
	uploadUC *usecase.UploadDocumentUseCase,
	analyzeUC ports.DocumentAnalysisService,
	sessions *usecase.SessionManager,
	docs ports.DocumentStore,
	catalog ports.CatalogProvider,
	serverMetrics *metrics.HTTPServerMetrics,
	options Options,
) *Router {
	if options.ServiceName == "" {
		options.ServiceName = "api"
	}
	return &Router{
		uploadUC:  uploadUC,
		analyzeUC: analyzeUC,
		sessions:  sessions,
		docs:      docs,
		catalog:   catalog,
		metrics:   serverMetrics,
		options:   options,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/analyze", rt.analyzeContent)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/suggestions/apply-all", rt.applyAllStaged)
	mux.HandleFunc("/v1/suggestions/dismiss", rt.dismissStaged)
	mux.HandleFunc("/v1/checklist", rt.checklistState)
	mux.HandleFunc("/v1/checklist/toggle", rt.toggleItem)
	mux.HandleFunc("/v1/checklist/reset", rt.resetChecklist)

	var handler http.Handler = mux
	if rt.options.MaxConcurrentRequests > 0 {
		handler = backpressureMiddleware(handler, rt.options.MaxConcurrentRequests, rt.options.BackpressureWait)
	}
	if rt.options.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.options.ServiceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scopeFrom identifies whose checklist a request operates on. The property
// defaults so single-property owners need only the owner header.
func scopeFrom(r *http.Request) (ownerID, propertyID string) {
	ownerID = r.Header.Get(ownerHeader)
	propertyID = r.Header.Get(propertyHeader)
	if propertyID == "" {
		propertyID = defaultProperty
	}
	return ownerID, propertyID
}

func (rt *Router) session(w http.ResponseWriter, r *http.Request) (*usecase.ChecklistSession, bool) {
	ownerID, propertyID := scopeFrom(r)
	session, err := rt.sessions.Session(r.Context(), ownerID, propertyID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return session, true
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
