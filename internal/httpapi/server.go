// Package httpapi exposes the stateless interview core over HTTP. All
// conversation state (follow-up counts, transcripts, remaining time) is
// supplied by the caller on every request, so the service itself holds
// nothing between calls.
package httpapi

import (
	"net/http"

	"github.com/candidly/intervu/internal/interview"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Deps aggregates the core components the handlers delegate to.
type Deps struct {
	Engine    *interview.Engine
	Followups *interview.FollowupGenerator
	Questions *interview.QuestionGenerator
	Reports   *interview.ReportGenerator
	Logger    *zap.Logger
	// MaxAnswerWords overrides the interruption monitor's word budget when
	// a request does not carry its own.
	MaxAnswerWords int
}

// NewRouter builds the API router.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	h := &handlers{deps: deps}

	r := mux.NewRouter()
	r.Use(requestLogging(deps.Logger))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/evaluate-answer", h.evaluateAnswer).Methods(http.MethodPost)
	api.HandleFunc("/generate-followup", h.generateFollowup).Methods(http.MethodPost)
	api.HandleFunc("/next-question", h.nextQuestion).Methods(http.MethodPost)
	api.HandleFunc("/should-interrupt", h.shouldInterrupt).Methods(http.MethodPost)
	api.HandleFunc("/final-report", h.finalReport).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return r
}

func requestLogging(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r)
		})
	}
}
