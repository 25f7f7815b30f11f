package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/m-mizutani/goerr/v2"

	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/usecase"
	"github.com/legisdesk/casetriage/pkg/utils/errutil"
	"github.com/legisdesk/casetriage/pkg/utils/logging"
	"github.com/legisdesk/casetriage/pkg/utils/safe"
)

type Server struct {
	router  *chi.Mux
	uc      *usecase.UseCases
	limiter *DailyLimiter
}

type Options func(*Server)

// WithDailyLimiter replaces the default limiter. Used to enable the
// production per-address quota, and by tests to inject a limiter with a
// fixed clock.
func WithDailyLimiter(l *DailyLimiter) Options {
	return func(s *Server) {
		s.limiter = l
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:  r,
		uc:      uc,
		limiter: NewDailyLimiter(DefaultDailyLimit, false),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/sample-cases", s.handleSampleCases)
	r.Get("/cases", s.handleListCases)
	r.Post("/run-agent", s.handleRunAgent)
	r.Post("/cases/{caseID}/advance", s.handleAdvanceCase)
	r.Post("/generate-drafts", s.handleGenerateDrafts)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Caseworker Agent API",
	})
}

func (s *Server) handleSampleCases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"cases": model.SampleMessages(),
	})
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.uc.Triage.ListCases(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if cases == nil {
		cases = []*model.Case{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cases": cases})
}

// runAgentResult is one entry of the run-agent response: the triaged case
// on success, the failure message otherwise.
type runAgentResult struct {
	ID    string      `json:"id"`
	Case  *model.Case `json:"case,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (s *Server) handleRunAgent(w http.ResponseWriter, r *http.Request) {
	addr := clientAddr(r)
	if !s.limiter.Allow(addr) {
		writeJSON(w, r, http.StatusTooManyRequests, map[string]string{
			"detail": "Daily limit reached (5 calls/day). Please try again tomorrow.",
		})
		return
	}

	var msgs []model.Message
	if err := json.NewDecoder(r.Body).Decode(&msgs); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid run-agent request body"), http.StatusBadRequest)
		return
	}

	results := s.uc.Triage.ProcessBatch(r.Context(), msgs)

	resp := make([]runAgentResult, len(results))
	for i, res := range results {
		resp[i] = runAgentResult{ID: res.Message.ID, Case: res.Case}
		if res.Err != nil {
			_ = errutil.Handle(r.Context(), res.Err, "triage failed for message")
			resp[i].Error = res.Err.Error()
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"results": resp})
}

func (s *Server) handleAdvanceCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	c, err := s.uc.Advance.AdvanceStep(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, usecase.ErrCaseNotFound) {
			writeJSON(w, r, http.StatusOK, map[string]any{
				"success": false,
				"message": "Case not found",
			})
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"case":    c,
	})
}

func (s *Server) handleGenerateDrafts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CaseData *model.Case `json:"caseData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid generate-drafts request body"), http.StatusBadRequest)
		return
	}
	if req.CaseData == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.New("caseData required"), http.StatusBadRequest)
		return
	}

	out := s.uc.Stage.GenerateStageDrafts(r.Context(), req.CaseData)
	writeJSON(w, r, http.StatusOK, out)
}

// clientAddr returns the host part of the request's remote address. The
// port changes per connection, so rate limiting keys on the host alone.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
