package compensation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/avioclaim/flightcheck/internal/services/flights"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

type EligibilityService interface {
	CheckEligibility(ctx context.Context, flightNumber, date string) (*flights.EligibilityResponse, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type API struct {
	svc            EligibilityService
	limiter        RateLimiter
	limitPerMinute int64
}

func New(svc EligibilityService, limiter RateLimiter, limitPerMinute int64) *API {
	return &API{svc: svc, limiter: limiter, limitPerMinute: limitPerMinute}
}

func (a *API) Register(r chi.Router) {
	r.Route("/compensation", func(r chi.Router) {
		r.With(a.rateLimit).Get("/eligibility", a.getEligibility)
	})
}

func (a *API) getEligibility(w http.ResponseWriter, r *http.Request) {
	flightNumber := r.URL.Query().Get("flightNumber")
	date := r.URL.Query().Get("date")

	resp, err := a.svc.CheckEligibility(r.Context(), flightNumber, date)
	if err != nil {
		if errors.Is(err, flights.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("eligibility check failed", "flightNumber", flightNumber, "date", date, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Каждый промах мимо кэша стоит платных вызовов провайдеров,
// поэтому эндпоинт прикрыт per-IP лимитом.
func (a *API) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.limiter == nil || a.limitPerMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		ok, _, err := a.limiter.Allow(r.Context(), "rl:eligibility:"+ip, a.limitPerMinute, time.Minute)
		if err != nil {
			// лимитер недоступен — пропускаем, это не причина отказывать
			slog.Warn("rate limiter unavailable", "err", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
