package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/avioclaim/flightcheck/internal/api/compensation"
	"github.com/go-chi/chi/v5"
)

type apiOpts struct {
	httpAddr string

	rateLimitPerMinute int64

	onListen func(httpAddr string)
}

func runAPI(ctx context.Context, opts apiOpts, svc compensation.EligibilityService, limiter compensation.RateLimiter) error {
	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}

	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	compensation.New(svc, limiter, opts.rateLimitPerMinute).Register(r)

	srv := &http.Server{Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
