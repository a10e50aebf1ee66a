package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avioclaim/flightcheck/config"
	"github.com/avioclaim/flightcheck/internal/broker/kafka"
	"github.com/avioclaim/flightcheck/internal/cache/rediscache"
	"github.com/avioclaim/flightcheck/internal/integrations/flightstatus"
	"github.com/avioclaim/flightcheck/internal/integrations/flightstatus/aerodataboxhttp"
	"github.com/avioclaim/flightcheck/internal/integrations/flightstatus/fake"
	"github.com/avioclaim/flightcheck/internal/integrations/flightstatus/flighterahttp"
	"github.com/avioclaim/flightcheck/internal/integrations/flightstatus/flightstatshttp"
	"github.com/avioclaim/flightcheck/internal/refdata/pgrefdata"
	"github.com/avioclaim/flightcheck/internal/services/flights"
	"github.com/avioclaim/flightcheck/internal/storage/pgflight"
)

type apiApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    apiOpts
	svc     *flights.Service
	limiter *rediscache.RateLimiter
	closers []func()
}

func mustBootstrapAPI() *apiApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.FlightCheck.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.FlightResolvedTopicName
	if topic == "" {
		topic = "flight.resolved"
	}
	cacheTTL := time.Duration(cfg.FlightCheck.EligibilityTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	st := mustOpenFlightsWithRetry(connString(cfg.Database), 60*time.Second)

	refdir := mustOpenRefdataWithRetry(connString(cfg.RefdataDatabase), 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)
	limiter := rediscache.NewRateLimiter(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	producer := kafka.NewProducer(brokers)

	providers := buildProviders(cfg.FlightCheck, refdir)

	svc := flights.New(providers, rc, st, refdir, producer, topic, cacheTTL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &apiApp{
		ctx:    ctx,
		cancel: cancel,
		opts: apiOpts{
			httpAddr:           httpAddr,
			rateLimitPerMinute: cfg.FlightCheck.RateLimitPerMinute,
		},
		svc:     svc,
		limiter: limiter,
		closers: []func(){st.Close, refdir.Close, func() { _ = producer.Close() }},
	}
}

// buildProviders собирает цепочку в фиксированном порядке опроса.
// Провайдер без base_url пропускается; пустая цепочка заменяется фейком,
// чтобы сервис можно было поднять локально без внешних ключей.
func buildProviders(cfg config.FlightCheckConfig, airports *pgrefdata.Directory) []flightstatus.Client {
	var providers []flightstatus.Client
	if cfg.FlighteraBaseURL != "" {
		providers = append(providers, flighterahttp.New(cfg.FlighteraBaseURL, cfg.FlighteraAPIKey, airports))
	}
	if cfg.FlightStatsBaseURL != "" {
		providers = append(providers, flightstatshttp.New(cfg.FlightStatsBaseURL, cfg.FlightStatsAppID, cfg.FlightStatsAppKey))
	}
	if cfg.AeroDataBoxBaseURL != "" {
		providers = append(providers, aerodataboxhttp.New(cfg.AeroDataBoxBaseURL, cfg.AeroDataBoxAPIKey))
	}
	if len(providers) == 0 {
		providers = append(providers, fake.New("fake"))
	}
	return providers
}

func connString(db config.DatabaseConfig) string {
	sslMode := db.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.Username, db.Password, db.Host, db.Port, db.DBName, sslMode)
}

func mustOpenFlightsWithRetry(connString string, wait time.Duration) *pgflight.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgflight.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func mustOpenRefdataWithRetry(connString string, wait time.Duration) *pgrefdata.Directory {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		d, err := pgrefdata.New(connString)
		if err == nil {
			return d
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("refdata postgres is not ready after %s: %v", wait, lastErr))
}

func (a *apiApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for _, c := range a.closers {
		c()
	}
}

func (a *apiApp) Run() error {
	return runAPI(a.ctx, a.opts, a.svc, a.limiter)
}
