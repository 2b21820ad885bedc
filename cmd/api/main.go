package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/breverdbidder/property360-sale-advisor/internal/adapters/http"
	"github.com/breverdbidder/property360-sale-advisor/internal/bootstrap"
	"github.com/breverdbidder/property360-sale-advisor/internal/config"
	"github.com/breverdbidder/property360-sale-advisor/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, "api", cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(
		app.UploadUC,
		app.AnalyzeUC,
		app.Sessions,
		app.Docs,
		app.Catalog,
		serverMetrics,
		httpadapter.Options{
			ServiceName:           "api",
			RateLimitRPS:          cfg.AnalyzeRatePerSecond,
			RateLimitBurst:        cfg.AnalyzeRateBurst,
			MaxConcurrentRequests: cfg.MaxConcurrentRequests,
			BackpressureWait:      cfg.BackpressureWait,
		},
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", serverMetrics.Handler())
	mux.Handle("/", router.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
