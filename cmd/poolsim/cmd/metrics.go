package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paw-chain/pawpool/app/health"
)

// startMetricsServer serves the Prometheus registry and the health endpoints on addr until
// ctx is done. The returned function shuts the server down and waits for it.
func startMetricsServer(ctx context.Context, addr string, checker *health.Checker, logger log.Logger) func() {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	checker.RegisterRoutes(router)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		<-done
	}
}
