// bc-proxy exposes a local HTTP front for the ballchasing API. It holds the
// auth key and the quota governor in one place, so several local consumers
// can share a single account budget without coordinating between themselves.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/replaylab/ballchasing-client/pkg/client"
	"github.com/replaylab/ballchasing-client/pkg/logging"
	"github.com/replaylab/ballchasing-client/pkg/transport"
)

func main() {
	authKey := os.Getenv("BALLCHASING_API_KEY")
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "ballchasing-client/0.1.0")

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
		Output: os.Stderr,
	})

	if authKey == "" {
		logger.Fatal().Msg("BALLCHASING_API_KEY is required")
	}

	cfg := client.DefaultConfig(authKey)
	cfg.UserAgent = userAgent

	bc, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create ballchasing client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ping, err := bc.Ping(ctx)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to authenticate against ballchasing API")
	}
	logger.Info().Str("tier", string(ping.Type)).Msg("Authenticated")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/quota", quotaHandler(bc))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/api/*", proxyHandler(bc))

	addr := ":" + port
	logger.Info().Str("addr", addr).Str("user_agent", userAgent).Msg("Starting ballchasing proxy server")

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// quotaHandler reports the governor's current quota estimate.
func quotaHandler(bc *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := bc.Quota()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"requests_per_window": state.RequestsPerWindow,
			"window_seconds":      state.Window.Seconds(),
			"remaining":           state.Remaining,
			"reset_at":            state.ResetAt,
			"discovered":          state.Discovered,
		})
	}
}

// proxyHandler forwards /api/* requests through the governed client, so
// every consumer draws from the same quota budget.
func proxyHandler(bc *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		outcome, err := bc.Do(ctx, transport.Request{
			Method: r.Method,
			Path:   path,
			Query:  r.URL.Query(),
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("upstream request failed: %v", err), http.StatusBadGateway)
			return
		}

		for key, values := range outcome.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(outcome.StatusCode)
		if _, err := w.Write(outcome.Payload); err != nil {
			// Client went away mid-response; nothing to do.
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
