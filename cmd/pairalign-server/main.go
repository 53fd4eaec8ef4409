// Command pairalign-server provides a REST API for pairwise alignment.
//
// Usage:
//
//	pairalign-server [options]
//
// Options:
//
//	-config   TOML configuration file (default: ~/.pairalign.toml)
//	-port     Port to listen on, overrides the configuration
//	-host     Host to bind to, overrides the configuration
//	-verbose  Log debug messages
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aria-lang/pairalign/api/handlers"
	"github.com/aria-lang/pairalign/api/middleware"
	"github.com/aria-lang/pairalign/internal/applog"
	"github.com/aria-lang/pairalign/internal/config"
	"github.com/aria-lang/pairalign/pkg/pairalign"
)

func main() {
	configFile := flag.String("config", config.DefaultPath, "TOML configuration file")
	port := flag.Int("port", 0, "Port to listen on")
	host := flag.String("host", "", "Host to bind to")
	verbose := flag.Bool("verbose", false, "Log debug messages")
	flag.Parse()

	log := applog.New("pairalign-server", *verbose)

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("could not load configuration: %s", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}

	h, err := handlers.New(cfg)
	if err != nil {
		log.Fatalf("could not build matrix: %s", err)
	}
	log.Debugf("matrix: %s", cfg.Matrix.Kind)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.Timeout.Duration))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pairalign.Version()))
	})

	// API routes
	r.Route("/api", h.Routes)

	addr := cfg.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.Timeout.Duration + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("could not gracefully shutdown: %s", err)
		}
		close(done)
	}()

	log.Infof("pairalign API server starting on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("could not listen on %s: %s", addr, err)
	}

	<-done
	log.Info("server stopped")
}
