package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formgen-kendo/pkg/orchestrator"
	"github.com/goliatone/go-formgen-kendo/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8383", "HTTP listen address")
	maxBody := flag.Int64("max-body", 1<<20, "maximum request body size in bytes")
	grace := flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	flag.Parse()

	handler := server.New(orchestrator.New(), server.WithMaxBodyBytes(*maxBody))
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on %s", *addr)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("listen: %v", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
