package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jslattery/product-agent/internal/config"
	"github.com/jslattery/product-agent/internal/httpapi"
	"github.com/jslattery/product-agent/internal/provider"
	"github.com/jslattery/product-agent/internal/runner"
	"github.com/jslattery/product-agent/internal/safety"
	"github.com/jslattery/product-agent/internal/session"
	"github.com/jslattery/product-agent/internal/verify"
	"github.com/jslattery/product-agent/tools"
)

func main() {
	cfg := config.Load()
	log.Printf("Starting product agent")
	log.Printf("AI Provider: %s", cfg.AIProvider)

	client, err := provider.New(provider.Settings{
		Provider:        cfg.AIProvider,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
		Timeout:         cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to configure provider: %v", err)
	}

	keywords, err := safety.ClassifierFromEnv()
	if err != nil {
		log.Fatalf("Failed to load safety policy: %v", err)
	}
	classifier := safety.Chain(keywords, safety.SeverityClassifier{})

	toolDefs := tools.Registry()
	r := runner.New(client, toolDefs)
	r.Verifier = &verify.Verifier{Client: client}

	store := session.NewMemoryStore()
	if cfg.SnapshotPath != "" {
		if err := store.Restore(cfg.SnapshotPath); err != nil {
			log.Printf("Session snapshot restore warning: %v", err)
		}
	}

	srv := &httpapi.Server{
		Runner:     r,
		Store:      store,
		Classifier: classifier,
		Tools:      toolDefs,
		DataDir:    cfg.DataDir,
		StaticDir:  cfg.StaticDir,
	}

	httpSrv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: srv.NewRouter(),
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if cfg.SnapshotPath != "" {
		if err := store.Snapshot(cfg.SnapshotPath); err != nil {
			log.Printf("Session snapshot save warning: %v", err)
		}
	}

	log.Println("Server exited")
}
