package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/TheJakeYoon/local-llm/internal/config"
	"github.com/TheJakeYoon/local-llm/internal/domain"
	"github.com/TheJakeYoon/local-llm/internal/http"
	"github.com/TheJakeYoon/local-llm/internal/http/middleware"
	"github.com/TheJakeYoon/local-llm/internal/observability"
	"github.com/TheJakeYoon/local-llm/internal/provider/ollama"
	"github.com/TheJakeYoon/local-llm/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	// The logger parameter forces InitLogger to run before the server
	// starts; handlers reach it through observability.FromContext.
	err := container.Invoke(func(_ *zap.Logger, server *http.Server) {
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case startErr := <-errCh:
			if startErr != nil {
				log.Fatalf("Server failed to start: %v", startErr)
			}
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
				log.Fatalf("Server failed to shut down cleanly: %v", shutdownErr)
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Ollama client behind the domain adapter seam
	if err := container.Provide(func(cfg *config.OllamaConfig) domain.ChatClient {
		return ollama.NewClient(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Ollama client: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewProxyService); err != nil {
		log.Fatalf("Failed to provide proxy service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(func() fs.FS { return web.Static() }); err != nil {
		log.Fatalf("Failed to provide UI assets: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
