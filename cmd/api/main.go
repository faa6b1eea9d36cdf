package main

import (
	"context"
	"log"

	"github.com/justsurfingit/JobConnect/internal/ads"
	"github.com/justsurfingit/JobConnect/internal/auth"
	"github.com/justsurfingit/JobConnect/internal/config"
	"github.com/justsurfingit/JobConnect/internal/database"
	"github.com/justsurfingit/JobConnect/internal/handlers"
	"github.com/justsurfingit/JobConnect/internal/services"
)

func main() {
	ctx := context.Background()

	// 1. Configuration (.env, config.yaml, environment)
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// 2. Key-value store
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}

	// 3. Core services
	jobService := services.NewJobService(store)
	sessionService := services.NewSessionService(store, ads.SystemScheduler{}, cfg.Placements(), cfg.Timing())
	llmService := newLLMService(ctx, cfg)

	if _, err := jobService.List(ctx); err != nil {
		log.Printf("⚠️  Job list unavailable: %v", err)
	}
	if restored, err := sessionService.Restore(ctx); err != nil {
		log.Printf("⚠️  Could not restore session: %v", err)
	} else if !restored {
		log.Println("No saved session, waiting for login")
	}

	// 4. Router
	r := handlers.NewRouter(handlers.Deps{
		Jobs:     jobService,
		Sessions: sessionService,
		LLM:      llmService,
		Matcher:  services.NewMatcherService(),
		Gate:     auth.NewOTPGate(),
	})

	log.Printf("🚀 Server starting on port %s (store: %s)...", cfg.Port, cfg.StoreBackend)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (database.KVStore, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return database.NewRedisStore(client, cfg.RedisPrefix), nil
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return database.NewGormStore(db), nil
	}
	log.Println("⚠️  Using in-memory store; data is lost on restart")
	return database.NewMemoryStore(), nil
}

// newLLMService returns a generator even without an API key; it then answers
// every request with the fallback text.
func newLLMService(ctx context.Context, cfg *config.Config) *services.LLMService {
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️  GEMINI_API_KEY is empty, description generation disabled")
		return &services.LLMService{Timeout: cfg.GenerateTimeout}
	}

	if cfg.LLMProvider == config.ProviderGenAI {
		model, err := services.NewGenAIModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("⚠️  Gemini (genai) unavailable: %v", err)
			return &services.LLMService{Timeout: cfg.GenerateTimeout}
		}
		return &services.LLMService{Client: model, Timeout: cfg.GenerateTimeout}
	}

	svc, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerateTimeout)
	if err != nil {
		log.Printf("⚠️  Gemini unavailable: %v", err)
		return &services.LLMService{Timeout: cfg.GenerateTimeout}
	}
	log.Println("✅ Gemini client ready")
	return svc
}
