package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Vovarama1992/dialogue-relay/internal/ai"
	"github.com/Vovarama1992/dialogue-relay/internal/bot"
	"github.com/Vovarama1992/dialogue-relay/internal/channel"
	"github.com/Vovarama1992/dialogue-relay/internal/config"
	"github.com/Vovarama1992/dialogue-relay/internal/dialogue"
	"github.com/Vovarama1992/dialogue-relay/internal/relay"
	"github.com/Vovarama1992/dialogue-relay/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	// --- Bots ---
	botRepo := bot.NewRepo(db)
	if cfg.SeedBotToken != "" {
		seedBot(ctx, botRepo, cfg.SeedBotName, cfg.SeedBotToken)
	}

	// --- Responder ---
	var responder ai.Responder
	if cfg.OpenAIAPIKey != "" {
		responder = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAISystemPrompt)
		log.Printf("[main] responder: openai model=%s", cfg.OpenAIModel)
	} else {
		responder = ai.NewStatic(cfg.StaticReply)
		log.Println("[main] responder: static (OPENAI_API_KEY not set)")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// --- Channel module wiring ---
	channelService := channel.NewService(channel.NewRepo(db))
	channel.RegisterRoutes(r, channel.NewHandler(channelService))

	// --- Dialogue module wiring ---
	dialogueService := dialogue.NewService(
		dialogue.NewRepo(db),
		bot.NewAuthenticator(botRepo),
		channelService,
		responder,
		relay.NewClient(cfg.RelayTimeout),
	)
	dialogue.RegisterRoutes(r, dialogue.NewHandler(dialogueService))

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func seedBot(ctx context.Context, repo bot.Repo, name, token string) {
	if _, err := repo.FindBySecret(ctx, token); err == nil {
		return
	} else if !errors.Is(err, bot.ErrUnauthorized) {
		log.Printf("[main] seed bot lookup: %v", err)
		return
	}
	b := &bot.Bot{Name: name, SecretToken: token}
	if err := repo.Create(ctx, b); err != nil {
		log.Printf("[main] seed bot: %v", err)
		return
	}
	log.Printf("[main] seeded bot %s (%s)", b.Name, b.ID)
}
