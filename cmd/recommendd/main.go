package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"roombooking-backend/config"
	"roombooking-backend/internal/db"
	"roombooking-backend/internal/enrich"
	"roombooking-backend/internal/recommend"
	"roombooking-backend/internal/roomcache"
	"roombooking-backend/internal/store"
)

// recommendd reads one booking request as JSON on stdin and prints the
// ranked recommendation candidates as JSON on stdout. It is a local driver
// for the recommendation library, not a network service.
func main() {
	var (
		configPath   = flag.String("config", "", "path to config file (defaults to $CONFIG_PATH or ./config/config.yaml)")
		refreshRooms = flag.Bool("refresh-rooms", false, "refresh the room-name cache and print the known rooms")
	)
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", path, err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	appStore := store.NewGormStore(gormDB)
	rooms := roomcache.New(appStore, time.Duration(cfg.Cache.RoomTTLSeconds)*time.Second, logger)

	ctx := context.Background()

	if *refreshRooms {
		if err := rooms.Refresh(ctx); err != nil {
			log.Fatalf("failed to refresh room cache: %v", err)
		}
		known, err := rooms.Known(ctx)
		if err != nil {
			log.Fatalf("failed to read room cache: %v", err)
		}
		if err := json.NewEncoder(os.Stdout).Encode(known); err != nil {
			log.Fatalf("failed to write room list: %v", err)
		}
		return
	}

	engine := recommend.NewEngine(appStore, cfg.Recommend, logger)
	engine.SetRoomCache(rooms)

	if cfg.OpenAI.APIKey != "" {
		client := openai.NewClient(cfg.OpenAI.APIKey)
		limiter := rate.NewLimiter(rate.Limit(cfg.OpenAI.RateLimitPerSec), cfg.OpenAI.Burst)

		embedder := enrich.NewOpenAIEmbedder(client, cfg.OpenAI.EmbeddingModel, limiter)
		engine.SetMLScorer(enrich.NewMLScorer(embedder, logger))

		chat := enrich.NewOpenAIChat(client, cfg.OpenAI.ChatModel, limiter, cfg.OpenAI.Timeout, logger)
		engine.SetLLMScorer(enrich.NewLLMScorer(chat, logger))
	}

	status := engine.Status()
	logger.Info("engine ready",
		zap.String("mode", status.Mode),
		zap.Bool("ml", status.MLAvailable),
		zap.Bool("llm", status.LLMAvailable))

	var raw recommend.RawRequest
	if err := json.NewDecoder(os.Stdin).Decode(&raw); err != nil {
		log.Fatalf("failed to decode request from stdin: %v", err)
	}

	candidates, err := engine.RecommendRaw(ctx, raw)
	if err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(candidates); err != nil {
		log.Fatalf("failed to write candidates: %v", err)
	}
}
