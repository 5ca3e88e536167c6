package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/ai"
	"github.com/tweetsmith/tweetsmith/internal/config"
	"github.com/tweetsmith/tweetsmith/internal/copycat"
	"github.com/tweetsmith/tweetsmith/internal/db"
	"github.com/tweetsmith/tweetsmith/internal/httpapi"
	"github.com/tweetsmith/tweetsmith/internal/store/rabbitmq"
	"github.com/tweetsmith/tweetsmith/internal/store/redisstore"
	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set; generation and copycat requests will fail")
	}

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}

	attempts := make([]ai.Attempt, 0, 1+len(cfg.GeminiFallbackModels))
	if cfg.OpenRouterAPIKey != "" {
		attempts = append(attempts, ai.Attempt{
			Name: "openrouter/" + cfg.OpenRouterModel,
			Provider: ai.NewOpenRouterProvider(
				cfg.OpenRouterBaseURL,
				cfg.OpenRouterAPIKey,
				cfg.OpenRouterModel,
				cfg.OpenRouterSiteURL,
				cfg.OpenRouterAppName,
			),
		})
	} else {
		log.Warn("OPENROUTER_API_KEY not set; primary backend disabled")
	}
	for _, model := range cfg.GeminiFallbackModels {
		attempts = append(attempts, ai.Attempt{
			Name:     "gemini/" + model,
			Provider: ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, model),
		})
	}
	gateway := ai.NewGateway(log, attempts...)

	repo := tweet.NewRepo(gdb)
	var recorder tweet.Recorder = repo
	if cfg.HistoryAsync {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.WithError(err).Fatal("rabbit connect failed")
		}
		defer pub.Close()
		recorder = pub
		log.WithField("queue", cfg.RabbitQueue).Info("history writes go through rabbitmq")
	}

	tweets := tweet.NewService(repo, recorder, gateway, log)
	cc := copycat.NewService(
		ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiCopycatModel),
		log,
	)

	var rds *redisstore.Store
	if cfg.RedisAddr != "" {
		rds = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rds.Close()
	}

	router := httpapi.NewRouter(cfg, log, tweets, cc, rds)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", srv.Addr).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
