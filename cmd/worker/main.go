package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/config"
	"github.com/tweetsmith/tweetsmith/internal/db"
	"github.com/tweetsmith/tweetsmith/internal/store/rabbitmq"
	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	repo := tweet.NewRepo(gdb)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.WithError(err).Fatal("rabbit dial failed")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Fatal("rabbit channel failed")
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		log.WithError(err).Fatal("queue declare failed")
	}

	concurrency := workerConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.WithError(err).Fatal("qos failed")
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.WithError(err).Fatal("consume failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"queue":       cfg.RabbitQueue,
		"concurrency": concurrency,
	}).Info("history worker started")

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m rabbitmq.HistoryMessage
				if err := json.Unmarshal(d.Body, &m); err != nil || m.ID == "" {
					log.WithField("worker", workerID).WithError(err).Warn("bad message")
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleMessage(ctx, repo, &m); err != nil {
					log.WithFields(logrus.Fields{
						"worker":    workerID,
						"record_id": m.ID,
						"cost":      time.Since(start).String(),
					}).WithError(err).Warn("history insert failed")
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.WithFields(logrus.Fields{
						"worker":    workerID,
						"record_id": m.ID,
					}).WithError(err).Warn("ack failed")
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Warn("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

func handleMessage(ctx context.Context, repo *tweet.Repo, m *rabbitmq.HistoryMessage) error {
	return repo.Record(ctx, &tweet.HistoryRecord{
		ID:           m.ID,
		VisitorID:    m.VisitorID,
		OriginalText: m.OriginalText,
		ImprovedText: m.ImprovedText,
		IsThread:     m.IsThread,
		Mode:         m.Mode,
		CreatedAt:    m.CreatedAt,
	})
}
