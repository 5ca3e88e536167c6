package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

// Publisher pushes history records onto a durable queue so the API
// process never blocks on, or fails because of, the database write.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// HistoryMessage is the wire form of one history write.
type HistoryMessage struct {
	ID           string    `json:"id"`
	VisitorID    string    `json:"visitor_id"`
	OriginalText string    `json:"original_text"`
	ImprovedText string    `json:"improved_text"`
	IsThread     bool      `json:"is_thread"`
	Mode         string    `json:"mode"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := DeclareTopology(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// DeclareTopology sets up the main/retry/DLQ trio shared by the
// publisher and the worker.
func DeclareTopology(ch *amqp.Channel, queue string) error {
	mainQ := queue
	retryQ := queue + ".retry"
	dlqQ := queue + ".dlq"

	if _, err := ch.QueueDeclare(
		dlqQ,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		return err
	}

	// Retry queue: message TTL -> dead-letter back to main queue
	if _, err := ch.QueueDeclare(
		retryQ,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": mainQ,
		},
	); err != nil {
		return err
	}

	// Main queue: dead-letter to DLQ on reject/nack(requeue=false)
	if _, err := ch.QueueDeclare(
		mainQ,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": dlqQ,
		},
	); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Record satisfies tweet.Recorder: instead of inserting, publish the
// record for the worker to persist.
func (p *Publisher) Record(ctx context.Context, rec *tweet.HistoryRecord) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	body, err := json.Marshal(HistoryMessage{
		ID:           rec.ID,
		VisitorID:    rec.VisitorID,
		OriginalText: rec.OriginalText,
		ImprovedText: rec.ImprovedText,
		IsThread:     rec.IsThread,
		Mode:         rec.Mode,
		CreatedAt:    created,
	})
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
