// Package events publishes expense lifecycle messages to RabbitMQ so
// downstream consumers (exports, budget alerts) can react to mutations
// without the API waiting on them.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
)

const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseUpdated = "expense.updated"
	TypeExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is the message body published for every mutation.
// Expense is nil for deletions; ExpenseID is always set.
type ExpenseEvent struct {
	Type       string          `json:"type"`
	OwnerID    string          `json:"ownerId"`
	ExpenseID  string          `json:"expenseId"`
	Expense    *entity.Expense `json:"expense,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Publisher wraps an AMQP channel and a durable queue for publishing
// expense events. A nil *Publisher is valid and publishes nothing.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
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
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Publish sends an event for the given mutation type. Deleted events only
// carry the expense id.
func (p *Publisher) Publish(ctx context.Context, eventType string, e *entity.Expense) error {
	if p == nil {
		return nil
	}
	ev := ExpenseEvent{
		Type:       eventType,
		OwnerID:    e.OwnerID,
		ExpenseID:  e.ID,
		OccurredAt: time.Now().UTC(),
	}
	if eventType != TypeExpenseDeleted {
		ev.Expense = e
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}
