package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// ReplyNotificationsQueue carries inbound-reply events from the webhook
// to the notification worker.
const ReplyNotificationsQueue = "reply_notifications"

// ReplyEvent is the payload for one inbound reply needing operator
// notification.
type ReplyEvent struct {
	ID          string    `json:"id"`
	PartnerName string    `json:"partner_name"`
	Body        string    `json:"body"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Publisher wraps one RabbitMQ connection used for publishing.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		ReplyNotificationsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishReply queues a reply event for the notification worker.
func (p *Publisher) PublishReply(partnerName, body string) error {
	event := ReplyEvent{
		ID:          uuid.NewString(),
		PartnerName: partnerName,
		Body:        body,
		ReceivedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.ch.Publish(
		"",
		ReplyNotificationsQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
}

func (p *Publisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Consume opens a manual-ack delivery stream on the reply queue.
func Consume(url string) (<-chan amqp.Delivery, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	q, err := ch.QueueDeclare(ReplyNotificationsQueue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	cleanup := func() {
		ch.Close()
		conn.Close()
	}
	return msgs, cleanup, nil
}
