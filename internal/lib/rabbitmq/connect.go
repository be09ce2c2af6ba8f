// Package rabbitmq wires the submission-approval events into RabbitMQ. The
// notification workers consume these queues to mail users about approved and
// rejected submissions.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Exchange is the direct exchange all submission events go through.
const Exchange = "submissions"

// Routing keys published by the submission service.
const (
	RoutingKeyApproved = "submission.approved"
	RoutingKeyRejected = "submission.rejected"
)

// QueueConfig binds one queue to a routing key on the submissions exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetSubmissionQueues lists the queues the notification workers consume.
func GetSubmissionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "submission.approved", RoutingKey: RoutingKeyApproved},
		{QueueName: "submission.rejected", RoutingKey: RoutingKeyRejected},
	}
}

// Connect dials RabbitMQ with a fixed number of retries.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel opens a channel, declares the submissions exchange and binds
// the given queues.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
