package rabbitmq

import "github.com/streadway/amqp"

// Publisher binds a channel to the submissions exchange so callers only
// pick the routing key.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher creates a Publisher over an open channel.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
	}
}

// Publish sends a JSON-encoded message with the given routing key.
func (p *Publisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, p.exchange, routingKey, message)
}
