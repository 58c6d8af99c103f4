package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Exchange is the durable topic exchange every clinic event goes to.
const Exchange = "careclinic.events"

// Publisher puts clinic events on RabbitMQ. A nil *Publisher drops them.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials rabbitURL and declares Exchange. Without a URL events
// are disabled and NewPublisher returns nil, nil.
func NewPublisher(rabbitURL string) (*Publisher, error) {
	if rabbitURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, domain events are disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", maskPassword(rabbitURL), err)
	}
	p := &Publisher{conn: conn}
	if err := p.declare(); err != nil {
		conn.Close()
		return nil, err
	}
	log.Info().Str("url", maskPassword(rabbitURL)).Str("exchange", Exchange).Msg("event publisher ready")
	return p, nil
}

func (p *Publisher) declare() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	// durable, not auto-deleted, not internal, wait for the broker
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}
	p.channel = ch
	return nil
}

// message encodes event as a persistent JSON message whose id and type
// mirror the event header.
func message(event Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode %s: %w", event.RoutingKey(), err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID(),
		Type:         event.RoutingKey(),
		AppId:        serviceName,
		Timestamp:    event.OccurredAt(),
		Body:         body,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.channel == nil {
		return nil
	}
	msg, err := message(event)
	if err != nil {
		return err
	}
	if err := p.channel.PublishWithContext(ctx, Exchange, event.RoutingKey(), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.RoutingKey(), err)
	}
	log.Debug().Str("event", event.RoutingKey()).Str("event_id", event.ID()).Msg("event published")
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			log.Warn().Err(err).Msg("failed to close event channel")
		}
	}
	return p.conn.Close()
}

func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
