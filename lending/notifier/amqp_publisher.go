package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeKindTopic  = "topic"
	contentTypeJSON    = "application/json"
	messageTypeDueSoon = "DueSoonReminder"
)

var (
	// ErrPublisherClosed is returned when publishing after Close.
	ErrPublisherClosed = errors.New("amqp publisher is closed")

	// ErrBrokerUnavailable is returned when the broker cannot be re-dialed after the channel was lost.
	ErrBrokerUnavailable = errors.New("amqp broker unavailable")
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
}

// brokerSession is one dialed connection with its declared channel.
type brokerSession struct {
	ch    amqpChannel
	close func() error
}

type dialFunc func() (brokerSession, error)

// AMQPPublisher publishes reminders as persistent JSON messages to a durable topic exchange.
// A channel closed by the broker is re-dialed on the next Publish.
type AMQPPublisher struct {
	mu       sync.Mutex
	dial     dialFunc
	session  brokerSession
	exchange string
	closed   bool
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	return newAMQPPublisher(exchange, func() (brokerSession, error) {
		return dialBroker(url, exchange)
	})
}

func newAMQPPublisher(exchange string, dial dialFunc) (*AMQPPublisher, error) {
	session, err := dial()
	if err != nil {
		return nil, err
	}

	return &AMQPPublisher{dial: dial, session: session, exchange: exchange}, nil
}

func dialBroker(url, exchange string) (brokerSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return brokerSession{}, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return brokerSession{}, err
	}

	if err = ch.ExchangeDeclare(exchange, exchangeKindTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return brokerSession{}, err
	}

	return brokerSession{
		ch: ch,
		close: func() error {
			return errors.Join(ch.Close(), conn.Close())
		},
	}, nil
}

// Publish sends the reminder with routing key RoutingKeyDueSoon.
func (p *AMQPPublisher) Publish(ctx context.Context, reminder DueSoonReminder) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(reminder)
	if err != nil {
		return err
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, p.exchange, RoutingKeyDueSoon, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         messageTypeDueSoon,
		Body:         body,
	})
}

// channel returns the open channel, re-dialing once if the broker closed the previous one.
func (p *AMQPPublisher) channel() (amqpChannel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPublisherClosed
	}

	if p.session.ch != nil && !p.session.ch.IsClosed() {
		return p.session.ch, nil
	}

	if p.session.close != nil {
		_ = p.session.close()
	}
	p.session = brokerSession{}

	session, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrokerUnavailable, err)
	}
	p.session = session

	return session.ch, nil
}

// Close closes channel and connection. Publish fails with ErrPublisherClosed afterwards.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true

	if p.session.close == nil {
		return nil
	}

	err := p.session.close()
	p.session = brokerSession{}

	return err
}
