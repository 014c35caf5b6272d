// Package events publishes every portfolio view transition to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ViewEvent is the JSON value of each Kafka message.
type ViewEvent struct {
	Source    string               `json:"source"`
	Sequence  uint64               `json:"sequence"`
	Timestamp int64                `json:"timestamp"`
	View      models.PortfolioView `json:"view"`
}

// -----------------------------------------------------------------------------

type ViewPublisher struct {
	Portfolio interfaces.IPortfolioView
	Topic     string
	ClientID  string
	Logger    *logger.Logger
	writer    messageWriter
	sequence  uint64
}

// NewViewPublisher returns nil when no brokers are configured.
func NewViewPublisher(cfg *models.MConfig, portfolio interfaces.IPortfolioView, log *logger.Logger) *ViewPublisher {
	if len(cfg.Events.Brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:  kafka.TCP(cfg.Events.Brokers...),
		Topic: cfg.Events.Topic,
		// One key for all messages keeps them on one partition, in order
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Transport: &kafka.Transport{
			ClientID: cfg.Events.ClientID,
		},
	}

	return newViewPublisher(cfg.Events.Topic, cfg.Events.ClientID, portfolio, writer, log)
}

func newViewPublisher(topic, clientID string, portfolio interfaces.IPortfolioView, writer messageWriter, log *logger.Logger) *ViewPublisher {
	return &ViewPublisher{
		Portfolio: portfolio,
		Topic:     topic,
		ClientID:  clientID,
		Logger:    log,
		writer:    writer,
	}
}

// -----------------------------------------------------------------------------

// Run publishes views until ctx is cancelled, then closes the writer.
// Views that change faster than Kafka accepts them are coalesced; the
// latest one is always published.
func (p *ViewPublisher) Run(ctx context.Context) {
	views, cancel := p.Portfolio.Subscribe()
	defer cancel()
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.Logger.Error("Failed to close Kafka writer: %v", err)
		}
	}()

	p.Logger.Info("Publishing portfolio views to topic %s", p.Topic)
	for {
		select {
		case <-ctx.Done():
			return
		case view, ok := <-views:
			if !ok {
				return
			}
			if err := p.Publish(ctx, view); err != nil && ctx.Err() == nil {
				p.Logger.Error("Failed to publish %s view: %v", view.Kind(), err)
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (p *ViewPublisher) Publish(ctx context.Context, view models.PortfolioView) error {
	msg, err := p.message(view, time.Now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.Logger.Debug("Published %s view #%d", view.Kind(), p.sequence)
	return nil
}

// -----------------------------------------------------------------------------

func (p *ViewPublisher) message(view models.PortfolioView, now time.Time) (kafka.Message, error) {
	p.sequence++
	value, err := json.Marshal(ViewEvent{
		Source:    p.ClientID,
		Sequence:  p.sequence,
		Timestamp: now.UnixMilli(),
		View:      view,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(p.ClientID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "state", Value: []byte(view.Kind())},
		},
		Time: now,
	}, nil
}
