package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSNotifier publishes domain events to a NATS broker.
type NATSNotifier struct {
	conn *nats.Conn
}

// NewNATSNotifier connects to the broker at url and returns a Notifier
// backed by it.
func NewNATSNotifier(url string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("biryanipos-backend"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSNotifier{conn: conn}, nil
}

func (n *NATSNotifier) publish(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event for topic %s: %w", topic, err)
	}
	if err := n.conn.Publish(topic, payload); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to publish event")
		return err
	}
	return nil
}

func (n *NATSNotifier) OrderCreated(event OrderEvent) error {
	return n.publish(OrderCreatedTopic, event)
}

func (n *NATSNotifier) OrderUpdated(event OrderEvent) error {
	return n.publish(OrderUpdatedTopic, event)
}

func (n *NATSNotifier) StockAlert(event StockAlertEvent) error {
	return n.publish(StockAlertTopic, event)
}

func (n *NATSNotifier) TableStatus(event TableStatusEvent) error {
	return n.publish(TableStatusTopic, event)
}

func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}
