package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// NatsBroker publishes events to NATS subjects, carrying the trace context
// in message headers.
type NatsBroker struct {
	nc *nats.Conn
}

// NewNatsBroker wraps an established connection.
func NewNatsBroker(nc *nats.Conn) *NatsBroker {
	return &NatsBroker{nc: nc}
}

// ConnectNats dials url and returns a broker owning the connection.
func ConnectNats(url string) (*NatsBroker, error) {
	nc, err := nats.Connect(url,
		nats.Name("videotube-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return NewNatsBroker(nc), nil
}

func (b *NatsBroker) Name() string { return "nats" }

func (b *NatsBroker) Publish(ctx context.Context, subject string, data []byte) error {
	return b.nc.PublishMsg(newMsg(ctx, subject, data))
}

// Close flushes pending messages and closes the connection.
func (b *NatsBroker) Close() error {
	if b.nc == nil {
		return nil
	}
	return b.nc.Drain()
}

func newMsg(ctx context.Context, subject string, data []byte) *nats.Msg {
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg
}
