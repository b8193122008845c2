package adapter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/iwoork/homeforpup-sub008/internal/infrastructure/stream/port"
)

// JetStreamPublisher publishes into a JetStream stream that captures
// "<prefix>.>" subjects.
type JetStreamPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// StreamConfig names the stream and the subject prefix it captures.
type StreamConfig struct {
	URL           string
	Stream        string
	SubjectPrefix string
	MaxAge        time.Duration
}

// NewJetStreamPublisher connects to NATS and creates the stream when it does
// not exist yet.
func NewJetStreamPublisher(cfg StreamConfig) (*JetStreamPublisher, error) {
	if cfg.URL == "" || cfg.Stream == "" || cfg.SubjectPrefix == "" {
		return nil, errors.New("jetstream: url, stream and subject prefix are required")
	}
	nc, err := nats.Connect(cfg.URL, nats.Name("homeforpup-messaging"))
	if err != nil {
		return nil, fmt.Errorf("jetstream: connect: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: new context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := js.Stream(ctx, cfg.Stream); err != nil {
		if !errors.Is(err, jetstream.ErrStreamNotFound) {
			nc.Close()
			return nil, fmt.Errorf("jetstream: lookup stream %s: %w", cfg.Stream, err)
		}
		maxAge := cfg.MaxAge
		if maxAge <= 0 {
			maxAge = 7 * 24 * time.Hour
		}
		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:        cfg.Stream,
			Description: "Messaging fan-out drift reports",
			Subjects:    []string{cfg.SubjectPrefix + ".>"},
			MaxAge:      maxAge,
			Storage:     jetstream.FileStorage,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("jetstream: create stream %s: %w", cfg.Stream, err)
		}
		log.Printf("jetstream: created stream %s", cfg.Stream)
	}
	return &JetStreamPublisher{nc: nc, js: js}, nil
}

var _ port.Publisher = (*JetStreamPublisher)(nil)

func (p *JetStreamPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("jetstream: publish %s: %w", subject, err)
	}
	return nil
}

func (p *JetStreamPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
