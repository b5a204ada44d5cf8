package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

const errorBufferSize = 256

// Producer owns a Sarama async producer plus the goroutine that drains
// its error channel.
type Producer struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
	cfg      config.KafkaSettings
	errChan  chan error
	done     chan struct{}
}

// NewProducer connects an async producer to the configured brokers and
// starts the error watcher.
func NewProducer(cfg config.KafkaSettings, logger *zap.Logger) (*Producer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		logger:   logger,
		cfg:      cfg,
		errChan:  make(chan error, errorBufferSize),
		done:     make(chan struct{}),
	}
	go p.watchErrors()

	logger.Info("kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", cfg.TopicPrefix),
		zap.Bool("async", cfg.Async))

	return p, nil
}

// newSaramaConfig tunes the producer for fire-and-forget publishing:
// leader-only acks, snappy compression, batched flushes, and delivery
// errors reported on the Errors channel.
func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.Version = sarama.V3_5_0_0

	c.Producer.RequiredAcks = sarama.WaitForLocal
	c.Producer.Compression = sarama.CompressionSnappy
	c.Producer.Flush.Frequency = 100 * time.Millisecond
	c.Producer.Flush.Messages = 100
	c.Producer.Retry.Max = 3
	c.Producer.Return.Successes = false
	c.Producer.Return.Errors = true

	c.Metadata.Retry.Max = 3
	c.Metadata.Retry.Backoff = 250 * time.Millisecond

	return c
}

// watchErrors logs delivery failures and mirrors them onto the public
// error channel until the producer shuts down.
func (p *Producer) watchErrors() {
	for {
		select {
		case perr, ok := <-p.producer.Errors():
			if !ok {
				return
			}
			if perr == nil {
				continue
			}

			p.logger.Error("kafka delivery failed",
				zap.Error(perr.Err),
				zap.String("topic", perr.Msg.Topic),
				zap.Int32("partition", perr.Msg.Partition),
				zap.Int64("offset", perr.Msg.Offset))

			select {
			case p.errChan <- perr.Err:
			default:
				p.logger.Warn("error channel full, dropping delivery error")
			}
		case <-p.done:
			return
		}
	}
}

// Producer exposes the raw async producer for publishers.
func (p *Producer) Producer() sarama.AsyncProducer {
	return p.producer
}

// Errors reports delivery failures for external monitoring.
func (p *Producer) Errors() <-chan error {
	return p.errChan
}

// Close stops the error watcher and flushes pending messages.
func (p *Producer) Close() error {
	p.logger.Info("closing kafka producer")
	close(p.done)

	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}

// TopicName prefixes eventType with the configured topic prefix,
// leaving already-prefixed names untouched.
func (p *Producer) TopicName(eventType string) string {
	if p.cfg.TopicPrefix == "" {
		return eventType
	}

	prefix := p.cfg.TopicPrefix + "."
	if strings.HasPrefix(eventType, prefix) {
		return eventType
	}
	return prefix + eventType
}
