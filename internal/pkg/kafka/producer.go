package kafka

import (
	"context"
	"time"

	"github.com/ds124wfegd/image-converter/config"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Producer interface {
	SendMessage(ctx context.Context, key string, message interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer falls back to a log-only producer when Kafka is disabled or unreachable.
func NewProducer(cfg config.KafkaConfig) Producer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		logrus.Info("Kafka disabled, conversion events go to the log")
		return &logProducer{topic: cfg.Topic}
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logrus.Infof("Kafka producer configured for brokers: %v", cfg.Brokers)

	// Проверяем подключение и создаем топик
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		logrus.Warnf("Kafka connection failed: %v", err)
		logrus.Warn("Using log producer instead")
		return &logProducer{topic: cfg.Topic}
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.Warnf("Could not create topic (might already exist): %v", err)
	} else {
		logrus.Infof("Created topic: %s", cfg.Topic)
	}

	return &kafkaProducer{writer: writer, topic: cfg.Topic}
}

func (p *kafkaProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: messageBytes,
		Time:  time.Now(),
	}

	err = p.writer.WriteMessages(ctx, msg)
	if err != nil {
		logrus.Errorf("Failed to write message to Kafka: %v", err)
		return err
	}

	logrus.Debugf("Message successfully sent to topic: %s", p.topic)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// logProducer для работы без Kafka
type logProducer struct {
	topic string
}

func (m *logProducer) SendMessage(_ context.Context, key string, message interface{}) error {
	logrus.WithFields(logrus.Fields{
		"topic": m.topic,
		"key":   key,
		"event": message,
	}).Debug("conversion event")
	return nil
}

func (m *logProducer) Close() error {
	return nil
}
