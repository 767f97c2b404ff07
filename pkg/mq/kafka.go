package mq

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
)

// KafkaArchiver publishes created messages to an archival topic. The
// whole component is optional: when brokers are down at startup the
// caller runs without it and message semantics do not change.
type KafkaArchiver struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaArchiver(brokers []string, topic string, log *logger.Logger) (*KafkaArchiver, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka producer: %w", err)
	}

	return &KafkaArchiver{
		producer: producer,
		topic:    topic,
		log:      log,
	}, nil
}

// MessageCreated publishes one message, keyed by sender so one sender's
// messages land in one partition in order.
func (k *KafkaArchiver) MessageCreated(m *models.Message) error {
	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(m.SenderID),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish message to kafka: %w", err)
	}

	k.log.Debug("message archived",
		zap.String("topic", k.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (k *KafkaArchiver) Close() error {
	return k.producer.Close()
}
