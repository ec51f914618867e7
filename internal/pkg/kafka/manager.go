package kafka

import (
	"Converse/internal/api/config"
	"Converse/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notifyConsumer sarama.ConsumerGroup
	notifyHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, notifySvc service.NotificationService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	notifyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaNotifyConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		notifyConsumer: notifyConsumer,
		notifyHandler:  NewNotifyHandler(notifySvc),
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaNotifyConsumer.Topic
		log.Info("Notify consumer started", "topic", topic)
		for {
			if err := m.notifyConsumer.Consume(ctx, []string{topic}, m.notifyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notifyConsumer.Close(); err != nil {
		log.Error("Failed to close notify consumer", "err", err)
	}
	return nil
}
