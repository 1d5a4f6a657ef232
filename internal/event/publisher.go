// Package event 负责把 outbox 中的领域事件投递到消息系统
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

// Publisher 投递单条事件
type Publisher interface {
	Publish(ctx context.Context, evt model.OutboxEvent) error
	Close() error
}

// KafkaPublisher 基于 kafka-go Writer，每条消息按事件主题路由
type KafkaPublisher struct {
	writer *kafka.Writer
	prefix string
}

// NewKafkaPublisher 未配置 broker 时返回错误，由调用方回退到 LogPublisher
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w, prefix: cfg.TopicPrefix}, nil
}

// Topic 返回带前缀的完整主题名
func (p *KafkaPublisher) Topic(topic string) string {
	return p.prefix + topic
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt model.OutboxEvent) error {
	return p.writer.WriteMessages(ctx, Message(p.Topic(evt.Topic), evt))
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// Message 将 outbox 记录转换为 kafka 消息；聚合 ID 作为分区键保证同一订单事件有序
func Message(topic string, evt model.OutboxEvent) kafka.Message {
	return kafka.Message{
		Topic: topic,
		Key:   []byte(evt.AggregateID),
		Value: []byte(evt.Payload),
		Time:  evt.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.ID)},
			{Key: "event_type", Value: []byte(evt.Topic)},
		},
	}
}

// LogPublisher 仅记录日志，用于本地开发
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, evt model.OutboxEvent) error {
	logger.Info("event published",
		zap.String("id", evt.ID),
		zap.String("topic", evt.Topic),
		zap.String("aggregate_id", evt.AggregateID),
		zap.String("payload", evt.Payload),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
