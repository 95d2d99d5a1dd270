package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"LunchVoter/internal/config"
	"LunchVoter/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// WinnerMessage 获胜通知消息体
type WinnerMessage struct {
	Day     string        `json:"day"`
	RunID   string        `json:"run_id"`
	Winners []WinnerEntry `json:"winners"`
}

// WinnerEntry 单个获胜餐厅
type WinnerEntry struct {
	RestaurantID uint64  `json:"restaurant_id"`
	Score        float64 `json:"score"`
	UniqueVoters int     `json:"unique_voters"`
}

// messageWriter kafka.Writer 的最小子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 把每次评选结果作为一条消息写入 topic，key 为日期
type KafkaPublisher struct {
	writer messageWriter
	logger *logrus.Logger
}

// NewKafkaPublisher 创建 KafkaPublisher
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logrus.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) PublishWinners(ctx context.Context, day string, records []*model.WinnerRecord) error {
	msg := WinnerMessage{Day: day, Winners: make([]WinnerEntry, 0, len(records))}
	for _, r := range records {
		if msg.RunID == "" {
			msg.RunID = r.RunID
		}
		msg.Winners = append(msg.Winners, WinnerEntry{
			RestaurantID: r.RestaurantID,
			Score:        r.Score,
			UniqueVoters: r.UniqueVoters,
		})
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化获胜通知失败: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(day), Value: value}); err != nil {
		return fmt.Errorf("写入 kafka 失败: %w", err)
	}
	p.logger.WithFields(logrus.Fields{"day": day, "run_id": msg.RunID, "winners": len(msg.Winners)}).Info("获胜通知已发送")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher 未配置 kafka 时使用
type NoopPublisher struct{}

func (NoopPublisher) PublishWinners(context.Context, string, []*model.WinnerRecord) error { return nil }
