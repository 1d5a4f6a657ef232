package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

// OutboxRepository 事件外发盒仓储
type OutboxRepository interface {
	// Append 写入一条 pending 事件，应与业务写入处于同一事务
	Append(ctx context.Context, topic, aggregateID string, payload interface{}) (*model.OutboxEvent, error)
	// Claim 领取一批 pending 事件并标记为 processing
	Claim(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkDone(ctx context.Context, id string) error
	// MarkFailed 记录失败；未达上限回到 pending，否则置为 failed
	MarkFailed(ctx context.Context, id string, cause error, maxAttempts int) error
	// Release 将未投递的 processing 事件放回 pending，不计入重试次数
	Release(ctx context.Context, ids []string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type outboxRepository struct{ db *gorm.DB }

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepository{db: db} }

func (r *outboxRepository) Append(ctx context.Context, topic, aggregateID string, payload interface{}) (*model.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	evt := &model.OutboxEvent{
		ID:          uuid.New().String(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     string(body),
		Status:      model.OutboxPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(evt).Error; err != nil {
		return nil, err
	}
	return evt, nil
}

func (r *outboxRepository) Claim(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var batch []model.OutboxEvent
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("status = ?", model.OutboxPending).Order("created_at ASC").Limit(limit)
		// 多个 relay 并发时跳过已被锁定的行（仅 postgres 支持）
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		return tx.Model(&model.OutboxEvent{}).
			Where("id IN ? AND status = ?", ids, model.OutboxPending).
			Update("status", model.OutboxProcessing).Error
	})
	if err != nil {
		return nil, err
	}
	for i := range batch {
		batch[i].Status = model.OutboxProcessing
	}
	return batch, nil
}

func (r *outboxRepository) MarkDone(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.OutboxDone, "processed_at": now}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, cause error, maxAttempts int) error {
	var evt model.OutboxEvent
	if err := r.db.WithContext(ctx).First(&evt, "id = ?", id).Error; err != nil {
		return notFound(err)
	}
	attempts := evt.Attempts + 1
	status := model.OutboxPending
	if maxAttempts > 0 && attempts >= maxAttempts {
		status = model.OutboxFailed
	}
	msg := cause.Error()
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "attempts": attempts, "last_error": msg}).Error
}

func (r *outboxRepository) Release(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id IN ? AND status = ?", ids, model.OutboxProcessing).
		Update("status", model.OutboxPending).Error
}

func (r *outboxRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
