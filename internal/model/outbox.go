package model

import "time"

const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxDone       = "done"
	OutboxFailed     = "failed"
)

// 事件主题（不含前缀）
const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status_changed"
	TopicReviewSubmitted    = "review.submitted"
)

// OutboxEvent 事件外发盒，与业务写入同一事务落库，由 relay 异步投递
type OutboxEvent struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Topic       string     `json:"topic" gorm:"type:varchar(64);not null"`
	AggregateID string     `json:"aggregate_id" gorm:"type:varchar(36);index"`
	Payload     string     `json:"payload" gorm:"type:text;not null"`
	Status      string     `json:"status" gorm:"type:varchar(16);not null;index:idx_outbox_status_created"`
	Attempts    int        `json:"attempts" gorm:"not null"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index:idx_outbox_status_created"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (OutboxEvent) TableName() string { return "outbox" }
