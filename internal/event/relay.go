package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

// Relay 从 outbox 拉取 pending 事件并投递
type Relay struct {
	outbox       repository.OutboxRepository
	publisher    Publisher
	workers      int
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewRelay(outbox repository.OutboxRepository, publisher Publisher, cfg config.OutboxConfig) *Relay {
	r := &Relay{
		outbox:       outbox,
		publisher:    publisher,
		workers:      cfg.Workers,
		batchSize:    cfg.BatchSize,
		maxAttempts:  cfg.MaxAttempts,
		pollInterval: cfg.PollInterval,
	}
	if r.workers <= 0 {
		r.workers = 2
	}
	if r.batchSize <= 0 {
		r.batchSize = 100
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = 5
	}
	if r.pollInterval <= 0 {
		r.pollInterval = time.Second
	}
	return r
}

// Start 启动若干 worker 轮询 outbox；返回的停止函数取消进行中的投递，
// 并等待 worker 退出或 ctx 超时
func (r *Relay) Start() func(context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(runCtx)
		}()
	}
	return func(ctx context.Context) error {
		cancel()
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Relay) loop(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("outbox relay: process batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce 领取并投递一批事件，返回成功投递的条数
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := r.outbox.Claim(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for i, evt := range batch {
		if ctx.Err() != nil {
			return sent, r.release(ctx, batch[i:])
		}
		if err := r.publisher.Publish(ctx, evt); err != nil {
			if ctx.Err() != nil {
				return sent, r.release(ctx, batch[i:])
			}
			logger.Warn("outbox relay: publish failed",
				zap.String("id", evt.ID),
				zap.String("topic", evt.Topic),
				zap.Int("attempt", evt.Attempts+1),
				zap.Error(err),
			)
			if err := r.outbox.MarkFailed(ctx, evt.ID, err, r.maxAttempts); err != nil {
				return sent, err
			}
			continue
		}
		// 已投递成功，停止信号不应让事件滞留在 processing
		if err := r.outbox.MarkDone(context.WithoutCancel(ctx), evt.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// release 停止时归还尚未投递的事件；ctx 已取消，改用独立的超时
func (r *Relay) release(ctx context.Context, rest []model.OutboxEvent) error {
	ids := make([]string, len(rest))
	for i := range rest {
		ids[i] = rest[i].ID
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.outbox.Release(rctx, ids); err != nil {
		logger.Warn("outbox relay: release claimed events failed", zap.Int("count", len(ids)), zap.Error(err))
		return err
	}
	return ctx.Err()
}
