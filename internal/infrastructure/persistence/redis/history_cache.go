// Package redis 提供生成历史读穿缓存
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/pkg/logger"
)

// historyCacheTTL 历史缓存过期时间，诊断数据允许短暂陈旧
const historyCacheTTL = 30 * time.Second

// HistoryCache 生成历史读穿缓存
// 每个项目缓存一份满额列表，按请求 limit 截断返回
type HistoryCache struct {
	cache       *Cache
	historyRepo repository.GenerationAttemptRepository
}

// NewHistoryCache 创建历史缓存
func NewHistoryCache(cache *Cache, historyRepo repository.GenerationAttemptRepository) *HistoryCache {
	return &HistoryCache{
		cache:       cache,
		historyRepo: historyRepo,
	}
}

// historyKey 构建项目历史缓存键
func historyKey(projectID int64) string {
	return fmt.Sprintf("genhistory:%d", projectID)
}

// ListByProject 读取项目生成历史，缓存未命中时回源数据库
func (h *HistoryCache) ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error) {
	ctx, span := tracer.Start(ctx, "historycache.ListByProject")
	span.SetAttributes(attribute.Int64("project.id", projectID))
	defer span.End()

	if limit <= 0 || limit > repository.DefaultHistoryLimit {
		limit = repository.DefaultHistoryLimit
	}

	data, err := h.cache.GetOrLoadSafe(ctx, historyKey(projectID), historyCacheTTL, func() (interface{}, error) {
		return h.historyRepo.ListByProject(ctx, projectID, repository.DefaultHistoryLimit)
	})
	if err != nil {
		// 缓存链路故障时直接回源
		span.RecordError(err)
		return h.historyRepo.ListByProject(ctx, projectID, limit)
	}

	var attempts []*entity.GenerationAttempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		span.RecordError(err)
		return h.historyRepo.ListByProject(ctx, projectID, limit)
	}

	if len(attempts) > limit {
		attempts = attempts[:limit]
	}
	return attempts, nil
}

// InvalidateHistory 在追加历史后使缓存失效，失败只告警
func (h *HistoryCache) InvalidateHistory(ctx context.Context, projectID int64) {
	if err := h.cache.Delete(ctx, historyKey(projectID)); err != nil {
		logger.Warn(ctx, "failed to invalidate history cache",
			"project_id", projectID, "error", err.Error())
	}
}
