// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"sitecraft-api/internal/domain/entity"
)

// DefaultHistoryLimit 历史记录查询默认条数上限
const DefaultHistoryLimit = 20

// GenerationAttemptRepository 生成历史仓储接口，仅追加
// 历史记录不单独校验归属，调用方需先通过 ProjectRepository 确认项目归属
type GenerationAttemptRepository interface {
	// Append 追加一条生成记录
	Append(ctx context.Context, attempt *entity.GenerationAttempt) error

	// ListByProject 获取项目的生成历史，按 created_at 倒序
	// 返回的记录不包含生成产物正文
	ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error)
}
