// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"sitecraft-api/internal/domain/entity"
)

// ProjectRepository 项目仓储接口
// 所有按 ID 的访问都以 (id, ownerID) 作为过滤条件，越权访问表现为未找到
type ProjectRepository interface {
	// Create 创建项目
	Create(ctx context.Context, project *entity.Project) error

	// GetByID 根据 ID 获取指定用户的项目，未找到时返回 nil
	GetByID(ctx context.Context, id, ownerID int64) (*entity.Project, error)

	// Update 更新项目，(id, ownerID) 不匹配任何行时返回 ErrProjectNotFound
	Update(ctx context.Context, project *entity.Project) error

	// Delete 删除项目，返回是否确实删除了一行
	Delete(ctx context.Context, id, ownerID int64) (bool, error)

	// ListByOwner 获取用户项目列表，按 updated_at 倒序
	ListByOwner(ctx context.Context, ownerID int64, pagination Pagination) (*PagedResult[*entity.Project], error)
}
