// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/pkg/errors"
)

// ProjectRepository 项目仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO website_projects (owner_id, name, description, website_type, requirements,
			generated_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		project.OwnerID, project.Name, project.Description, project.WebsiteType,
		project.Requirements, nullString(project.GeneratedCode), project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID 根据 (id, ownerID) 获取项目
func (r *ProjectRepository) GetByID(ctx context.Context, id, ownerID int64) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, owner_id, name, description, website_type, requirements,
			generated_code, status, created_at, updated_at
		FROM website_projects
		WHERE id = $1 AND owner_id = $2
	`

	project, err := scanProject(q.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// Update 更新项目，(id, owner_id) 作为过滤条件
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		UPDATE website_projects
		SET name = $1, description = $2, website_type = $3, requirements = $4,
			generated_code = $5, status = $6, updated_at = NOW()
		WHERE id = $7 AND owner_id = $8
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		project.Name, project.Description, project.WebsiteType, project.Requirements,
		nullString(project.GeneratedCode), project.Status, project.ID, project.OwnerID,
	).Scan(&project.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return errors.ErrProjectNotFound
		}
		span.RecordError(err)
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// Delete 删除项目，返回是否确实删除了一行
func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `DELETE FROM website_projects WHERE id = $1 AND owner_id = $2`
	result, err := q.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// ListByOwner 获取用户项目列表，按 updated_at 倒序
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID int64, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.ListByOwner")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	// 获取总数
	var total int64
	countQuery := `SELECT COUNT(*) FROM website_projects WHERE owner_id = $1`
	if err := q.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	// 获取列表
	query := `
		SELECT id, owner_id, name, description, website_type, requirements,
			generated_code, status, created_at, updated_at
		FROM website_projects
		WHERE owner_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.QueryContext(ctx, query, ownerID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return repository.NewPagedResult(projects, total, pagination), nil
}

// rowScanner 兼容 *sql.Row 与 *sql.Rows 的扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProject 从一行记录扫描项目实体
func scanProject(row rowScanner) (*entity.Project, error) {
	var project entity.Project
	var generatedCode sql.NullString

	err := row.Scan(
		&project.ID, &project.OwnerID, &project.Name, &project.Description,
		&project.WebsiteType, &project.Requirements, &generatedCode,
		&project.Status, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if generatedCode.Valid {
		project.GeneratedCode = &generatedCode.String
	}

	return &project, nil
}

// nullString 将可空字符串指针转换为 sql.NullString
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
