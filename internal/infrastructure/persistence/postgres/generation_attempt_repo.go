// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
)

// GenerationAttemptRepository 生成历史仓储实现，仅追加
type GenerationAttemptRepository struct {
	client *Client
}

// NewGenerationAttemptRepository 创建生成历史仓储
func NewGenerationAttemptRepository(client *Client) *GenerationAttemptRepository {
	return &GenerationAttemptRepository{client: client}
}

// Append 追加一条生成记录
func (r *GenerationAttemptRepository) Append(ctx context.Context, attempt *entity.GenerationAttempt) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationAttemptRepository.Append")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO generation_history (project_id, prompt, generated_output, generation_time,
			success, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		attempt.ProjectID, attempt.Prompt, nullString(attempt.GeneratedOutput),
		attempt.GenerationTime, attempt.Success, nullString(attempt.ErrorMessage),
	).Scan(&attempt.ID, &attempt.CreatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append generation attempt: %w", err)
	}

	return nil
}

// ListByProject 获取项目生成历史，按 created_at 倒序
// 有意不选取 generated_output 字段，历史列表不暴露生成产物正文
func (r *GenerationAttemptRepository) ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationAttemptRepository.ListByProject")
	defer span.End()

	if limit <= 0 || limit > repository.DefaultHistoryLimit {
		limit = repository.DefaultHistoryLimit
	}

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, project_id, prompt, generation_time, success, error_message, created_at
		FROM generation_history
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generation history: %w", err)
	}
	defer rows.Close()

	var attempts []*entity.GenerationAttempt
	for rows.Next() {
		var attempt entity.GenerationAttempt
		var errMsg sql.NullString

		if err := rows.Scan(
			&attempt.ID, &attempt.ProjectID, &attempt.Prompt, &attempt.GenerationTime,
			&attempt.Success, &errMsg, &attempt.CreatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan generation attempt: %w", err)
		}

		if errMsg.Valid {
			attempt.ErrorMessage = &errMsg.String
		}
		attempts = append(attempts, &attempt)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate generation history: %w", err)
	}

	return attempts, nil
}
